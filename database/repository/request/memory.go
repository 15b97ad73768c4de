// File: database/repository/request/memory.go
package requestRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"kommunity/models"
)

type memoryRequestRepo struct {
	mu       sync.Mutex
	requests map[string]models.RepairRequest
}

// NewMemoryRequestRepo returns an in-process RequestRepository.
func NewMemoryRequestRepo() RequestRepository {
	return &memoryRequestRepo{requests: make(map[string]models.RepairRequest)}
}

func (r *memoryRequestRepo) Create(ctx context.Context, req *models.RepairRequest) error {
	if err := ctx.Err(); err != nil {
		return models.StorageError("create request", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[req.ID]; exists {
		return models.NewError(models.ErrInvalidInput, fmt.Sprintf("request %s already exists", req.ID))
	}
	req.Version = 1
	r.requests[req.ID] = clone(*req)
	return nil
}

func (r *memoryRequestRepo) GetByID(ctx context.Context, id string) (*models.RepairRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.StorageError("get request", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, models.NewError(models.ErrRequestNotFound, fmt.Sprintf("request %s not found", id))
	}
	out := clone(req)
	return &out, nil
}

func (r *memoryRequestRepo) Update(ctx context.Context, req *models.RepairRequest) error {
	if err := ctx.Err(); err != nil {
		return models.StorageError("update request", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[req.ID]
	if !ok {
		return models.NewError(models.ErrRequestNotFound, fmt.Sprintf("request %s not found", req.ID))
	}
	if stored.Version != req.Version {
		return models.NewError(models.ErrConcurrentUpdate,
			fmt.Sprintf("request %s was modified concurrently, reload and retry", req.ID))
	}
	req.Version++
	r.requests[req.ID] = clone(*req)
	return nil
}

func (r *memoryRequestRepo) List(ctx context.Context, filter models.RequestFilter) ([]models.RepairRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.StorageError("list requests", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.RepairRequest{}
	for _, req := range r.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.Urgency != "" && req.Urgency != filter.Urgency {
			continue
		}
		if filter.AssignedTo != "" && req.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, clone(req))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func clone(req models.RepairRequest) models.RepairRequest {
	out := req
	if req.ScheduledSlot != nil {
		slot := *req.ScheduledSlot
		out.ScheduledSlot = &slot
	}
	out.History = append([]models.StatusChange(nil), req.History...)
	return out
}

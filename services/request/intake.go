package request

import (
	"context"
	"strings"

	"kommunity/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submit files a new request as Pending on behalf of actor.
func (s *DefaultRequestService) Submit(ctx context.Context, actor models.Actor, in models.NewRepairRequest) (*models.RepairRequest, error) {
	if strings.TrimSpace(actor.Username) == "" {
		return nil, models.NewError(models.ErrForbidden, "an authenticated requester is required")
	}
	urgency, ok := models.ParseUrgency(in.Urgency)
	if !ok {
		return nil, models.NewError(models.ErrInvalidInput, "urgency must be one of Low, Medium, High")
	}
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"category", in.Category},
		{"description", in.Description},
		{"location", in.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, models.NewError(models.ErrInvalidInput, f.name+" is required")
		}
	}

	now := s.now()
	req := &models.RepairRequest{
		ID:          uuid.New().String(),
		RequesterID: actor.Username,
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Urgency:     urgency,
		Location:    strings.TrimSpace(in.Location),
		Status:      models.StatusPending,
		History: []models.StatusChange{
			{To: models.StatusPending, By: actor.Username, At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, req); err != nil {
		s.Logger.Error("Failed to create repair request", zap.String("requester", actor.Username), zap.Error(err))
		return nil, err
	}
	s.Logger.Info("Repair request submitted",
		zap.String("requestId", req.ID), zap.String("category", req.Category), zap.String("urgency", string(req.Urgency)))
	return req, nil
}

package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kommunity/models"

	"go.uber.org/zap"
)

var allowedTransitions = map[models.Status][]models.Status{
	models.StatusPending:    {models.StatusAssigned, models.StatusCancelled},
	models.StatusAssigned:   {models.StatusInProgress, models.StatusCompleted, models.StatusCancelled, models.StatusPending},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled, models.StatusPending},
}

// CanTransition reports whether the lifecycle permits from -> to.
func CanTransition(from, to models.Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func invalidTransition(req *models.RepairRequest, to models.Status) error {
	return models.NewError(models.ErrInvalidTransition,
		fmt.Sprintf("request %s cannot move from %s to %s", req.ID, req.Status, to))
}

func (s *DefaultRequestService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// transition records the status change in the audit trail. A same-status
// entry is allowed for rescheduling.
func (s *DefaultRequestService) transition(req *models.RepairRequest, to models.Status, by, note string) error {
	if req.Status != to && !CanTransition(req.Status, to) {
		return invalidTransition(req, to)
	}
	at := s.now()
	req.History = append(req.History, models.StatusChange{
		From: req.Status,
		To:   to,
		By:   by,
		Note: note,
		At:   at,
	})
	req.Status = to
	req.UpdatedAt = at
	return nil
}

func (s *DefaultRequestService) load(ctx context.Context, id string) (*models.RepairRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, models.NewError(models.ErrInvalidInput, "request id is required")
	}
	return s.Repo.GetByID(ctx, id)
}

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin() {
		return models.NewError(models.ErrForbidden, "admin role required")
	}
	return nil
}

// requireAssigneeOrAdmin allows the admin or the serviceman holding the job.
func requireAssigneeOrAdmin(actor models.Actor, req *models.RepairRequest) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == models.RoleServiceman && req.AssignedTo != "" && actor.Username == req.AssignedTo {
		return nil
	}
	return models.NewError(models.ErrForbidden, fmt.Sprintf("request %s is not assigned to %s", req.ID, actor.Username))
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

func (s *DefaultRequestService) notify(ctx context.Context, kind string, req *models.RepairRequest, slot *models.SlotRef, previous, note string) {
	if s.Notifier == nil {
		return
	}
	event := models.LifecycleEvent{
		Kind:               kind,
		RequestID:          req.ID,
		Status:             req.Status,
		AssignedServiceman: req.AssignedTo,
		PreviousServiceman: previous,
		RequesterID:        req.RequesterID,
		Category:           req.Category,
		Location:           req.Location,
		Slot:               slot,
		Note:               note,
		Timestamp:          req.UpdatedAt,
	}
	if err := s.Notifier.Notify(ctx, event); err != nil {
		s.Logger.Warn("Lifecycle notification failed",
			zap.String("requestId", req.ID), zap.String("kind", kind), zap.Error(err))
	}
}

// restoreBooking re-binds a slot that was released ahead of a write that then failed.
func (s *DefaultRequestService) restoreBooking(ctx context.Context, req *models.RepairRequest, serviceman string, slot models.SlotRef) {
	if err := s.Booking.Book(ctx, req.ID, serviceman, slot); err != nil {
		s.Logger.Error("Failed to restore slot after aborted transition",
			zap.String("requestId", req.ID), zap.String("serviceman", serviceman),
			zap.String("slot", slot.String()), zap.Error(err))
	}
}

// undoBooking frees a slot booked ahead of a write that then failed.
func (s *DefaultRequestService) undoBooking(ctx context.Context, req *models.RepairRequest, serviceman string, slot models.SlotRef) {
	if err := s.Booking.Release(ctx, serviceman, slot, req.ID); err != nil {
		s.Logger.Error("Failed to release slot after aborted transition",
			zap.String("requestId", req.ID), zap.String("serviceman", serviceman),
			zap.String("slot", slot.String()), zap.Error(err))
	}
}

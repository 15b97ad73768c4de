package request

import (
	"context"
	"strings"

	"kommunity/models"

	"go.uber.org/zap"
)

// Start marks an assigned job as being worked on.
func (s *DefaultRequestService) Start(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAssigneeOrAdmin(actor, req); err != nil {
		return nil, err
	}
	if req.Status != models.StatusAssigned {
		return nil, invalidTransition(req, models.StatusInProgress)
	}
	if err := s.transition(req, models.StatusInProgress, actor.Username, ""); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, req); err != nil {
		return nil, err
	}
	s.Logger.Info("Request started", zap.String("requestId", req.ID), zap.String("by", actor.Username))
	return req, nil
}

// Complete closes an active job. The booked slot stays bound to the request.
func (s *DefaultRequestService) Complete(ctx context.Context, actor models.Actor, id, note string) (*models.RepairRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAssigneeOrAdmin(actor, req); err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	return s.complete(ctx, actor, req, note, false)
}

// ForceComplete lets an admin close a job on the serviceman's behalf. The
// reason is kept as an override note.
func (s *DefaultRequestService) ForceComplete(ctx context.Context, actor models.Actor, id, reason string) (*models.RepairRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewError(models.ErrInvalidInput, "a reason is required to force completion")
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, actor, req, "[OVERRIDE] "+reason, true)
}

func (s *DefaultRequestService) complete(ctx context.Context, actor models.Actor, req *models.RepairRequest, note string, override bool) (*models.RepairRequest, error) {
	if !CanTransition(req.Status, models.StatusCompleted) {
		return nil, invalidTransition(req, models.StatusCompleted)
	}
	if note != "" {
		if override || actor.IsAdmin() {
			req.AdminNotes = appendNote(req.AdminNotes, note)
		} else {
			req.ServicemanNotes = appendNote(req.ServicemanNotes, note)
		}
	}
	req.CompletedBy = actor.Username
	if err := s.transition(req, models.StatusCompleted, actor.Username, note); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.Logger.Info("Request completed",
		zap.String("requestId", req.ID), zap.String("by", actor.Username), zap.Bool("override", override))
	s.notify(ctx, models.EventCompleted, req, req.ScheduledSlot, "", note)
	return req, nil
}

// Cancel ends a non-terminal request. Its slot is released before the
// status changes.
func (s *DefaultRequestService) Cancel(ctx context.Context, actor models.Actor, id, reason string) (*models.RepairRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.Username != req.RequesterID {
		return nil, models.NewError(models.ErrForbidden, "only an admin or the requester can cancel")
	}
	if !CanTransition(req.Status, models.StatusCancelled) {
		return nil, invalidTransition(req, models.StatusCancelled)
	}

	serviceman := req.AssignedTo
	slot := req.ScheduledSlot
	releaseNote, released, err := s.releaseForExit(ctx, req)
	if err != nil {
		return nil, err
	}

	req.ScheduledSlot = nil
	if err := s.transition(req, models.StatusCancelled, actor.Username, joinNotes(strings.TrimSpace(reason), releaseNote)); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, req); err != nil {
		if released {
			s.restoreBooking(ctx, req, serviceman, *slot)
		}
		return nil, err
	}

	s.Logger.Info("Request cancelled", zap.String("requestId", req.ID), zap.String("by", actor.Username))
	s.notify(ctx, models.EventCancelled, req, slot, "", reason)
	return req, nil
}

// AddNote appends to the admin notes or, for the assigned serviceman, to the
// serviceman notes.
func (s *DefaultRequestService) AddNote(ctx context.Context, actor models.Actor, id, note string) (*models.RepairRequest, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, models.NewError(models.ErrInvalidInput, "note is empty")
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAssigneeOrAdmin(actor, req); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		req.AdminNotes = appendNote(req.AdminNotes, note)
	} else {
		req.ServicemanNotes = appendNote(req.ServicemanNotes, note)
	}
	req.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

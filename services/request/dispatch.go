package request

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kommunity/models"

	"go.uber.org/zap"
)

func (s *DefaultRequestService) lookupServiceman(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewError(models.ErrInvalidInput, "serviceman is required")
	}
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != models.RoleServiceman {
		return nil, models.NewError(models.ErrNotServiceman, fmt.Sprintf("%s is not a registered serviceman", username))
	}
	return u, nil
}

// Assign hands a Pending request to a serviceman. When a slot is given it is
// booked first; if the booking fails the request stays Pending.
func (s *DefaultRequestService) Assign(ctx context.Context, actor models.Actor, id, serviceman string, slot *models.SlotRef) (*models.RepairRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, invalidTransition(req, models.StatusAssigned)
	}
	sm, err := s.lookupServiceman(ctx, serviceman)
	if err != nil {
		return nil, err
	}

	var ref *models.SlotRef
	if slot != nil {
		normalized, err := models.NormalizeSlotRef(*slot)
		if err != nil {
			return nil, err
		}
		if err := s.Booking.Book(ctx, req.ID, sm.Username, normalized); err != nil {
			return nil, err
		}
		ref = &normalized
	}

	req.AssignedTo = sm.Username
	req.ScheduledSlot = ref
	note := "assigned to " + sm.Username
	if ref != nil {
		note += " for " + ref.String()
	}
	if err := s.transition(req, models.StatusAssigned, actor.Username, note); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, req); err != nil {
		if ref != nil {
			s.undoBooking(ctx, req, sm.Username, *ref)
		}
		return nil, err
	}

	s.Logger.Info("Request assigned", zap.String("requestId", req.ID), zap.String("serviceman", sm.Username))
	s.notify(ctx, models.EventAssigned, req, ref, "", "")
	return req, nil
}

// Schedule books a slot for the assigned serviceman and puts the job in
// progress. Rescheduling releases the old slot once the new one is held.
func (s *DefaultRequestService) Schedule(ctx context.Context, actor models.Actor, id string, slot models.SlotRef) (*models.RepairRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusAssigned && req.Status != models.StatusInProgress {
		return nil, invalidTransition(req, models.StatusInProgress)
	}
	ref, err := models.NormalizeSlotRef(slot)
	if err != nil {
		return nil, err
	}
	serviceman := req.AssignedTo

	if err := s.Booking.Book(ctx, req.ID, serviceman, ref); err != nil {
		return nil, err
	}

	previous := req.ScheduledSlot
	moved := previous != nil && *previous != ref
	req.ScheduledSlot = &ref
	if err := s.transition(req, models.StatusInProgress, actor.Username, "scheduled for "+ref.String()); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, req); err != nil {
		if moved || previous == nil {
			s.undoBooking(ctx, req, serviceman, ref)
		}
		return nil, err
	}

	if moved {
		if err := s.Booking.Release(ctx, serviceman, *previous, req.ID); err != nil {
			s.Logger.Warn("Previous slot not released after reschedule",
				zap.String("requestId", req.ID), zap.String("slot", previous.String()), zap.Error(err))
		}
	}

	s.Logger.Info("Request scheduled",
		zap.String("requestId", req.ID), zap.String("serviceman", serviceman), zap.String("slot", ref.String()))
	s.notify(ctx, models.EventScheduled, req, &ref, "", "")
	return req, nil
}

// Reassign returns an active job to the Pending pool, freeing its slot first.
func (s *DefaultRequestService) Reassign(ctx context.Context, actor models.Actor, id, note string) (*models.RepairRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusAssigned && req.Status != models.StatusInProgress {
		return nil, invalidTransition(req, models.StatusPending)
	}

	previous := req.AssignedTo
	slot := req.ScheduledSlot
	releaseNote, released, err := s.releaseForExit(ctx, req)
	if err != nil {
		return nil, err
	}

	req.AssignedTo = ""
	req.ScheduledSlot = nil
	historyNote := joinNotes("reassigned from "+previous, strings.TrimSpace(note), releaseNote)
	if err := s.transition(req, models.StatusPending, actor.Username, historyNote); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, req); err != nil {
		if released {
			s.restoreBooking(ctx, req, previous, *slot)
		}
		return nil, err
	}

	s.Logger.Info("Request returned to pool", zap.String("requestId", req.ID), zap.String("previous", previous))
	s.notify(ctx, models.EventReassigned, req, slot, previous, note)
	return req, nil
}

// releaseForExit frees the request's slot ahead of a cancel or reassign. A
// slot found held by someone else is recorded and skipped; storage failures
// abort the transition.
func (s *DefaultRequestService) releaseForExit(ctx context.Context, req *models.RepairRequest) (note string, released bool, err error) {
	if req.ScheduledSlot == nil || req.AssignedTo == "" {
		return "", false, nil
	}
	err = s.Booking.Release(ctx, req.AssignedTo, *req.ScheduledSlot, req.ID)
	switch {
	case err == nil:
		return "released " + req.ScheduledSlot.String(), true, nil
	case errors.Is(err, models.ErrBookingMismatch), errors.Is(err, models.ErrSlotNotFound):
		s.Logger.Warn("Slot release skipped", zap.String("requestId", req.ID), zap.Error(err))
		return "slot release skipped: " + err.Error(), false, nil
	default:
		return "", false, err
	}
}

func joinNotes(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "; ")
}

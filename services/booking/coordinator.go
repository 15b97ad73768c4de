package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"kommunity/models"

	"go.uber.org/zap"
)

func (c *DefaultBookingCoordinator) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeRef(serviceman string, slot models.SlotRef) (string, models.SlotRef, error) {
	serviceman = strings.TrimSpace(serviceman)
	if serviceman == "" {
		return "", slot, models.NewError(models.ErrInvalidInput, "serviceman is required")
	}
	ref, err := models.NormalizeSlotRef(slot)
	if err != nil {
		return "", slot, err
	}
	return serviceman, ref, nil
}

// Book binds the slot to requestID in one conditional write. Rebooking the
// same slot for the same request succeeds and re-emits slot-booked, so
// listeners must be idempotent per request.
func (c *DefaultBookingCoordinator) Book(ctx context.Context, requestID, serviceman string, slot models.SlotRef) error {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return models.NewError(models.ErrInvalidInput, "request id is required")
	}
	serviceman, ref, err := normalizeRef(serviceman, slot)
	if err != nil {
		return err
	}

	log := c.Logger.With(
		zap.String("requestId", requestID),
		zap.String("serviceman", serviceman),
		zap.String("slot", ref.String()),
	)

	if err := c.Repo.BookSlot(ctx, serviceman, ref.Date, ref.Descriptor(), requestID, c.now()); err != nil {
		switch {
		case errors.Is(err, models.ErrSlotUnavailable):
			log.Info("Booking lost to another request")
		case errors.Is(err, models.ErrSlotNotFound):
			log.Info("Booking target does not exist")
		default:
			log.Error("Booking failed", zap.Error(err))
		}
		return err
	}

	log.Info("Slot booked")
	c.emit(ctx, models.SlotEvent{
		Type:       models.SlotBookedEvent,
		RequestID:  requestID,
		Serviceman: serviceman,
		Slot:       ref,
		Timestamp:  c.now(),
	})
	return nil
}

// Release frees the slot if expectedRequestID holds it. A slot that is
// already free is a no-op and emits nothing.
func (c *DefaultBookingCoordinator) Release(ctx context.Context, serviceman string, slot models.SlotRef, expectedRequestID string) error {
	expectedRequestID = strings.TrimSpace(expectedRequestID)
	if expectedRequestID == "" {
		return models.NewError(models.ErrInvalidInput, "request id is required")
	}
	serviceman, ref, err := normalizeRef(serviceman, slot)
	if err != nil {
		return err
	}

	log := c.Logger.With(
		zap.String("requestId", expectedRequestID),
		zap.String("serviceman", serviceman),
		zap.String("slot", ref.String()),
	)

	released, err := c.Repo.ReleaseSlot(ctx, serviceman, ref.Date, ref.Descriptor(), expectedRequestID)
	if err != nil {
		if errors.Is(err, models.ErrBookingMismatch) {
			log.Warn("Release refused, slot held by another request", zap.Error(err))
		} else {
			log.Error("Release failed", zap.Error(err))
		}
		return err
	}
	if !released {
		log.Debug("Release was a no-op")
		return nil
	}

	log.Info("Slot released")
	c.emit(ctx, models.SlotEvent{
		Type:       models.SlotReleasedEvent,
		RequestID:  expectedRequestID,
		Serviceman: serviceman,
		Slot:       ref,
		Timestamp:  c.now(),
	})
	return nil
}

func (c *DefaultBookingCoordinator) emit(ctx context.Context, event models.SlotEvent) {
	for _, l := range c.Listeners {
		if err := l.OnSlotEvent(ctx, event); err != nil {
			c.Logger.Warn("Slot listener failed",
				zap.String("event", event.Type), zap.String("requestId", event.RequestID), zap.Error(err))
		}
	}
}

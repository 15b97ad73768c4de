package booking

import (
	"context"
	"time"

	scheduleRepo "kommunity/database/repository/schedule"
	"kommunity/models"

	"go.uber.org/zap"
)

// BookingCoordinator is the only path through which slot ownership changes.
type BookingCoordinator interface {
	Book(ctx context.Context, requestID, serviceman string, slot models.SlotRef) error
	Release(ctx context.Context, serviceman string, slot models.SlotRef, expectedRequestID string) error
}

// SlotListener observes committed slot changes. Listener errors are logged
// and never undo the booking.
type SlotListener interface {
	OnSlotEvent(ctx context.Context, event models.SlotEvent) error
}

// DefaultBookingCoordinator delegates every ownership change to the
// repository's conditional writes.
type DefaultBookingCoordinator struct {
	Repo      scheduleRepo.ScheduleRepository
	Listeners []SlotListener
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewBookingCoordinator(repo scheduleRepo.ScheduleRepository, logger *zap.Logger, listeners ...SlotListener) *DefaultBookingCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingCoordinator{
		Repo:      repo,
		Listeners: listeners,
		Logger:    logger,
		Now:       time.Now,
	}
}

// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"kommunity/models"
)

// ScheduleRepository persists serviceman day schedules. Slot ownership only
// changes through BookSlot and ReleaseSlot, both conditional writes.
type ScheduleRepository interface {
	// EnsureDay creates an empty schedule for (serviceman, date) if none exists.
	EnsureDay(ctx context.Context, serviceman, date string) error
	// AppendSlot adds an available slot unless it overlaps an existing one.
	AppendSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor) error
	// GetDay returns nil, nil when no schedule exists.
	GetDay(ctx context.Context, serviceman, date string) (*models.ServicemanDaySchedule, error)
	// BookSlot binds the exact slot to requestID if it is currently unbooked.
	BookSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor, requestID string, at time.Time) error
	// ReleaseSlot unbinds the slot if it is bound to expectedRequestID.
	// released is false when the slot was already free.
	ReleaseSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor, expectedRequestID string) (released bool, err error)
}

// classifyBookMiss explains why a conditional booking matched nothing.
// A slot already held by the same request counts as success.
func classifyBookMiss(day *models.ServicemanDaySchedule, serviceman, date string, slot models.SlotDescriptor, requestID string) error {
	if day == nil {
		return models.NewError(models.ErrSlotNotFound, fmt.Sprintf("no schedule for %s on %s", serviceman, date))
	}
	current, ok := day.Find(slot)
	if !ok {
		return models.NewError(models.ErrSlotNotFound, fmt.Sprintf("no slot %s for %s on %s", slot, serviceman, date))
	}
	if current.BookedBy == requestID {
		return nil
	}
	return models.NewError(models.ErrSlotUnavailable, models.SlotUnavailableMessage)
}

// classifyReleaseMiss explains why a conditional release matched nothing.
// An already free slot is a no-op.
func classifyReleaseMiss(day *models.ServicemanDaySchedule, serviceman, date string, slot models.SlotDescriptor, expectedRequestID string) error {
	if day == nil {
		return models.NewError(models.ErrSlotNotFound, fmt.Sprintf("no schedule for %s on %s", serviceman, date))
	}
	current, ok := day.Find(slot)
	if !ok {
		return models.NewError(models.ErrSlotNotFound, fmt.Sprintf("no slot %s for %s on %s", slot, serviceman, date))
	}
	if current.Available() {
		return nil
	}
	return models.NewError(models.ErrBookingMismatch,
		fmt.Sprintf("slot %s on %s is bound to request %s, not %s", slot, date, current.BookedBy, expectedRequestID))
}

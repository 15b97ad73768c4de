package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	scheduleRepo "kommunity/database/repository/schedule"
	"kommunity/models"
)

func newTestService(today string) *DefaultAvailabilityService {
	svc := NewAvailabilityService(scheduleRepo.NewMemoryScheduleRepo(), zap.NewNop())
	svc.Now = func() time.Time {
		t, _ := time.Parse(models.DateLayout, today)
		return t
	}
	return svc
}

func TestAddTimeSlotCreatesDayAndOrders(t *testing.T) {
	svc := newTestService("2025-05-30")
	ctx := context.Background()

	_, err := svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "11:00", "12:00")
	require.NoError(t, err)
	day, err := svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "9:00", "10:00")
	require.NoError(t, err)

	require.Len(t, day.TimeSlots, 2)
	assert.Equal(t, "09:00", day.TimeSlots[0].Start)
	assert.Equal(t, "11:00", day.TimeSlots[1].Start)
	assert.False(t, day.TimeSlots[0].Stale)
}

func TestAddTimeSlotRejectsBadRanges(t *testing.T) {
	svc := newTestService("2025-05-30")
	ctx := context.Background()

	_, err := svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "10:00", "10:00")
	assert.True(t, errors.Is(err, models.ErrInvalidRange))

	_, err = svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "ten", "11:00")
	assert.True(t, errors.Is(err, models.ErrInvalidRange))

	_, err = svc.AddTimeSlot(ctx, "ramu", "06/01/2025", "10:00", "11:00")
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestAddTimeSlotRejectsOverlapButAllowsAdjacent(t *testing.T) {
	svc := newTestService("2025-05-30")
	ctx := context.Background()

	_, err := svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "10:00", "11:00")
	require.NoError(t, err)

	_, err = svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "10:30", "11:30")
	assert.True(t, errors.Is(err, models.ErrOverlap))

	day, err := svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "11:00", "12:00")
	require.NoError(t, err)
	assert.Len(t, day.TimeSlots, 2)
}

func TestAvailableSlotsEmptyWithoutSchedule(t *testing.T) {
	svc := newTestService("2025-05-30")

	slots, err := svc.AvailableSlots(context.Background(), "ramu", "2025-06-01")
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestAvailableSlotsSkipsBooked(t *testing.T) {
	repo := scheduleRepo.NewMemoryScheduleRepo()
	svc := NewAvailabilityService(repo, nil)
	ctx := context.Background()

	_, err := svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "10:00", "11:00")
	require.NoError(t, err)
	_, err = svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "11:00", "12:00")
	require.NoError(t, err)
	require.NoError(t, repo.BookSlot(ctx, "ramu", "2025-06-01",
		models.SlotDescriptor{Start: "10:00", End: "11:00"}, "req-1", time.Now()))

	slots, err := svc.AvailableSlots(ctx, "ramu", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "11:00", slots[0].Start)
}

func TestDayMarksPastSlotsStale(t *testing.T) {
	svc := newTestService("2025-06-02")
	ctx := context.Background()

	_, err := svc.AddTimeSlot(ctx, "ramu", "2025-06-01", "10:00", "11:00")
	require.NoError(t, err)

	day, err := svc.Day(ctx, "ramu", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, day.TimeSlots, 1)
	assert.True(t, day.TimeSlots[0].Stale)
}

func TestEnsureDayIsIdempotent(t *testing.T) {
	svc := newTestService("2025-05-30")
	ctx := context.Background()

	require.NoError(t, svc.EnsureDay(ctx, "ramu", "2025-06-01"))
	require.NoError(t, svc.EnsureDay(ctx, "ramu", "2025-06-01"))

	day, err := svc.Day(ctx, "ramu", "2025-06-01")
	require.NoError(t, err)
	assert.Empty(t, day.TimeSlots)

	assert.True(t, errors.Is(svc.EnsureDay(ctx, " ", "2025-06-01"), models.ErrInvalidInput))
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	scheduleRepo "kommunity/database/repository/schedule"
	"kommunity/models"
)

type recordingListener struct {
	mu     sync.Mutex
	events []models.SlotEvent
	err    error
}

func (l *recordingListener) OnSlotEvent(_ context.Context, e models.SlotEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return l.err
}

func (l *recordingListener) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

var ramuMorning = models.SlotRef{Date: "2025-06-01", Start: "10:00", End: "11:00"}

func seeded(t *testing.T) scheduleRepo.ScheduleRepository {
	t.Helper()
	repo := scheduleRepo.NewMemoryScheduleRepo()
	require.NoError(t, repo.AppendSlot(context.Background(), "ramu", "2025-06-01", ramuMorning.Descriptor()))
	return repo
}

func TestBookSecondDispatcherLoses(t *testing.T) {
	listener := &recordingListener{}
	c := NewBookingCoordinator(seeded(t), zap.NewNop(), listener)
	ctx := context.Background()

	require.NoError(t, c.Book(ctx, "req42", "ramu", ramuMorning))

	err := c.Book(ctx, "req99", "ramu", ramuMorning)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSlotUnavailable))
	assert.Contains(t, err.Error(), models.SlotUnavailableMessage)

	day, err := c.Repo.GetDay(ctx, "ramu", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "req42", day.TimeSlots[0].BookedBy)
	assert.Equal(t, []string{models.SlotBookedEvent}, listener.types())
}

func TestBookSameRequestTwiceSucceeds(t *testing.T) {
	c := NewBookingCoordinator(seeded(t), nil)
	ctx := context.Background()

	require.NoError(t, c.Book(ctx, "req42", "ramu", ramuMorning))
	require.NoError(t, c.Book(ctx, "req42", "ramu", ramuMorning))
}

func TestBookNormalizesClockStrings(t *testing.T) {
	c := NewBookingCoordinator(seeded(t), nil)

	err := c.Book(context.Background(), "req42", " ramu ", models.SlotRef{Date: " 2025-06-01", Start: "10:00 ", End: " 11:00"})
	require.NoError(t, err)

	err = c.Book(context.Background(), "req7", "ramu", models.SlotRef{Date: "2025-06-01", Start: "10:00", End: "10:30"})
	assert.True(t, errors.Is(err, models.ErrSlotNotFound))
}

func TestBookValidatesInput(t *testing.T) {
	c := NewBookingCoordinator(seeded(t), nil)
	ctx := context.Background()

	assert.True(t, errors.Is(c.Book(ctx, "", "ramu", ramuMorning), models.ErrInvalidInput))
	assert.True(t, errors.Is(c.Book(ctx, "req1", "", ramuMorning), models.ErrInvalidInput))

	bad := ramuMorning
	bad.End = "09:00"
	assert.True(t, errors.Is(c.Book(ctx, "req1", "ramu", bad), models.ErrInvalidRange))
}

func TestConcurrentBookingHasOneWinner(t *testing.T) {
	c := NewBookingCoordinator(seeded(t), nil)
	ctx := context.Background()

	var wins, losses int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.Book(ctx, fmt.Sprintf("req%d", i), "ramu", ramuMorning)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, models.ErrSlotUnavailable):
				atomic.AddInt32(&losses, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(49), losses)
}

func TestReleaseIsIdempotent(t *testing.T) {
	listener := &recordingListener{}
	c := NewBookingCoordinator(seeded(t), nil, listener)
	ctx := context.Background()

	require.NoError(t, c.Book(ctx, "req42", "ramu", ramuMorning))
	require.NoError(t, c.Release(ctx, "ramu", ramuMorning, "req42"))
	require.NoError(t, c.Release(ctx, "ramu", ramuMorning, "req42"))

	assert.Equal(t, []string{models.SlotBookedEvent, models.SlotReleasedEvent}, listener.types())

	require.NoError(t, c.Book(ctx, "req99", "ramu", ramuMorning))
}

func TestReleaseRefusesOtherRequest(t *testing.T) {
	c := NewBookingCoordinator(seeded(t), nil)
	ctx := context.Background()

	require.NoError(t, c.Book(ctx, "req42", "ramu", ramuMorning))
	err := c.Release(ctx, "ramu", ramuMorning, "req99")
	assert.True(t, errors.Is(err, models.ErrBookingMismatch))

	err = c.Release(ctx, "ramu", models.SlotRef{Date: "2025-06-01", Start: "14:00", End: "15:00"}, "req42")
	assert.True(t, errors.Is(err, models.ErrSlotNotFound))
}

func TestListenerErrorDoesNotFailBooking(t *testing.T) {
	listener := &recordingListener{err: errors.New("calendar down")}
	c := NewBookingCoordinator(seeded(t), nil, listener)

	require.NoError(t, c.Book(context.Background(), "req42", "ramu", ramuMorning))
	assert.Len(t, listener.types(), 1)
}

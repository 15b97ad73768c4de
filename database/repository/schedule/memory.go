// File: database/repository/schedule/memory.go
package scheduleRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kommunity/models"
)

type dayKey struct {
	serviceman string
	date       string
}

// memoryScheduleRepo keeps schedules in process. Each method holds the lock
// for exactly one document mutation, which stands in for Mongo's
// document-level atomic update.
type memoryScheduleRepo struct {
	mu   sync.Mutex
	days map[dayKey]*models.ServicemanDaySchedule
}

// NewMemoryScheduleRepo returns an in-process ScheduleRepository.
func NewMemoryScheduleRepo() ScheduleRepository {
	return &memoryScheduleRepo{days: make(map[dayKey]*models.ServicemanDaySchedule)}
}

func (r *memoryScheduleRepo) ensureLocked(serviceman, date string) *models.ServicemanDaySchedule {
	key := dayKey{serviceman, date}
	day, ok := r.days[key]
	if !ok {
		day = &models.ServicemanDaySchedule{
			Serviceman: serviceman,
			Date:       date,
			TimeSlots:  []models.TimeSlot{},
			CreatedAt:  time.Now().UTC(),
		}
		r.days[key] = day
	}
	return day
}

func (r *memoryScheduleRepo) EnsureDay(ctx context.Context, serviceman, date string) error {
	if err := ctx.Err(); err != nil {
		return storeErr("ensure day", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(serviceman, date)
	return nil
}

func (r *memoryScheduleRepo) AppendSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor) error {
	if err := ctx.Err(); err != nil {
		return storeErr("append slot", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	day := r.ensureLocked(serviceman, date)
	for _, existing := range day.TimeSlots {
		if existing.Overlaps(slot) {
			return models.NewError(models.ErrOverlap,
				fmt.Sprintf("slot %s overlaps an existing slot for %s on %s", slot, serviceman, date))
		}
	}
	day.TimeSlots = append(day.TimeSlots, models.TimeSlot{Start: slot.Start, End: slot.End})
	sort.Slice(day.TimeSlots, func(i, j int) bool {
		return day.TimeSlots[i].Start < day.TimeSlots[j].Start
	})
	return nil
}

func (r *memoryScheduleRepo) GetDay(ctx context.Context, serviceman, date string) (*models.ServicemanDaySchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("get day", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	day, ok := r.days[dayKey{serviceman, date}]
	if !ok {
		return nil, nil
	}
	return copyDay(day), nil
}

func (r *memoryScheduleRepo) BookSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor, requestID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return storeErr("book slot", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	day, ok := r.days[dayKey{serviceman, date}]
	if ok {
		if current, found := day.Find(slot); found && current.Available() {
			bookedAt := at.UTC()
			current.BookedBy = requestID
			current.BookedAt = &bookedAt
			return nil
		}
	}
	return classifyBookMiss(day, serviceman, date, slot, requestID)
}

func (r *memoryScheduleRepo) ReleaseSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor, expectedRequestID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storeErr("release slot", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	day, ok := r.days[dayKey{serviceman, date}]
	if ok {
		if current, found := day.Find(slot); found && current.BookedBy == expectedRequestID && !current.Available() {
			current.BookedBy = ""
			current.BookedAt = nil
			return true, nil
		}
	}
	return false, classifyReleaseMiss(day, serviceman, date, slot, expectedRequestID)
}

func copyDay(day *models.ServicemanDaySchedule) *models.ServicemanDaySchedule {
	out := *day
	out.TimeSlots = make([]models.TimeSlot, len(day.TimeSlots))
	copy(out.TimeSlots, day.TimeSlots)
	return &out
}

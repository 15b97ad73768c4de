// services/availability/availability.go
package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	scheduleRepo "kommunity/database/repository/schedule"
	"kommunity/models"

	"go.uber.org/zap"
)

// AvailabilityService manages the slots a serviceman offers per day.
type AvailabilityService interface {
	EnsureDay(ctx context.Context, serviceman, date string) error
	AddTimeSlot(ctx context.Context, serviceman, date, start, end string) (*models.ServicemanDaySchedule, error)
	AvailableSlots(ctx context.Context, serviceman, date string) ([]models.TimeSlot, error)
	Day(ctx context.Context, serviceman, date string) (*models.ServicemanDaySchedule, error)
}

// DefaultAvailabilityService is backed by a ScheduleRepository.
type DefaultAvailabilityService struct {
	Repo   scheduleRepo.ScheduleRepository
	Logger *zap.Logger
	// Now drives stale marking; defaults to time.Now.
	Now func() time.Time
}

func NewAvailabilityService(repo scheduleRepo.ScheduleRepository, logger *zap.Logger) *DefaultAvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAvailabilityService{Repo: repo, Logger: logger, Now: time.Now}
}

func (s *DefaultAvailabilityService) today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().Format(models.DateLayout)
}

func normalizeKey(serviceman, date string) (string, string, error) {
	serviceman = strings.TrimSpace(serviceman)
	if serviceman == "" {
		return "", "", models.NewError(models.ErrInvalidInput, "serviceman is required")
	}
	d, err := models.NormalizeDate(date)
	if err != nil {
		return "", "", err
	}
	return serviceman, d, nil
}

func (s *DefaultAvailabilityService) EnsureDay(ctx context.Context, serviceman, date string) error {
	serviceman, date, err := normalizeKey(serviceman, date)
	if err != nil {
		return err
	}
	if err := s.Repo.EnsureDay(ctx, serviceman, date); err != nil {
		s.Logger.Error("Failed to ensure schedule day",
			zap.String("serviceman", serviceman), zap.String("date", date), zap.Error(err))
		return err
	}
	return nil
}

// AddTimeSlot appends an available slot, creating the day when needed, and
// returns the updated schedule.
func (s *DefaultAvailabilityService) AddTimeSlot(ctx context.Context, serviceman, date, start, end string) (*models.ServicemanDaySchedule, error) {
	serviceman, date, err := normalizeKey(serviceman, date)
	if err != nil {
		return nil, err
	}
	desc, err := models.NormalizeDescriptor(start, end)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.AppendSlot(ctx, serviceman, date, desc); err != nil {
		if errors.Is(err, models.ErrOverlap) {
			s.Logger.Info("Rejected overlapping slot",
				zap.String("serviceman", serviceman), zap.String("date", date), zap.String("slot", desc.String()))
		} else {
			s.Logger.Error("Failed to add time slot",
				zap.String("serviceman", serviceman), zap.String("date", date), zap.Error(err))
		}
		return nil, err
	}
	s.Logger.Info("Time slot added",
		zap.String("serviceman", serviceman), zap.String("date", date), zap.String("slot", desc.String()))

	return s.Day(ctx, serviceman, date)
}

// AvailableSlots lists unbooked slots in start order. A missing day yields an empty list.
func (s *DefaultAvailabilityService) AvailableSlots(ctx context.Context, serviceman, date string) ([]models.TimeSlot, error) {
	serviceman, date, err := normalizeKey(serviceman, date)
	if err != nil {
		return nil, err
	}
	day, err := s.Repo.GetDay(ctx, serviceman, date)
	if err != nil {
		return nil, err
	}
	free := []models.TimeSlot{}
	if day == nil {
		return free, nil
	}
	day.MarkStale(s.today())
	for _, slot := range day.TimeSlots {
		if slot.Available() {
			free = append(free, slot)
		}
	}
	return free, nil
}

// Day returns the whole schedule, booked and free. A missing day is returned
// as an empty schedule rather than an error.
func (s *DefaultAvailabilityService) Day(ctx context.Context, serviceman, date string) (*models.ServicemanDaySchedule, error) {
	serviceman, date, err := normalizeKey(serviceman, date)
	if err != nil {
		return nil, err
	}
	day, err := s.Repo.GetDay(ctx, serviceman, date)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if day == nil {
		day = &models.ServicemanDaySchedule{Serviceman: serviceman, Date: date, TimeSlots: []models.TimeSlot{}}
	}
	day.MarkStale(s.today())
	return day, nil
}

package notification

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	userRepo "kommunity/database/repository/user"
	"kommunity/models"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// CalendarListener mirrors booked slots into a Google Calendar. It is an
// optional side channel; the schedules collection stays authoritative.
type CalendarListener struct {
	svc        *calendar.Service
	calendarID string
	timezone   string
	users      userRepo.UserRepository
	timeout    time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

type CalendarConfig struct {
	CalendarID string
	Timezone   string
	Timeout    time.Duration
}

// NewCalendarListener authenticates with a service account credentials file.
func NewCalendarListener(ctx context.Context, credentialsPath string, cfg CalendarConfig, users userRepo.UserRepository, logger *zap.Logger) (*CalendarListener, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar client init failed: %w", err)
	}
	return newCalendarListener(svc, cfg, users, logger), nil
}

func newCalendarListener(svc *calendar.Service, cfg CalendarConfig, users userRepo.UserRepository, logger *zap.Logger) *CalendarListener {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarListener{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		users:      users,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// OnSlotEvent syncs in the background and returns immediately.
func (c *CalendarListener) OnSlotEvent(ctx context.Context, e models.SlotEvent) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		var err error
		switch e.Type {
		case models.SlotBookedEvent:
			err = c.insert(syncCtx, e)
		case models.SlotReleasedEvent:
			err = c.remove(syncCtx, e)
		}
		if err != nil {
			c.logger.Warn("Calendar sync failed",
				zap.String("event", e.Type), zap.String("requestId", e.RequestID), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until in-flight syncs finish. Used on shutdown.
func (c *CalendarListener) Wait() {
	c.wg.Wait()
}

// calendarEventID is stable per (request, slot) so a repeated booking event
// collides instead of duplicating. Hex digits are valid base32hex.
func calendarEventID(e models.SlotEvent) string {
	sum := sha1.Sum([]byte(e.RequestID + "|" + e.Serviceman + "|" + e.Slot.String()))
	return hex.EncodeToString(sum[:])
}

func (c *CalendarListener) insert(ctx context.Context, e models.SlotEvent) error {
	event := &calendar.Event{
		Id:          calendarEventID(e),
		Summary:     fmt.Sprintf("Service visit: %s", e.Serviceman),
		Description: fmt.Sprintf("Repair request %s", e.RequestID),
		Start:       &calendar.EventDateTime{DateTime: e.Slot.Date + "T" + e.Slot.Start + ":00", TimeZone: c.timezone},
		End:         &calendar.EventDateTime{DateTime: e.Slot.Date + "T" + e.Slot.End + ":00", TimeZone: c.timezone},
		Reminders:   &calendar.EventReminders{UseDefault: true},
	}
	if c.users != nil {
		if u, err := c.users.GetByUsername(ctx, e.Serviceman); err == nil && u != nil && u.Email != "" {
			event.Attendees = []*calendar.EventAttendee{{Email: u.Email}}
		}
	}

	_, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if isStatus(err, http.StatusConflict) {
		return nil
	}
	return err
}

func (c *CalendarListener) remove(ctx context.Context, e models.SlotEvent) error {
	err := c.svc.Events.Delete(c.calendarID, calendarEventID(e)).Context(ctx).Do()
	if isStatus(err, http.StatusNotFound) || isStatus(err, http.StatusGone) {
		return nil
	}
	return err
}

func isStatus(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

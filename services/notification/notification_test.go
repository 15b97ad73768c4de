package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	userRepo "kommunity/database/repository/user"
	"kommunity/models"
	"kommunity/services/tasks"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func plain(s string) string {
	return strings.NewReplacer("\\", "", "*", "").Replace(s)
}

func roster() *userRepo.MemoryUserRepo {
	return userRepo.NewMemoryUserRepo(
		models.User{Username: "asha", Name: "Asha", Role: models.RoleUser, TelegramID: 1001},
		models.User{Username: "ramu", Name: "Ramu Kaka", Role: models.RoleServiceman, TelegramID: 2002, Email: "ramu@example.com"},
		models.User{Username: "offline_sm", Role: models.RoleServiceman},
	)
}

func assignedEvent() models.LifecycleEvent {
	return models.LifecycleEvent{
		Kind:               models.EventAssigned,
		RequestID:          "a1b2c3d4e5f6",
		Status:             models.StatusAssigned,
		AssignedServiceman: "ramu",
		RequesterID:        "asha",
		Category:           "Plumbing",
		Location:           "Block C",
		Slot:               &models.SlotRef{Date: "2025-06-01", Start: "10:00", End: "11:00"},
		Timestamp:          time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
	}
}

func TestTelegramAssignedMessagesBothParties(t *testing.T) {
	sender := &fakeSender{}
	n := newTelegramNotifier(sender, roster(), nil)

	require.NoError(t, n.Notify(context.Background(), assignedEvent()))
	require.Len(t, sender.sent, 2)

	assert.Equal(t, int64(1001), sender.sent[0].ChatID)
	assert.Contains(t, plain(sender.sent[0].Text), "Request #d4e5f6")
	assert.Contains(t, plain(sender.sent[0].Text), "Ramu Kaka")
	assert.Equal(t, tgbotapi.ModeMarkdown, sender.sent[0].ParseMode)

	assert.Equal(t, int64(2002), sender.sent[1].ChatID)
	assert.Contains(t, plain(sender.sent[1].Text), "2025-06-01 10:00-11:00")
}

func TestTelegramSkipsUnlinkedUsers(t *testing.T) {
	sender := &fakeSender{}
	n := newTelegramNotifier(sender, roster(), nil)

	e := assignedEvent()
	e.Kind = models.EventReassigned
	e.PreviousServiceman = "offline_sm"
	require.NoError(t, n.Notify(context.Background(), e))
	assert.Empty(t, sender.sent)
}

func TestTelegramSendFailureIsReported(t *testing.T) {
	sender := &fakeSender{err: errors.New("bot blocked")}
	n := newTelegramNotifier(sender, roster(), nil)

	e := assignedEvent()
	e.Kind = models.EventCompleted
	err := n.Notify(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot blocked")
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func TestQueueNotifierEnqueuesLifecycleTask(t *testing.T) {
	q := &fakeEnqueuer{}
	n := newQueueNotifier(q, nil)

	require.NoError(t, n.Notify(context.Background(), assignedEvent()))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, tasks.TypeLifecycleNotification, q.tasks[0].Type())

	payload, err := tasks.ParseLifecyclePayload(q.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f6", payload.Event.RequestID)
	assert.Equal(t, "ramu", payload.Event.AssignedServiceman)
}

func TestQueueNotifierWrapsEnqueueError(t *testing.T) {
	n := newQueueNotifier(&fakeEnqueuer{err: errors.New("redis down")}, nil)
	err := n.Notify(context.Background(), assignedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
}

func TestMultiNotifierJoinsErrors(t *testing.T) {
	ok := &fakeEnqueuer{}
	m := MultiNotifier{newQueueNotifier(ok, nil), newQueueNotifier(&fakeEnqueuer{err: errors.New("boom")}, nil), LogNotifier{}}

	err := m.Notify(context.Background(), assignedEvent())
	require.Error(t, err)
	assert.Len(t, ok.tasks, 1)
}

func TestCalendarListenerInsertsAndDeletes(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]any
	}
	var mu sync.Mutex
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &c.body)
		}
		mu.Lock()
		calls = append(calls, c)
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer srv.Close()

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	l := newCalendarListener(svc, CalendarConfig{CalendarID: "dispatch", Timezone: "Asia/Kolkata"}, roster(), nil)

	booked := models.SlotEvent{
		Type:       models.SlotBookedEvent,
		RequestID:  "req42",
		Serviceman: "ramu",
		Slot:       models.SlotRef{Date: "2025-06-01", Start: "10:00", End: "11:00"},
	}
	require.NoError(t, l.OnSlotEvent(context.Background(), booked))
	l.Wait()

	released := booked
	released.Type = models.SlotReleasedEvent
	require.NoError(t, l.OnSlotEvent(context.Background(), released))
	l.Wait()

	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/calendars/dispatch/events", calls[0].path)
	assert.Equal(t, calendarEventID(booked), calls[0].body["id"])
	start := calls[0].body["start"].(map[string]any)
	assert.Equal(t, "2025-06-01T10:00:00", start["dateTime"])

	assert.Equal(t, http.MethodDelete, calls[1].method)
	assert.Equal(t, "/calendars/dispatch/events/"+calendarEventID(booked), calls[1].path)
}

func TestCalendarEventIDIsStable(t *testing.T) {
	e := models.SlotEvent{RequestID: "req42", Serviceman: "ramu", Slot: models.SlotRef{Date: "2025-06-01", Start: "10:00", End: "11:00"}}
	id := calendarEventID(e)
	assert.Equal(t, id, calendarEventID(e))
	assert.Len(t, id, 40)

	e.Slot.Start = "09:00"
	assert.NotEqual(t, id, calendarEventID(e))
}

package tasks

import (
	"encoding/json"
	"time"

	"kommunity/models"

	"github.com/hibiken/asynq"
)

const TypeLifecycleNotification = "notification:lifecycle"

// NewLifecycleTask wraps a lifecycle event for the notification worker.
func NewLifecycleTask(event models.LifecycleEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.NotificationPayload{Event: event})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeLifecycleNotification, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ParseLifecyclePayload is the inverse of NewLifecycleTask.
func ParseLifecyclePayload(task *asynq.Task) (models.NotificationPayload, error) {
	var p models.NotificationPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}

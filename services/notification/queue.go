package notification

import (
	"context"
	"fmt"

	"kommunity/models"
	"kommunity/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands lifecycle events to the asynq notification worker.
type QueueNotifier struct {
	client enqueuer
	logger *zap.Logger
}

func NewQueueNotifier(client *asynq.Client, logger *zap.Logger) *QueueNotifier {
	return newQueueNotifier(client, logger)
}

func newQueueNotifier(client enqueuer, logger *zap.Logger) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{client: client, logger: logger}
}

func (q *QueueNotifier) Notify(ctx context.Context, e models.LifecycleEvent) error {
	task, opts, err := tasks.NewLifecycleTask(e)
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	info, err := q.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s notification for %s: %w", e.Kind, e.RequestID, err)
	}
	q.logger.Debug("Notification queued",
		zap.String("taskId", info.ID), zap.String("kind", e.Kind), zap.String("requestId", e.RequestID))
	return nil
}

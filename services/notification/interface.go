package notification

import (
	"context"
	"errors"

	"kommunity/models"

	"go.uber.org/zap"
)

// Notifier delivers a committed lifecycle event to the people it concerns.
type Notifier interface {
	Notify(ctx context.Context, event models.LifecycleEvent) error
}

// LogNotifier only records events. It stands in when no chat channel is configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, e models.LifecycleEvent) error {
	logger := n.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger.Info("Lifecycle event",
		zap.String("kind", e.Kind),
		zap.String("requestId", e.RequestID),
		zap.String("status", string(e.Status)),
		zap.String("serviceman", e.AssignedServiceman))
	return nil
}

// MultiNotifier hands every event to each notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, e models.LifecycleEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

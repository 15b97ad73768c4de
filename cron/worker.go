package cron

import (
	"context"
	"fmt"
	"time"

	"kommunity/config"
	"kommunity/services/notification"
	"kommunity/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOpt is the connection shared by the notification queue producer and worker.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitNotificationWorker runs the lifecycle notification worker in the
// background. The returned server is shut down by the caller.
func InitNotificationWorker(ctx context.Context, deliver notification.Notifier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLifecycleNotification, handleLifecycleTask(deliver, logger))

	go monitorRedisConnection(ctx, logger)

	go func() {
		logger.Info("Starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("Notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Notification worker gave up; lifecycle events will stay queued")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

func handleLifecycleTask(deliver notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseLifecyclePayload(task)
		if err != nil {
			logger.Error("Invalid notification payload", zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		deliverCtx, cancel := context.WithTimeout(ctx, config.NotifyTimeout())
		defer cancel()

		if err := deliver.Notify(deliverCtx, p.Event); err != nil {
			logger.Warn("Notification delivery failed",
				zap.String("kind", p.Event.Kind), zap.String("requestId", p.Event.RequestID), zap.Error(err))
			return err
		}
		logger.Debug("Notification delivered",
			zap.String("kind", p.Event.Kind), zap.String("requestId", p.Event.RequestID))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis connection lost", zap.Error(err))
			}
		}
	}
}

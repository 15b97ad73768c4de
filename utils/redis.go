// File: utils/redis.go
package utils

import (
	"context"
	"fmt"
	"time"

	"kommunity/config"

	"github.com/redis/go-redis/v9"
)

// NewQueueRedisClient connects to the Redis database backing the notification
// queue. It is used for health probes; asynq keeps its own pool.
func NewQueueRedisClient() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return client, fmt.Errorf("failed to connect to Redis (queue): %w", err)
	}
	return client, nil
}

package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy is false when the store is down. Redis only carries notifications,
// so losing it degrades but does not fail the service.
func (h HealthStatus) Healthy() bool {
	return h.Mongo
}

type mongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// HealthMonitor keeps the latest health snapshot in memory.
type HealthMonitor struct {
	redis   redis.Cmdable
	mongo   mongoPinger
	timeout time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(redisClient redis.Cmdable, mongoClient mongoPinger) *HealthMonitor {
	return &HealthMonitor{redis: redisClient, mongo: mongoClient, timeout: 2 * time.Second}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check probes every dependency once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now()}
	if m.redis != nil {
		status.Redis = m.redis.Ping(ctx).Err() == nil
	}
	if m.mongo != nil {
		status.Mongo = m.mongo.Ping(ctx, readpref.Primary()) == nil
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start performs periodic health checks until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context, every time.Duration) {
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}

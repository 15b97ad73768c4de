// File: database/repository/schedule/mongo.go
package scheduleRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"kommunity/models"
)

type mongoScheduleRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoScheduleRepo constructs a MongoDB ScheduleRepository over the "schedules" collection.
func NewMongoScheduleRepo(db *mongo.Database, timeout time.Duration) ScheduleRepository {
	return newMongoScheduleRepo(db.Collection("schedules"), timeout)
}

func newMongoScheduleRepo(coll *mongo.Collection, timeout time.Duration) *mongoScheduleRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &mongoScheduleRepo{coll: coll, timeout: timeout}
}

func (r *mongoScheduleRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return models.StorageError(op, err)
}

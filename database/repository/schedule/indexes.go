// FILE: database/repository/schedule/indexes.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the schedules collection.
func (r *mongoScheduleRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// One schedule document per serviceman and day.
		{
			Keys:    bson.D{{Key: "serviceman", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("serviceman_date_unique"),
		},
		// Booking lookups by request for audits.
		{
			Keys:    bson.D{{Key: "timeSlots.bookedBy", Value: 1}},
			Options: options.Index().SetName("slot_booked_by_idx").SetSparse(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}
	return nil
}

// EnsureIndexes creates schedule indexes when repo is Mongo backed.
func EnsureIndexes(ctx context.Context, repo ScheduleRepository) error {
	if m, ok := repo.(*mongoScheduleRepo); ok {
		return m.EnsureIndexes(ctx)
	}
	return nil
}

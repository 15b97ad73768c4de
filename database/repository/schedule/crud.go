// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kommunity/models"
)

func dayFilter(serviceman, date string) bson.M {
	return bson.M{"serviceman": serviceman, "date": date}
}

func (r *mongoScheduleRepo) EnsureDay(ctx context.Context, serviceman, date string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$setOnInsert": bson.M{
			"serviceman": serviceman,
			"date":       date,
			"timeSlots":  bson.A{},
			"createdAt":  time.Now().UTC(),
		},
	}
	_, err := r.coll.UpdateOne(ctx, dayFilter(serviceman, date), update, options.Update().SetUpsert(true))
	if err != nil {
		// A concurrent upsert won the unique index; the day exists either way.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return storeErr("ensure day", err)
	}
	return nil
}

func (r *mongoScheduleRepo) AppendSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor) error {
	if err := r.EnsureDay(ctx, serviceman, date); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := dayFilter(serviceman, date)
	filter["timeSlots"] = bson.M{
		"$not": bson.M{
			"$elemMatch": bson.M{
				"start": bson.M{"$lt": slot.End},
				"end":   bson.M{"$gt": slot.Start},
			},
		},
	}
	update := bson.M{
		"$push": bson.M{
			"timeSlots": bson.M{
				"$each": bson.A{models.TimeSlot{Start: slot.Start, End: slot.End}},
				"$sort": bson.M{"start": 1},
			},
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return storeErr("append slot", err)
	}
	if res.MatchedCount == 0 {
		return models.NewError(models.ErrOverlap,
			fmt.Sprintf("slot %s overlaps an existing slot for %s on %s", slot, serviceman, date))
	}
	return nil
}

func (r *mongoScheduleRepo) GetDay(ctx context.Context, serviceman, date string) (*models.ServicemanDaySchedule, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var day models.ServicemanDaySchedule
	err := r.coll.FindOne(ctx, dayFilter(serviceman, date)).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, storeErr("get day", err)
	}
	return &day, nil
}

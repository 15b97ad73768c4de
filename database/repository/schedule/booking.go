// File: database/repository/schedule/booking.go
package scheduleRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"kommunity/models"
)

// BookSlot is a single conditional UpdateOne: the $elemMatch only matches
// when the exact slot exists with no bookedBy, so two racing dispatchers
// cannot both match it.
func (r *mongoScheduleRepo) BookSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor, requestID string, at time.Time) error {
	opCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := dayFilter(serviceman, date)
	filter["timeSlots"] = bson.M{
		"$elemMatch": bson.M{
			"start":    slot.Start,
			"end":      slot.End,
			"bookedBy": nil,
		},
	}
	update := bson.M{
		"$set": bson.M{
			"timeSlots.$.bookedBy": requestID,
			"timeSlots.$.bookedAt": at.UTC(),
		},
	}

	res, err := r.coll.UpdateOne(opCtx, filter, update)
	if err != nil {
		return storeErr("book slot", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	day, err := r.GetDay(ctx, serviceman, date)
	if err != nil {
		return err
	}
	return classifyBookMiss(day, serviceman, date, slot, requestID)
}

func (r *mongoScheduleRepo) ReleaseSlot(ctx context.Context, serviceman, date string, slot models.SlotDescriptor, expectedRequestID string) (bool, error) {
	opCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := dayFilter(serviceman, date)
	filter["timeSlots"] = bson.M{
		"$elemMatch": bson.M{
			"start":    slot.Start,
			"end":      slot.End,
			"bookedBy": expectedRequestID,
		},
	}
	update := bson.M{
		"$unset": bson.M{
			"timeSlots.$.bookedBy": "",
			"timeSlots.$.bookedAt": "",
		},
	}

	res, err := r.coll.UpdateOne(opCtx, filter, update)
	if err != nil {
		return false, storeErr("release slot", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	day, err := r.GetDay(ctx, serviceman, date)
	if err != nil {
		return false, err
	}
	return false, classifyReleaseMiss(day, serviceman, date, slot, expectedRequestID)
}

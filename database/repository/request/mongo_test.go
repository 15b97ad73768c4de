package requestRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"kommunity/models"
)

func TestMongoRequestUpdate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := func(mt *mtest.T) string { return mt.DB.Name() + "." + mt.Coll.Name() }

	mt.Run("advances version on match", func(mt *mtest.T) {
		repo := newMongoRequestRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		req := &models.RepairRequest{ID: "req42", Status: models.StatusAssigned, Version: 3}
		require.NoError(mt, repo.Update(context.Background(), req))
		assert.Equal(mt, 4, req.Version)
	})

	mt.Run("stale version is a concurrent update", func(mt *mtest.T) {
		repo := newMongoRequestRepo(mt.Coll, time.Second)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
				{Key: "id", Value: "req42"},
				{Key: "status", Value: "Assigned"},
				{Key: "version", Value: 5},
			}),
		)

		req := &models.RepairRequest{ID: "req42", Version: 3}
		err := repo.Update(context.Background(), req)
		assert.ErrorIs(mt, err, models.ErrConcurrentUpdate)
		assert.Equal(mt, 3, req.Version)
	})

	mt.Run("missing request", func(mt *mtest.T) {
		repo := newMongoRequestRepo(mt.Coll, time.Second)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
		)

		err := repo.Update(context.Background(), &models.RepairRequest{ID: "nope", Version: 1})
		assert.ErrorIs(mt, err, models.ErrRequestNotFound)
	})
}

func TestMongoRequestGetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes status enum", func(mt *mtest.T) {
		repo := newMongoRequestRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+mt.Coll.Name(), mtest.FirstBatch, bson.D{
			{Key: "id", Value: "req42"},
			{Key: "status", Value: "InProgress"},
			{Key: "assignedTo", Value: "ramu"},
			{Key: "scheduledSlot", Value: bson.D{
				{Key: "date", Value: "2025-06-01"},
				{Key: "start", Value: "09:00"},
				{Key: "end", Value: "10:00"},
			}},
			{Key: "version", Value: 2},
		}))

		req, err := repo.GetByID(context.Background(), "req42")
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusInProgress, req.Status)
		require.NotNil(mt, req.ScheduledSlot)
		assert.Equal(mt, "09:00", req.ScheduledSlot.Start)
	})
}

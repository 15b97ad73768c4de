// File: database/repository/request/mongo.go
package requestRepo

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

type mongoRequestRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoRequestRepo constructs a MongoDB RequestRepository over "service_requests".
func NewMongoRequestRepo(db *mongo.Database, timeout time.Duration) RequestRepository {
	return newMongoRequestRepo(db.Collection("service_requests"), timeout)
}

func newMongoRequestRepo(coll *mongo.Collection, timeout time.Duration) *mongoRequestRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &mongoRequestRepo{coll: coll, timeout: timeout}
}

func (r *mongoRequestRepo) Create(ctx context.Context, req *models.RepairRequest) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req.Version = 1
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewError(models.ErrInvalidInput, fmt.Sprintf("request %s already exists", req.ID))
		}
		return models.StorageError("create request", err)
	}
	return nil
}

func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*models.RepairRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var req models.RepairRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.ErrRequestNotFound, fmt.Sprintf("request %s not found", id))
		}
		return nil, models.StorageError("get request", err)
	}
	return &req, nil
}

func (r *mongoRequestRepo) Update(ctx context.Context, req *models.RepairRequest) error {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	expected := req.Version
	next := *req
	next.Version = expected + 1

	res, err := r.coll.ReplaceOne(opCtx, bson.M{"id": req.ID, "version": expected}, next)
	if err != nil {
		return models.StorageError("update request", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, req.ID); err != nil {
			return err
		}
		return models.NewError(models.ErrConcurrentUpdate,
			fmt.Sprintf("request %s was modified concurrently, reload and retry", req.ID))
	}
	req.Version = next.Version
	return nil
}

func (r *mongoRequestRepo) List(ctx context.Context, filter models.RequestFilter) ([]models.RepairRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Urgency != "" {
		query["urgency"] = filter.Urgency
	}
	if filter.AssignedTo != "" {
		query["assignedTo"] = filter.AssignedTo
	}
	if filter.RequesterID != "" {
		query["requesterId"] = filter.RequesterID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, models.StorageError("list requests", err)
	}
	defer cursor.Close(ctx)

	requests := []models.RepairRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, models.StorageError("decode requests", err)
	}
	return requests, nil
}

// EnsureIndexes creates the indexes on the requests collection.
func (r *mongoRequestRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("status_idx")},
		{Keys: bson.D{{Key: "requesterId", Value: 1}}, Options: options.Index().SetName("requester_idx")},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("assignee_status_idx")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create request indexes: %w", err)
	}
	return nil
}

// EnsureIndexes creates request indexes when repo is Mongo backed.
func EnsureIndexes(ctx context.Context, repo RequestRepository) error {
	if m, ok := repo.(*mongoRequestRepo); ok {
		return m.EnsureIndexes(ctx)
	}
	return nil
}

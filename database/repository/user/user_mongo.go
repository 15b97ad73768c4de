package userRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kommunity/models"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database, timeout time.Duration) *MongoUserRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MongoUserRepo{coll: db.Collection("users"), timeout: timeout}
}

// projection keeps credentials owned by the auth service out of this process.
var userProjection = bson.M{"username": 1, "name": 1, "role": 1, "telegram_id": 1, "email": 1}

func (r *MongoUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOne().SetProjection(userProjection)
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"username": username}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, models.StorageError("get user", err)
	}
	return &user, nil
}

func (r *MongoUserRepo) GetAllByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().
		SetProjection(userProjection).
		SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, models.StorageError("list users", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, models.StorageError("decode user", err)
		}
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, models.StorageError("list users", err)
	}
	return users, nil
}

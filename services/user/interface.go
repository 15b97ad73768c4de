package user

import (
	"context"

	userRepo "kommunity/database/repository/user"
	"kommunity/models"
)

// UserService exposes the read-only roster dispatchers pick servicemen from.
type UserService interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	ListServicemen(ctx context.Context) ([]models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

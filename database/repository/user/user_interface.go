package userRepo

import (
	"context"

	"kommunity/models"
)

// UserRepository is a read-only view of accounts owned by the auth service.
type UserRepository interface {
	// GetByUsername returns nil, nil when the user does not exist.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetAllByRole lists users holding role, ordered by username.
	GetAllByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

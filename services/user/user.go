package user

import (
	"context"
	"fmt"
	"strings"

	"kommunity/models"
)

func (s *DefaultUserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewError(models.ErrInvalidInput, "username is required")
	}
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	if u == nil {
		return nil, models.NewError(models.ErrNotServiceman, fmt.Sprintf("user %s not found", username))
	}
	return u, nil
}

func (s *DefaultUserService) ListServicemen(ctx context.Context) ([]models.User, error) {
	return s.Repo.GetAllByRole(ctx, models.RoleServiceman)
}

package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userRepo "kommunity/database/repository/user"
	"kommunity/models"
)

func TestListServicemenFiltersByRole(t *testing.T) {
	svc := &DefaultUserService{Repo: userRepo.NewMemoryUserRepo(
		models.User{Username: "shyam", Role: models.RoleServiceman},
		models.User{Username: "asha", Role: models.RoleUser},
		models.User{Username: "ramu", Role: models.RoleServiceman},
	)}

	list, err := svc.ListServicemen(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ramu", list[0].Username)
	assert.Equal(t, "shyam", list[1].Username)
}

func TestGetUserMissing(t *testing.T) {
	svc := &DefaultUserService{Repo: userRepo.NewMemoryUserRepo()}

	_, err := svc.GetUser(context.Background(), "ghost")
	assert.True(t, errors.Is(err, models.ErrNotServiceman))

	_, err = svc.GetUser(context.Background(), "")
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

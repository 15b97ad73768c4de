package requestRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/models"
)

func TestMemoryUpdateRejectsStaleVersion(t *testing.T) {
	repo := NewMemoryRequestRepo()
	ctx := context.Background()

	req := &models.RepairRequest{ID: "req42", Status: models.StatusPending}
	require.NoError(t, repo.Create(ctx, req))
	assert.Equal(t, 1, req.Version)

	first, err := repo.GetByID(ctx, "req42")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "req42")
	require.NoError(t, err)

	first.Status = models.StatusAssigned
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Status = models.StatusCancelled
	assert.ErrorIs(t, repo.Update(ctx, second), models.ErrConcurrentUpdate)

	stored, err := repo.GetByID(ctx, "req42")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, stored.Status)
}

func TestMemoryListFiltersAndOrders(t *testing.T) {
	repo := NewMemoryRequestRepo()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &models.RepairRequest{ID: "a", Status: models.StatusPending, Urgency: models.UrgencyLow, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &models.RepairRequest{ID: "b", Status: models.StatusPending, Urgency: models.UrgencyHigh, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.RepairRequest{ID: "c", Status: models.StatusAssigned, AssignedTo: "ramu", CreatedAt: base.Add(2 * time.Hour)}))

	pending, err := repo.List(ctx, models.RequestFilter{Status: models.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b", pending[0].ID)

	ramu, err := repo.List(ctx, models.RequestFilter{AssignedTo: "ramu"})
	require.NoError(t, err)
	require.Len(t, ramu, 1)
	assert.Equal(t, "c", ramu[0].ID)
}

func TestMemoryGetByIDMissing(t *testing.T) {
	_, err := NewMemoryRequestRepo().GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrRequestNotFound)
}

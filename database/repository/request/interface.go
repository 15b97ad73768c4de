// File: database/repository/request/interface.go
package requestRepo

import (
	"context"

	"kommunity/models"
)

// RequestRepository stores repair requests. Requests are archived, never deleted.
type RequestRepository interface {
	// Create inserts a new request with Version 1.
	Create(ctx context.Context, req *models.RepairRequest) error
	// GetByID returns ErrRequestNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.RepairRequest, error)
	// Update replaces the stored request only if its version still equals
	// req.Version, then advances req.Version. A stale version yields
	// ErrConcurrentUpdate.
	Update(ctx context.Context, req *models.RepairRequest) error
	// List returns requests matching filter, newest first.
	List(ctx context.Context, filter models.RequestFilter) ([]models.RepairRequest, error)
}

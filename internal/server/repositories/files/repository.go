// Package files persists FileRecords, the metadata rows that describe
// uploaded objects.
package files

import (
	"context"
	"time"

	"github.com/rolandocepedadev/ccat/internal/server/models"
)

type Repository interface {
	// Create inserts the record and fills in the generated ID and CreatedAt.
	Create(ctx context.Context, file *models.File) (*models.File, error)

	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.File, error)

	// GetByID returns common.ErrorNotFound for unknown or malformed ids.
	GetByID(ctx context.Context, id string) (*models.File, error)

	// Delete returns common.ErrorNotFound when no row was removed.
	Delete(ctx context.Context, id string) error

	SetStarred(ctx context.Context, id string, starred bool) (*models.File, error)

	// PathExists reports whether a record references the object key.
	PathExists(ctx context.Context, path string) (bool, error)

	// ListCreatedBefore returns every record older than t, for reconciliation.
	ListCreatedBefore(ctx context.Context, t time.Time) ([]models.File, error)
}

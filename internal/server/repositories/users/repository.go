// Package users declares and implements persistence for accounts and their
// profile metadata.
package users

import (
	"context"

	"github.com/rolandocepedadev/ccat/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts a new account. A taken email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdateMetadata merges fields into the metadata document in one
	// statement and returns the updated user.
	UpdateMetadata(ctx context.Context, id string, fields map[string]string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error

	// AvatarPathExists reports whether any account references the key as
	// its avatar.
	AvatarPathExists(ctx context.Context, path string) (bool, error)
}

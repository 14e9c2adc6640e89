// Package refreshtokens stores the opaque refresh tokens that let clients
// obtain new access tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/rolandocepedadev/ccat/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid for validity from now.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Consume removes token and returns it, or common.ErrorNotFound when
	// it is unknown or was already consumed.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is idempotent.
	Delete(ctx context.Context, token string) error

	// DeleteExpired drops tokens that expired before the given time and
	// reports how many went.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

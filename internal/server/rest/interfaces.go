// Package rest exposes the services over HTTP with echo.
package rest

import (
	"context"
	"io"

	"github.com/rolandocepedadev/ccat/internal/server/models"
	"github.com/rolandocepedadev/ccat/internal/server/services"
)

type Accounts interface {
	TokenVerifier
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type Files interface {
	List(ctx context.Context, userID string) ([]models.File, error)
	Create(ctx context.Context, userID string, up services.Upload) (*models.File, error)
	Delete(ctx context.Context, userID, id string) error
	Open(ctx context.Context, userID, id string) (*models.File, io.ReadCloser, error)
	SignedURL(ctx context.Context, userID, id string) (*models.SignedURL, error)
	SetStarred(ctx context.Context, userID, id string, starred bool) (*models.File, error)
}

type Profiles interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID, firstName, lastName string) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID string, up services.Upload) (*models.Profile, error)
	AvatarURL(ctx context.Context, userID string) (*models.SignedURL, error)
	ChangePassword(ctx context.Context, userID, newPassword, confirm string) error
}

type Diagnostics interface {
	Report(ctx context.Context, userID string) (*services.StorageReport, error)
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/logging"
	"github.com/rolandocepedadev/ccat/internal/server/config"
	"github.com/rolandocepedadev/ccat/internal/server/models"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/repomanager"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/users"
	"github.com/rolandocepedadev/ccat/internal/server/storage"
)

// ProfileService manages display metadata, avatars and password changes.
type ProfileService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	store           storage.ObjectStore
	logger          logging.Logger
	signedURLExpiry time.Duration
	avatarMaxSize   int64
	bcryptCost      int
	now             func() time.Time
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, cfg *config.Config, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:              db,
		repomanager:     m,
		store:           store,
		logger:          logger.With("module", "profile"),
		signedURLExpiry: cfg.SignedURLExpiry,
		avatarMaxSize:   common.AvatarMaxSize,
		bcryptCost:      bcrypt.DefaultCost,
		now:             time.Now,
	}
}

func (s *ProfileService) repo() users.Repository {
	return s.repomanager.Users(s.db)
}

func (s *ProfileService) user(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repo().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return u, nil
}

// profile renders u with a freshly signed avatar URL. Signing failures only
// drop the URL.
func (s *ProfileService) profile(ctx context.Context, u *models.User) *models.Profile {
	p := &models.Profile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.Metadata.FirstName,
		LastName:  u.Metadata.LastName,
		CreatedAt: u.CreatedAt,
	}
	if u.Metadata.AvatarPath != "" {
		url, err := s.store.PresignGet(ctx, u.Metadata.AvatarPath, s.signedURLExpiry)
		if err != nil {
			s.logger.Warn(ctx, "avatar url signing failed", "user_id", u.ID, "error", err)
		} else {
			p.AvatarURL = url
		}
	}
	return p
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u), nil
}

// Update replaces first and last name in one metadata merge.
func (s *ProfileService) Update(ctx context.Context, userID, firstName, lastName string) (*models.Profile, error) {
	u, err := s.repo().UpdateMetadata(ctx, userID, map[string]string{
		"first_name": strings.TrimSpace(firstName),
		"last_name":  strings.TrimSpace(lastName),
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return s.profile(ctx, u), nil
}

// UploadAvatar validates and stores a new avatar, then points the profile
// at it. Validation runs before any storage call.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, up Upload) (*models.Profile, error) {
	if err := up.validate(); err != nil {
		return nil, err
	}
	if err := up.resolveContentType(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}
	if !up.isImage() {
		return nil, fmt.Errorf("%w: please select an image file", common.ErrValidation)
	}
	if up.Size > s.avatarMaxSize {
		return nil, fmt.Errorf("%w: file size must be less than 5MB", common.ErrValidation)
	}

	key := fmt.Sprintf("%s/avatar-%d.%s", userID, s.now().UnixMilli(), common.FileExtension(up.Name))
	log := s.logger.With("user_id", userID, "path", key)

	err := s.store.PutObject(ctx, key, up.Body, up.Size, storage.PutOptions{ContentType: up.ContentType, Overwrite: true})
	if err != nil {
		log.Error(ctx, "avatar upload failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}

	u, err := s.repo().UpdateMetadata(ctx, userID, map[string]string{"avatar_path": key})
	if err != nil {
		log.Warn(ctx, "avatar path update failed, object left for reconciliation", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	log.Info(ctx, "avatar updated")
	return s.profile(ctx, u), nil
}

// AvatarURL signs the current avatar. Users without one get
// common.ErrorNotFound.
func (s *ProfileService) AvatarURL(ctx context.Context, userID string) (*models.SignedURL, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Metadata.AvatarPath == "" {
		return nil, common.ErrorNotFound
	}
	url, err := s.store.PresignGet(ctx, u.Metadata.AvatarPath, s.signedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return &models.SignedURL{URL: url, ExpiresAt: s.now().Add(s.signedURLExpiry)}, nil
}

// ChangePassword sets a new password after confirming it.
func (s *ProfileService) ChangePassword(ctx context.Context, userID, newPassword, confirm string) error {
	if newPassword != confirm {
		return fmt.Errorf("%w: new passwords do not match", common.ErrValidation)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo().UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

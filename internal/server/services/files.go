package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/logging"
	"github.com/rolandocepedadev/ccat/internal/server/config"
	"github.com/rolandocepedadev/ccat/internal/server/models"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/files"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/repomanager"
	"github.com/rolandocepedadev/ccat/internal/server/storage"
)

// FileService owns FileRecords and their objects. On create and on delete
// the storage mutation always runs before the metadata mutation.
type FileService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	store           storage.ObjectStore
	logger          logging.Logger
	signedURLExpiry time.Duration
	newID           func() string
	now             func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, cfg *config.Config, logger logging.Logger) *FileService {
	return &FileService{
		db:              db,
		repomanager:     m,
		store:           store,
		logger:          logger.With("module", "files"),
		signedURLExpiry: cfg.SignedURLExpiry,
		newID:           uuid.NewString,
		now:             time.Now,
	}
}

func (s *FileService) repo() files.Repository {
	return s.repomanager.Files(s.db)
}

// ObjectKey builds the storage key for a new upload of name.
func ObjectKey(userID, id, name string) string {
	return fmt.Sprintf("%s/%s.%s", userID, id, common.FileExtension(name))
}

// List returns the caller's records, newest first.
func (s *FileService) List(ctx context.Context, userID string) ([]models.File, error) {
	result, err := s.repo().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return result, nil
}

// Create stores the payload and then inserts its record. The declared
// content type is recorded as is. When the insert
// fails the fresh object is removed again; if that fails too the object is
// left for the reconciler.
func (s *FileService) Create(ctx context.Context, userID string, up Upload) (*models.File, error) {
	if err := up.validate(); err != nil {
		return nil, err
	}
	key := ObjectKey(userID, s.newID(), up.Name)
	log := s.logger.With("user_id", userID, "path", key)

	err := s.store.PutObject(ctx, key, up.Body, up.Size, storage.PutOptions{ContentType: up.ContentType})
	if err != nil {
		log.Error(ctx, "object upload failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}

	rec, err := s.repo().Create(ctx, &models.File{
		UserID:   userID,
		Name:     up.Name,
		Path:     key,
		Size:     up.Size,
		MimeType: up.ContentType,
	})
	if err != nil {
		log.Warn(ctx, "metadata insert failed, removing object", "error", err)
		if rmErr := s.store.RemoveObjects(context.WithoutCancel(ctx), key); rmErr != nil {
			log.Error(ctx, "orphan object left behind", "error", rmErr)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	log.Info(ctx, "file uploaded", "file_id", rec.ID, "size", rec.Size)
	return rec, nil
}

// owned loads a record and checks that userID owns it.
func (s *FileService) owned(ctx context.Context, userID, id string) (*models.File, error) {
	rec, err := s.repo().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if !rec.OwnedBy(userID) {
		return nil, common.ErrForbidden
	}
	return rec, nil
}

// Delete removes the object and then the record. If the record delete
// fails after the object is gone, the row is left for the reconciler.
func (s *FileService) Delete(ctx context.Context, userID, id string) error {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	log := s.logger.With("user_id", userID, "file_id", id, "path", rec.Path)

	if err := s.store.RemoveObjects(ctx, rec.Path); err != nil {
		log.Error(ctx, "object removal failed", "error", err)
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	if err := s.repo().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		log.Warn(ctx, "metadata delete failed after object removal", "error", err)
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	log.Info(ctx, "file deleted")
	return nil
}

// Open streams the object behind an owned record.
func (s *FileService) Open(ctx context.Context, userID, id string) (*models.File, io.ReadCloser, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	body, _, err := s.store.GetObject(ctx, rec.Path)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return rec, body, nil
}

// SignedURL returns a presigned download link for an owned record.
func (s *FileService) SignedURL(ctx context.Context, userID, id string) (*models.SignedURL, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, rec.Path, s.signedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return &models.SignedURL{URL: url, ExpiresAt: s.now().Add(s.signedURLExpiry)}, nil
}

// SetStarred persists the starred flag of an owned record.
func (s *FileService) SetStarred(ctx context.Context, userID, id string, starred bool) (*models.File, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	rec, err := s.repo().SetStarred(ctx, id, starred)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return rec, nil
}

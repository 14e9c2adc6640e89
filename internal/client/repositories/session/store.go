package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rolandocepedadev/ccat/internal/client/migrations"
	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/dbx"

	_ "modernc.org/sqlite"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyEmail        = "email"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded session schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Store keeps the token pair and login email.
type Store struct {
	db   *sql.DB
	repo Repository
}

// Open opens (creating if needed) the SQLite file at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, repo: NewSQLiteRepository(db)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Tokens(ctx context.Context) (models.TokenPair, error) {
	access, err := s.repo.Get(ctx, keyAccessToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.repo.Get(ctx, keyRefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: string(access), RefreshToken: string(refresh)}, nil
}

// SaveTokens writes both tokens in one transaction.
func (s *Store) SaveTokens(ctx context.Context, p models.TokenPair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := NewSQLiteRepository(tx)
		if err := r.Set(ctx, keyAccessToken, []byte(p.AccessToken)); err != nil {
			return err
		}
		return r.Set(ctx, keyRefreshToken, []byte(p.RefreshToken))
	})
}

func (s *Store) Email(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, keyEmail)
	return string(v), err
}

func (s *Store) SetEmail(ctx context.Context, email string) error {
	return s.repo.Set(ctx, keyEmail, []byte(email))
}

// Clear forgets everything, used on logout.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

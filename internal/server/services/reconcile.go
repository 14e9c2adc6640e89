package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/logging"
	"github.com/rolandocepedadev/ccat/internal/server/config"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/repomanager"
	"github.com/rolandocepedadev/ccat/internal/server/storage"
)

// SweepResult counts what one reconciliation pass removed.
type SweepResult struct {
	ObjectsRemoved int
	RecordsRemoved int
	TokensRemoved  int64
}

// Reconciler repairs the two ways a record and its object can drift apart:
// objects nobody references and records whose object is gone. Anything
// younger than the grace period is left alone so in-flight uploads survive.
// Each pass also purges expired refresh tokens.
type Reconciler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	logger      logging.Logger
	grace       time.Duration
	now         func() time.Time
}

func NewReconciler(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, cfg *config.Config, logger logging.Logger) *Reconciler {
	return &Reconciler{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "reconciler"),
		grace:       cfg.ReconcileGracePeriod,
		now:         time.Now,
	}
}

func (r *Reconciler) Sweep(ctx context.Context) (*SweepResult, error) {
	cutoff := r.now().Add(-r.grace)
	res := &SweepResult{}

	n, err := r.sweepObjects(ctx, cutoff)
	res.ObjectsRemoved = n
	if err != nil {
		return res, err
	}

	n, err = r.sweepRecords(ctx, cutoff)
	res.RecordsRemoved = n
	if err != nil {
		return res, err
	}

	if res.TokensRemoved, err = r.repomanager.RefreshTokens(r.db).DeleteExpired(ctx, r.now()); err != nil {
		return res, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	if res.ObjectsRemoved > 0 || res.RecordsRemoved > 0 {
		r.logger.Info(ctx, "reconciliation removed orphans", "objects", res.ObjectsRemoved, "records", res.RecordsRemoved)
	}
	if res.TokensRemoved > 0 {
		r.logger.Debug(ctx, "expired refresh tokens purged", "count", res.TokensRemoved)
	}
	return res, nil
}

func (r *Reconciler) referenced(ctx context.Context, key string) (bool, error) {
	ok, err := r.repomanager.Files(r.db).PathExists(ctx, key)
	if err != nil || ok {
		return ok, err
	}
	return r.repomanager.Users(r.db).AvatarPathExists(ctx, key)
}

func (r *Reconciler) sweepObjects(ctx context.Context, cutoff time.Time) (int, error) {
	objects, err := r.store.ListObjects(ctx, "", 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	var orphans []string
	for _, o := range objects {
		if !o.LastModified.Before(cutoff) {
			continue
		}
		ok, err := r.referenced(ctx, o.Key)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", common.ErrPersistence, err)
		}
		if !ok {
			orphans = append(orphans, o.Key)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	if err := r.store.RemoveObjects(ctx, orphans...); err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return len(orphans), nil
}

func (r *Reconciler) sweepRecords(ctx context.Context, cutoff time.Time) (int, error) {
	repo := r.repomanager.Files(r.db)

	records, err := repo.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	removed := 0
	for _, rec := range records {
		_, err := r.store.StatObject(ctx, rec.Path)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			r.logger.Warn(ctx, "stat failed during reconciliation", "path", rec.Path, "error", err)
			continue
		}
		if err := repo.Delete(ctx, rec.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return removed, fmt.Errorf("%w: %w", common.ErrPersistence, err)
		}
		removed++
	}
	return removed, nil
}

// Run sweeps every interval until ctx is cancelled. A zero interval
// returns immediately.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.logger.Error(ctx, "reconciliation failed", "error", err)
			}
		}
	}
}

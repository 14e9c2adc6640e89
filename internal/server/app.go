// Package server wires configuration, storage, persistence and services
// together and runs the HTTP API, the gRPC health endpoint and the orphan
// reconciler until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rolandocepedadev/ccat/internal/logging"
	"github.com/rolandocepedadev/ccat/internal/server/config"
	gs "github.com/rolandocepedadev/ccat/internal/server/grpc"
	"github.com/rolandocepedadev/ccat/internal/server/repositories/repomanager"
	"github.com/rolandocepedadev/ccat/internal/server/rest"
	"github.com/rolandocepedadev/ccat/internal/server/services"
	"github.com/rolandocepedadev/ccat/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	router     *echo.Echo
	health     *gs.HealthServer
	reconciler *services.Reconciler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel).With("env", c.Environment)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		// the bucket may be provisioned out of band; diagnostics will report it
		logger.Warn(ctx, "bucket check failed", "bucket", store.Bucket(), "error", err)
	}

	users := services.NewUserService(db, rm, c, logger)
	router := rest.NewRouter(rest.Dependencies{
		Accounts:    users,
		Files:       services.NewFileService(db, rm, store, c, logger),
		Profiles:    services.NewProfileService(db, rm, store, c, logger),
		Diagnostics: services.NewDiagnosticsService(users, store, c, logger),
		Logger:      logger,
		BodyLimit:   c.BodyLimit,
	})

	health := gs.NewHealthServer(c.EndpointAddrHealth, logger, c.HealthCheckInterval,
		gs.Check{Name: "database", Probe: db.PingContext},
		gs.Check{Name: "storage", Probe: func(ctx context.Context) error {
			_, err := store.ListBuckets(ctx)
			return err
		}},
	)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		router:     router,
		health:     health,
		reconciler: services.NewReconciler(db, rm, store, c, logger),
	}, nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{Addr: app.config.EndpointAddrHTTP, Handler: app.router}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until SIGINT, SIGTERM or SIGQUIT, or until one of the servers
// fails, then shuts everything down.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHealthServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.reconciler.Run(ctx, app.config.ReconcileInterval)
	}()

	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return app.db.Close()
}

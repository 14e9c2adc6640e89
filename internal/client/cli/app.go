package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rolandocepedadev/ccat/internal/client/client"
	"github.com/rolandocepedadev/ccat/internal/client/config"
	"github.com/rolandocepedadev/ccat/internal/client/listing"
	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/client/repositories/session"
	"github.com/rolandocepedadev/ccat/internal/client/upload"
	"github.com/rolandocepedadev/ccat/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// API is the part of the HTTP client the commands use.
type API interface {
	Ping(ctx context.Context) error
	Authenticated() bool
	SetTokens(p models.TokenPair)

	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error

	ListFiles(ctx context.Context) ([]models.File, error)
	DeleteFile(ctx context.Context, id string) error
	SetStarred(ctx context.Context, id string, starred bool) (*models.File, error)
	SignedURL(ctx context.Context, id string) (*models.SignedURL, error)
	Download(ctx context.Context, id, dir string) (string, error)

	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, firstName, lastName string) (*models.Profile, error)
	UploadAvatar(ctx context.Context, p client.Payload) (*models.Profile, error)
	AvatarURL(ctx context.Context) (*models.SignedURL, error)
	ChangePassword(ctx context.Context, newPassword, confirm string) error
	StorageReport(ctx context.Context) (*models.StorageReport, error)
}

// SessionStore persists the signed-in state between runs.
type SessionStore interface {
	Tokens(ctx context.Context) (models.TokenPair, error)
	SaveTokens(ctx context.Context, p models.TokenPair) error
	Email(ctx context.Context) (string, error)
	SetEmail(ctx context.Context, email string) error
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	config  *config.Config
	api     API
	session SessionStore
	queue   *upload.Queue
	view    *listing.View
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	email string
	// rows maps the row numbers of the last listing to file ids.
	rows []string

	mu   sync.Mutex
	mode Mode

	progressMu sync.Mutex
	shown      map[string]int
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, c.LogLevel)

	store, err := session.Open(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing session database: %w", err)
	}

	api := client.New(c.ServerURL, nil, logger)
	api.OnTokens = func(p models.TokenPair) {
		if err := store.SaveTokens(context.Background(), p); err != nil {
			logger.Warn(context.Background(), "saving session failed", "error", err)
		}
	}

	return newApp(c, api, store, upload.APIUploader(api), logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api API, store SessionStore, u upload.Uploader, l logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		api:     api,
		session: store,
		queue:   upload.NewQueue(u, l),
		view:    listing.NewView(nil),
		logger:  l,
		reader:  bufio.NewReader(in),
		out:     out,
		shown:   map[string]int{},
	}
	a.queue.OnChange(a.renderProgress)
	return a
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.session.Close(); err != nil {
			a.logger.Warn(ctx, "closing session database", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.Authenticated()
}

// checkOnline pings the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.logger.Debug(ctx, "ping failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

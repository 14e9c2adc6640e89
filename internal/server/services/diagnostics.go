package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rolandocepedadev/ccat/internal/logging"
	"github.com/rolandocepedadev/ccat/internal/server/config"
	"github.com/rolandocepedadev/ccat/internal/server/storage"
)

const (
	envSet     = "✓ Set"
	envMissing = "✗ Missing"
)

type BucketsReport struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
	Error string   `json:"error,omitempty"`
}

type UserFilesReport struct {
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type UploadProbeReport struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Removed bool   `json:"removed"`
	Error   string `json:"error,omitempty"`
}

type DiagnosticsUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// StorageReport is the body of GET /api/debug/storage. Individual probe
// failures are reported inside it rather than failing the request.
type StorageReport struct {
	Timestamp   time.Time         `json:"timestamp"`
	User        DiagnosticsUser   `json:"user"`
	Bucket      string            `json:"bucket"`
	Buckets     BucketsReport     `json:"buckets"`
	UserFiles   UserFilesReport   `json:"user_files"`
	UploadTest  UploadProbeReport `json:"upload_test"`
	Environment map[string]string `json:"environment"`
}

// DiagnosticsService probes the object store on behalf of a signed-in user.
type DiagnosticsService struct {
	users  *UserService
	store  storage.ObjectStore
	cfg    *config.Config
	logger logging.Logger
	now    func() time.Time
}

func NewDiagnosticsService(users *UserService, store storage.ObjectStore, cfg *config.Config, logger logging.Logger) *DiagnosticsService {
	return &DiagnosticsService{
		users:  users,
		store:  store,
		cfg:    cfg,
		logger: logger.With("module", "diagnostics"),
		now:    time.Now,
	}
}

// envFlag reports envSet only when every value is present.
func envFlag(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return envMissing
		}
	}
	return envSet
}

func (s *DiagnosticsService) Report(ctx context.Context, userID string) (*StorageReport, error) {
	u, err := s.users.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	r := &StorageReport{
		Timestamp: s.now().UTC(),
		User:      DiagnosticsUser{ID: u.ID, Email: u.Email},
		Bucket:    s.cfg.S3Bucket,
		Buckets:   BucketsReport{Names: []string{}},
		Environment: map[string]string{
			"s3_endpoint":    envFlag(s.cfg.S3BaseEndpoint),
			"s3_credentials": envFlag(s.cfg.S3RootUser, s.cfg.S3RootPassword),
			"jwt_secret":     envFlag(s.cfg.SecretKey),
		},
	}

	if names, err := s.store.ListBuckets(ctx); err != nil {
		r.Buckets.Error = err.Error()
	} else {
		r.Buckets.Count = len(names)
		r.Buckets.Names = names
	}

	if objs, err := s.store.ListObjects(ctx, u.ID+"/", 1); err != nil {
		r.UserFiles.Error = err.Error()
	} else {
		r.UserFiles.Count = len(objs)
	}

	r.UploadTest.Path = fmt.Sprintf("%s/test-%d.txt", u.ID, s.now().UnixMilli())
	body := strings.NewReader("test content")
	err = s.store.PutObject(ctx, r.UploadTest.Path, body, body.Size(), storage.PutOptions{ContentType: "text/plain"})
	if err != nil {
		r.UploadTest.Error = err.Error()
	} else {
		r.UploadTest.Success = true
		if err := s.store.RemoveObjects(ctx, r.UploadTest.Path); err != nil {
			s.logger.Warn(ctx, "test object not removed", "path", r.UploadTest.Path, "error", err)
		} else {
			r.UploadTest.Removed = true
		}
	}

	s.logger.Debug(ctx, "storage diagnostics", "user_id", u.ID, "upload_ok", r.UploadTest.Success)
	return r, nil
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rolandocepedadev/ccat/internal/client/client"
	"github.com/rolandocepedadev/ccat/internal/client/config"
	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/client/upload"
	"github.com/rolandocepedadev/ccat/internal/logging"
)

var errBoom = errors.New("boom")

type fakeAPI struct {
	mu sync.Mutex

	tokens  models.TokenPair
	pingErr error

	registered  []string
	registerErr error
	loginErr    error
	logoutErr   error
	loggedOut   bool

	files     []models.File
	listErr   error
	deleted   []string
	deleteErr map[string]error
	starErr   error

	downloaded []string
	signed     *models.SignedURL

	profile     models.Profile
	profileErr  error
	avatarCalls int
	passwords   []string
	report      *models.StorageReport
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens.AccessToken != "" || f.tokens.RefreshToken != ""
}

func (f *fakeAPI) SetTokens(p models.TokenPair) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = p
}

func (f *fakeAPI) Register(_ context.Context, email, _ string) (string, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	f.registered = append(f.registered, email)
	return "u1", nil
}

func (f *fakeAPI) Login(_ context.Context, _, password string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	if password != "secret1" {
		return &client.StatusError{Code: 401, Message: "Invalid email or password"}
	}
	f.SetTokens(models.TokenPair{AccessToken: "a", RefreshToken: "r"})
	return nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.loggedOut = true
	f.SetTokens(models.TokenPair{})
	return f.logoutErr
}

func (f *fakeAPI) ListFiles(context.Context) ([]models.File, error) {
	return f.files, f.listErr
}

func (f *fakeAPI) DeleteFile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) SetStarred(_ context.Context, id string, starred bool) (*models.File, error) {
	if f.starErr != nil {
		return nil, f.starErr
	}
	return &models.File{ID: id, Starred: starred}, nil
}

func (f *fakeAPI) SignedURL(_ context.Context, id string) (*models.SignedURL, error) {
	return f.signed, nil
}

func (f *fakeAPI) Download(_ context.Context, id, dir string) (string, error) {
	f.downloaded = append(f.downloaded, id)
	return dir + "/" + id + ".bin", nil
}

func (f *fakeAPI) Profile(context.Context) (*models.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p := f.profile
	return &p, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, first, last string) (*models.Profile, error) {
	f.profile.FirstName, f.profile.LastName = first, last
	p := f.profile
	return &p, nil
}

func (f *fakeAPI) UploadAvatar(_ context.Context, p client.Payload) (*models.Profile, error) {
	f.avatarCalls++
	out := f.profile
	out.AvatarURL = "https://cdn.example/" + p.Name
	return &out, nil
}

func (f *fakeAPI) AvatarURL(context.Context) (*models.SignedURL, error) {
	return &models.SignedURL{URL: "https://cdn.example/avatar"}, nil
}

func (f *fakeAPI) ChangePassword(_ context.Context, newPassword, _ string) error {
	f.passwords = append(f.passwords, newPassword)
	return nil
}

func (f *fakeAPI) StorageReport(context.Context) (*models.StorageReport, error) {
	return f.report, nil
}

type fakeSession struct {
	tokens  models.TokenPair
	email   string
	cleared bool
	closed  bool
}

func (s *fakeSession) Tokens(context.Context) (models.TokenPair, error) { return s.tokens, nil }
func (s *fakeSession) SaveTokens(_ context.Context, p models.TokenPair) error {
	s.tokens = p
	return nil
}
func (s *fakeSession) Email(context.Context) (string, error)     { return s.email, nil }
func (s *fakeSession) SetEmail(_ context.Context, e string) error { s.email = e; return nil }
func (s *fakeSession) Clear(context.Context) error {
	s.cleared = true
	s.tokens, s.email = models.TokenPair{}, ""
	return nil
}
func (s *fakeSession) Close() error { s.closed = true; return nil }

type uploaderFunc func(ctx context.Context, src upload.Source, progress func(sent, total int64)) (*models.File, error)

func (f uploaderFunc) Upload(ctx context.Context, src upload.Source, progress func(sent, total int64)) (*models.File, error) {
	return f(ctx, src, progress)
}

func okUploader(ctx context.Context, src upload.Source, progress func(sent, total int64)) (*models.File, error) {
	progress(src.Size, src.Size)
	return &models.File{ID: "new-" + src.Name, Name: src.Name, Size: src.Size, CreatedAt: time.Now()}, nil
}

type testApp struct {
	*App
	api     *fakeAPI
	session *fakeSession
	out     *bytes.Buffer
}

// newTestApp builds an App over fakes. input feeds the interactive prompts.
func newTestApp(t *testing.T, api *fakeAPI, u upload.Uploader, input ...string) *testApp {
	t.Helper()
	if u == nil {
		u = uploaderFunc(okUploader)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DownloadDir = t.TempDir()

	out := &bytes.Buffer{}
	s := &fakeSession{}
	a := newApp(cfg, api, s, u, logging.NewNop(), strings.NewReader(strings.Join(input, "\n")), out)
	return &testApp{App: a, api: api, session: s, out: out}
}

func signedIn(files ...models.File) *fakeAPI {
	return &fakeAPI{
		tokens:  models.TokenPair{AccessToken: "a", RefreshToken: "r"},
		files:   files,
		profile: models.Profile{ID: "u1", Email: "ada@example.com"},
	}
}

// capturePrintln routes printlnFn into the returned buffer.
func capturePrintln(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

func stubInputs(t *testing.T, email string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	i := 0
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if i >= len(passwords) {
			return nil, io.EOF
		}
		p := passwords[i]
		i++
		return []byte(p), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

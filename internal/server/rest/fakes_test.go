package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/logging"
	"github.com/rolandocepedadev/ccat/internal/server/models"
	"github.com/rolandocepedadev/ccat/internal/server/services"
)

const goodToken = "good-token"

type fakeAccounts struct {
	register func(email, password string) (*models.User, error)
	login    func(email, password string) (*services.TokenPair, error)
	refresh  func(token string) (*services.TokenPair, error)
	logout   func(token string) error
}

func (f *fakeAccounts) VerifyAccessToken(token string) (string, error) {
	switch token {
	case goodToken:
		return "u1", nil
	case "expired":
		return "", common.ErrTokenExpired
	default:
		return "", common.ErrInvalidToken
	}
}

func (f *fakeAccounts) Register(_ context.Context, email, password string) (*models.User, error) {
	return f.register(email, password)
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*services.TokenPair, error) {
	return f.login(email, password)
}

func (f *fakeAccounts) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	return f.refresh(token)
}

func (f *fakeAccounts) Logout(_ context.Context, token string) error {
	return f.logout(token)
}

type fakeFiles struct {
	list      func(userID string) ([]models.File, error)
	create    func(userID string, up services.Upload) (*models.File, error)
	delete    func(userID, id string) error
	open      func(userID, id string) (*models.File, io.ReadCloser, error)
	signedURL func(userID, id string) (*models.SignedURL, error)
	star      func(userID, id string, starred bool) (*models.File, error)
}

func (f *fakeFiles) List(_ context.Context, userID string) ([]models.File, error) {
	return f.list(userID)
}

func (f *fakeFiles) Create(_ context.Context, userID string, up services.Upload) (*models.File, error) {
	return f.create(userID, up)
}

func (f *fakeFiles) Delete(_ context.Context, userID, id string) error {
	return f.delete(userID, id)
}

func (f *fakeFiles) Open(_ context.Context, userID, id string) (*models.File, io.ReadCloser, error) {
	return f.open(userID, id)
}

func (f *fakeFiles) SignedURL(_ context.Context, userID, id string) (*models.SignedURL, error) {
	return f.signedURL(userID, id)
}

func (f *fakeFiles) SetStarred(_ context.Context, userID, id string, starred bool) (*models.File, error) {
	return f.star(userID, id, starred)
}

type fakeProfiles struct {
	get       func(userID string) (*models.Profile, error)
	update    func(userID, first, last string) (*models.Profile, error)
	avatar    func(userID string, up services.Upload) (*models.Profile, error)
	avatarURL func(userID string) (*models.SignedURL, error)
	password  func(userID, newPassword, confirm string) error
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*models.Profile, error) {
	return f.get(userID)
}

func (f *fakeProfiles) Update(_ context.Context, userID, first, last string) (*models.Profile, error) {
	return f.update(userID, first, last)
}

func (f *fakeProfiles) UploadAvatar(_ context.Context, userID string, up services.Upload) (*models.Profile, error) {
	return f.avatar(userID, up)
}

func (f *fakeProfiles) AvatarURL(_ context.Context, userID string) (*models.SignedURL, error) {
	return f.avatarURL(userID)
}

func (f *fakeProfiles) ChangePassword(_ context.Context, userID, newPassword, confirm string) error {
	return f.password(userID, newPassword, confirm)
}

type fakeDiagnostics struct {
	report func(userID string) (*services.StorageReport, error)
}

func (f *fakeDiagnostics) Report(_ context.Context, userID string) (*services.StorageReport, error) {
	return f.report(userID)
}

type testServer struct {
	e        *echo.Echo
	accounts *fakeAccounts
	files    *fakeFiles
	profiles *fakeProfiles
	diag     *fakeDiagnostics
}

func newTestServer() *testServer {
	ts := &testServer{
		accounts: &fakeAccounts{},
		files:    &fakeFiles{},
		profiles: &fakeProfiles{},
		diag:     &fakeDiagnostics{},
	}
	ts.e = NewRouter(Dependencies{
		Accounts:    ts.accounts,
		Files:       ts.files,
		Profiles:    ts.profiles,
		Diagnostics: ts.diag,
		Logger:      logging.NewNop(),
		BodyLimit:   "1M",
	})
	return ts
}

func (ts *testServer) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) doJSON(method, path string, payload any, token string) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	return ts.do(method, path, body, echo.MIMEApplicationJSON, token)
}

// multipartBody builds a form with one "file" part.
func multipartBody(t *testing.T, filename, contentType string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message
}


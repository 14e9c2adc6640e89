package rest

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/server/models"
	"github.com/rolandocepedadev/ccat/internal/server/services"
)

func TestHandleRegister(t *testing.T) {
	ts := newTestServer()
	ts.accounts.register = func(email, password string) (*models.User, error) {
		if email == "taken@b.c" {
			return nil, common.ErrAlreadyExists
		}
		if len(password) < 6 {
			return nil, common.ErrValidation
		}
		return &models.User{ID: "u1", Email: email}, nil
	}

	rec := ts.doJSON(http.MethodPost, "/api/auth/register", map[string]string{"email": "a@b.c", "password": "secret1"}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"u1","email":"a@b.c"}`, rec.Body.String())

	rec = ts.doJSON(http.MethodPost, "/api/auth/register", map[string]string{"email": "taken@b.c", "password": "secret1"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.doJSON(http.MethodPost, "/api/auth/register", map[string]string{"email": "nope", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email must be a valid email address", decodeMessage(t, rec))

	rec = ts.do(http.MethodPost, "/api/auth/register", strings.NewReader("{"), echo.MIMEApplicationJSON, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeMessage(t, rec))
}

func TestHandleLogin(t *testing.T) {
	ts := newTestServer()
	ts.accounts.login = func(email, password string) (*services.TokenPair, error) {
		if password != "secret1" {
			return nil, common.ErrorUnauthorized
		}
		return &services.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
	}

	rec := ts.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.c", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pair services.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.Equal(t, services.TokenPair{AccessToken: "a", RefreshToken: "r"}, pair)

	rec = ts.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.c", "password": "bad"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeMessage(t, rec))

	rec = ts.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.c"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password is required", decodeMessage(t, rec))
}

func TestHandleRefreshAndLogout(t *testing.T) {
	ts := newTestServer()
	ts.accounts.refresh = func(token string) (*services.TokenPair, error) {
		switch token {
		case "stale":
			return nil, common.ErrRefreshTokenExpired
		case "r1":
			return &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
		}
		return nil, common.ErrorUnauthorized
	}
	var loggedOut string
	ts.accounts.logout = func(token string) error {
		loggedOut = token
		return nil
	}

	rec := ts.doJSON(http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": "r1"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"a2","refresh_token":"r2"}`, rec.Body.String())

	rec = ts.doJSON(http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": "stale"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Refresh token expired", decodeMessage(t, rec))

	rec = ts.doJSON(http.MethodPost, "/api/auth/refresh", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.doJSON(http.MethodPost, "/api/auth/logout", map[string]string{"refresh_token": "r2"}, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "r2", loggedOut)
}

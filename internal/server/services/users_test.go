package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/server/models"
)

func newUserService(t *testing.T, m *fakeRepoManager) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, m, testConfig(), testLogger())
	s.bcryptCost = bcrypt.MinCost
	return s, mock
}

func TestRegister_NormalizesEmailAndHashes(t *testing.T) {
	m := newFakeRepoManager()
	s, _ := newUserService(t, m)

	u, err := s.Register(context.Background(), "  Alice@Example.COM ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, []byte("secret1"), u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("secret1")))
}

func TestRegister_Validation(t *testing.T) {
	m := newFakeRepoManager()
	s, _ := newUserService(t, m)

	_, err := s.Register(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Register(context.Background(), "a@b.c", "12345")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestRegister_Duplicate(t *testing.T) {
	m := newFakeRepoManager()
	s, _ := newUserService(t, m)

	_, err := s.Register(context.Background(), "a@b.c", "secret1")
	require.NoError(t, err)
	_, err = s.Register(context.Background(), "A@B.C", "secret2")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	m := newFakeRepoManager()
	s, _ := newUserService(t, m)
	ctx := context.Background()

	u, err := s.Register(ctx, "a@b.c", "secret1")
	require.NoError(t, err)

	pair, err := s.Login(ctx, "A@b.c", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 64)

	uid, err := s.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, err = s.Login(ctx, "a@b.c", "wrong-password")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody@b.c", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_RepositoryError(t *testing.T) {
	m := newFakeRepoManager()
	m.u.getErr = errBoom
	s, _ := newUserService(t, m)

	_, err := s.Login(context.Background(), "a@b.c", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestRefreshToken_Rotates(t *testing.T) {
	m := newFakeRepoManager()
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, m, testConfig(), testLogger())
	ctx := context.Background()

	require.NoError(t, m.r.Create(ctx, "u1", "old", time.Hour))

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := s.RefreshToken(ctx, "old")
	require.NoError(t, err)
	assert.NotEqual(t, "old", pair.RefreshToken)

	_, err = m.r.Find(ctx, "old")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	stored, err := m.r.Find(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown", func(t *testing.T) {
		m := newFakeRepoManager()
		db, mock := newSQLMockDB(t)
		s := NewUserService(db, m, testConfig(), testLogger())

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.RefreshToken(ctx, "missing")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired", func(t *testing.T) {
		m := newFakeRepoManager()
		m.r.tokens["stale"] = &models.RefreshToken{UserID: "u1", Token: "stale", Expires: time.Now().Add(-time.Minute)}
		db, mock := newSQLMockDB(t)
		s := NewUserService(db, m, testConfig(), testLogger())

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.RefreshToken(ctx, "stale")
		assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when consume fails", func(t *testing.T) {
		m := newFakeRepoManager()
		require.NoError(t, m.r.Create(ctx, "u1", "old", time.Hour))
		m.r.delErr = errBoom
		db, mock := newSQLMockDB(t)
		s := NewUserService(db, m, testConfig(), testLogger())

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.RefreshToken(ctx, "old")
		assert.ErrorContains(t, err, "error consuming refresh token")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRefreshToken_ReplayRejected(t *testing.T) {
	m := newFakeRepoManager()
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, m, testConfig(), testLogger())
	ctx := context.Background()

	require.NoError(t, m.r.Create(ctx, "u1", "old", time.Hour))

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	first, err := s.RefreshToken(ctx, "old")
	require.NoError(t, err)

	_, err = s.RefreshToken(ctx, "old")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	assert.Len(t, m.r.tokens, 1, "the replay issues no second pair")
	assert.Contains(t, m.r.tokens, first.RefreshToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout(t *testing.T) {
	m := newFakeRepoManager()
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, m, testConfig(), testLogger())
	ctx := context.Background()

	require.NoError(t, m.r.Create(ctx, "u1", "tok", time.Hour))
	require.NoError(t, s.Logout(ctx, "tok"))
	require.NoError(t, s.Logout(ctx, "tok"))
	assert.Empty(t, m.r.tokens)
}

func TestCurrentUser(t *testing.T) {
	m := newFakeRepoManager()
	m.u = newFakeUsersRepo(&models.User{ID: "u1", Email: "a@b.c"})
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, m, testConfig(), testLogger())

	u, err := s.CurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)

	_, err = s.CurrentUser(context.Background(), "gone")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	m.u.getErr = errBoom
	_, err = s.CurrentUser(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrPersistence)
}

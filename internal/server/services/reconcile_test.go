package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/server/models"
	"github.com/rolandocepedadev/ccat/internal/testutil"
)

var sweepNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newReconciler(t *testing.T) (*Reconciler, *fakeRepoManager, *testutil.MemStore) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	m := newFakeRepoManager()
	store := testutil.NewMemStore()
	r := NewReconciler(db, m, store, testConfig(), testLogger())
	r.now = func() time.Time { return sweepNow }
	return r, m, store
}

func TestSweep(t *testing.T) {
	r, m, store := newReconciler(t)
	old := sweepNow.Add(-2 * time.Hour)
	fresh := sweepNow.Add(-10 * time.Minute)

	m.f = newFakeFilesRepo(
		models.File{ID: "f1", UserID: "u1", Path: "u1/kept.txt", CreatedAt: old},
		models.File{ID: "f2", UserID: "u1", Path: "u1/vanished.txt", CreatedAt: old},
		models.File{ID: "f3", UserID: "u1", Path: "u1/in-flight.txt", CreatedAt: fresh},
	)
	m.u = newFakeUsersRepo(&models.User{ID: "u1", Metadata: models.UserMetadata{AvatarPath: "u1/avatar-1.png"}})

	store.Seed("u1/kept.txt", []byte("k"), old)
	store.Seed("u1/avatar-1.png", []byte("a"), old)
	store.Seed("u1/orphan.bin", []byte("o"), old)
	store.Seed("u1/young-orphan.bin", []byte("y"), fresh)

	res, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &SweepResult{ObjectsRemoved: 1, RecordsRemoved: 1}, res)

	assert.Equal(t, []string{"u1/avatar-1.png", "u1/kept.txt", "u1/young-orphan.bin"}, store.Keys())
	assert.True(t, m.f.has("f1"))
	assert.False(t, m.f.has("f2"))
	assert.True(t, m.f.has("f3"))
}

func TestSweep_PurgesExpiredTokens(t *testing.T) {
	r, m, _ := newReconciler(t)
	m.r.tokens["old"] = &models.RefreshToken{UserID: "u1", Token: "old", Expires: sweepNow.Add(-time.Minute)}
	m.r.tokens["live"] = &models.RefreshToken{UserID: "u1", Token: "live", Expires: sweepNow.Add(time.Hour)}

	res, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TokensRemoved)
	assert.Contains(t, m.r.tokens, "live")
	assert.NotContains(t, m.r.tokens, "old")

	m.r.delErr = errBoom
	_, err = r.Sweep(context.Background())
	assert.ErrorIs(t, err, common.ErrPersistence)
}

func TestSweep_Errors(t *testing.T) {
	r, m, store := newReconciler(t)
	store.ListErr = errBoom

	_, err := r.Sweep(context.Background())
	assert.ErrorIs(t, err, common.ErrStorage)

	store.ListErr = nil
	m.f.listErr = errBoom
	_, err = r.Sweep(context.Background())
	assert.ErrorIs(t, err, common.ErrPersistence)
}

func TestReconcilerRun(t *testing.T) {
	r, _, store := newReconciler(t)
	store.Seed("u1/orphan.bin", []byte("o"), sweepNow.Add(-2*time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !store.Has("u1/orphan.bin") }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestReconcilerRun_ZeroIntervalReturns(t *testing.T) {
	r, _, _ := newReconciler(t)
	r.Run(context.Background(), 0)
}

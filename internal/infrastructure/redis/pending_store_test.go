package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/quiz-signup/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*PendingStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPendingStore(client), mr
}

func samplePending() *domain.PendingSignup {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.PendingSignup{
		Key:              "ann@x_com",
		Name:             "Ann",
		Email:            "ann@x.com",
		CredentialSecret: "cHcxMjM0NTY=",
		OTPCode:          "123456",
		OTPExpiresAt:     now.Add(10 * time.Minute),
		LastSentAt:       now,
		ExpiresAt:        now.Add(10*time.Minute + 24*time.Hour).Unix(),
	}
}

func TestPendingStore_PutGetDelete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	p := samplePending()
	require.NoError(t, store.Put(ctx, p, 0))
	assert.Equal(t, int64(1), p.Version)
	assert.True(t, mr.Exists("pending_signup:ann@x_com"))
	assert.Greater(t, mr.TTL("pending_signup:ann@x_com"), 24*time.Hour)

	got, err := store.Get(ctx, p.Key)
	require.NoError(t, err)
	assert.Equal(t, "123456", got.OTPCode)
	assert.True(t, p.OTPExpiresAt.Equal(got.OTPExpiresAt))
	assert.Nil(t, got.LockedUntil)
	assert.Equal(t, int64(1), got.Version)

	require.NoError(t, store.Delete(ctx, p.Key))
	_, err = store.Get(ctx, p.Key)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPendingStore_PutRejectsStaleVersion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, samplePending(), 0))
	err := store.Put(ctx, samplePending(), 0)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	require.NoError(t, store.Put(ctx, samplePending(), 1))
	err = store.Put(ctx, samplePending(), 1)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	err = store.Put(ctx, &domain.PendingSignup{Key: "missing"}, 3)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestPendingStore_UpdateMergesAndBumpsVersion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := samplePending()
	require.NoError(t, store.Put(ctx, p, 0))

	lockedUntil := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
	require.NoError(t, store.Update(ctx, p.Key, 1, map[string]interface{}{
		domain.FieldFailedAttempts: 0,
		domain.FieldLockedUntil:    &lockedUntil,
	}))

	got, err := store.Get(ctx, p.Key)
	require.NoError(t, err)
	require.NotNil(t, got.LockedUntil)
	assert.True(t, lockedUntil.Equal(*got.LockedUntil))
	assert.Equal(t, "123456", got.OTPCode)
	assert.Equal(t, int64(2), got.Version)

	err = store.Update(ctx, p.Key, 1, map[string]interface{}{domain.FieldFailedAttempts: 1})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestPendingStore_UpdateMissingKeyConflicts(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Update(context.Background(), "nobody", 1, map[string]interface{}{domain.FieldFailedAttempts: 1})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestPendingStore_UpdateRejectsUnknownField(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	p := samplePending()
	require.NoError(t, store.Put(ctx, p, 0))

	err := store.Update(ctx, p.Key, 1, map[string]interface{}{"role": "admin"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConflict))
}

func TestPendingStore_GetCorruptValue(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("pending_signup:broken", "{not json"))
	_, err := store.Get(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

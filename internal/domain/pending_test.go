package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSignup_IsLocked(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &PendingSignup{}
	assert.False(t, p.IsLocked(now))

	until := now.Add(time.Minute)
	p.LockedUntil = &until
	assert.True(t, p.IsLocked(now))
	assert.False(t, p.IsLocked(until))
}

func TestPendingSignup_IsCodeExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &PendingSignup{OTPCode: "123456", OTPExpiresAt: now.Add(time.Second)}
	assert.False(t, p.IsCodeExpired(now))
	assert.True(t, p.IsCodeExpired(now.Add(time.Second)))

	p.OTPCode = ""
	assert.True(t, p.IsCodeExpired(now))
}

func TestPendingSignup_Apply(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(15 * time.Minute)
	p := &PendingSignup{FailedAttempts: 4}

	require.NoError(t, p.Apply(map[string]interface{}{
		FieldOTPCode:        "654321",
		FieldOTPExpiresAt:   now,
		FieldLastSentAt:     now,
		FieldFailedAttempts: 0,
		FieldLockedUntil:    &until,
		FieldExpiresAt:      int64(42),
	}))
	assert.Equal(t, "654321", p.OTPCode)
	assert.Equal(t, now, p.OTPExpiresAt)
	assert.Equal(t, now, p.LastSentAt)
	assert.Zero(t, p.FailedAttempts)
	assert.Equal(t, until, *p.LockedUntil)
	assert.Equal(t, int64(42), p.ExpiresAt)

	require.NoError(t, p.Apply(map[string]interface{}{FieldLockedUntil: nil}))
	assert.Nil(t, p.LockedUntil)
}

func TestPendingSignup_ApplyRejectsBadInput(t *testing.T) {
	p := &PendingSignup{}
	assert.Error(t, p.Apply(map[string]interface{}{"role": "admin"}))
	assert.Error(t, p.Apply(map[string]interface{}{FieldFailedAttempts: "3"}))
	assert.Error(t, p.Apply(map[string]interface{}{FieldExpiresAt: 42}))
}

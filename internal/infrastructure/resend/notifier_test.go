package resend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifier_RequiresConfig(t *testing.T) {
	_, err := NewNotifier("", "noreply@example.com")
	assert.Error(t, err)
	_, err = NewNotifier("re_123", "")
	assert.Error(t, err)

	n, err := NewNotifier("re_123", "noreply@example.com")
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestSendCode_InvalidCodeNotSent(t *testing.T) {
	n, err := NewNotifier("re_123", "noreply@example.com")
	require.NoError(t, err)
	assert.Error(t, n.SendCode(context.Background(), "Ann", "a@x.com", "abc"))
}

func TestRetryDelay_RateLimit(t *testing.T) {
	wait, ok := retryDelay(&resend.RateLimitError{RetryAfter: "2"}, 0)
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, wait)

	wait, ok = retryDelay(&resend.RateLimitError{RetryAfter: "120"}, 0)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, wait)

	wait, ok = retryDelay(&resend.RateLimitError{}, 1)
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, wait)
}

func TestRetryDelay_Transient(t *testing.T) {
	wait, ok := retryDelay(errors.New("i/o timeout"), 0)
	assert.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)
}

func TestRetryDelay_Permanent(t *testing.T) {
	_, ok := retryDelay(errors.New("invalid from address"), 0)
	assert.False(t, ok)
}

package pending

import (
	"errors"
	"testing"

	"github.com/quiz-signup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevealCredential_RoundTripsUnicode(t *testing.T) {
	for _, secret := range []string{"pw123456", "pässwörd-密码", ""} {
		got, err := RevealCredential(&domain.PendingSignup{CredentialSecret: encodeCredential(secret)})
		require.NoError(t, err)
		assert.Equal(t, secret, got)
	}
}

func TestRevealCredential_Malformed(t *testing.T) {
	_, err := RevealCredential(&domain.PendingSignup{CredentialSecret: "%%%not base64"})
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))

	_, err = RevealCredential(&domain.PendingSignup{CredentialSecret: "/w=="}) // 0xff
	assert.True(t, errors.As(err, &decodeErr))
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Ann@Example.COM":   "ann@example_com",
		"  a.b@x.io ":       "a_b@x_io",
		"we#ird$/[name]@x":  "we_ird___name_@x",
		"plain@localdomain": "plain@localdomain",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), in)
	}
}

func TestNewCode_SixDigitsFromReader(t *testing.T) {
	code, err := newCode(&digitReader{})
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestFreshCode_SkipsPrevious(t *testing.T) {
	r := &digitReader{next: 8} // first code would be 912345
	code, err := freshCode(r, "912345")
	require.NoError(t, err)
	assert.NotEqual(t, "912345", code)
	assert.Len(t, code, OTPLength)
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 0, ceilDiv(0, 1))
	assert.Equal(t, 0, ceilDiv(-5, 1))
	assert.Equal(t, 15, minutesUntil(newFakeClock().Now(), newFakeClock().Now().Add(LockoutDuration)))
}

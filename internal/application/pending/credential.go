package pending

import (
	"encoding/base64"
	"errors"
	"unicode/utf8"

	"github.com/quiz-signup/internal/domain"
)

// encodeCredential keeps the password recoverable until the account is created.
// This is an encoding, not a hash.
func encodeCredential(secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(secret))
}

// RevealCredential returns the plaintext password held by a pending signup.
func RevealCredential(p *domain.PendingSignup) (string, error) {
	b, err := base64.StdEncoding.DecodeString(p.CredentialSecret)
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	if !utf8.Valid(b) {
		return "", &DecodeError{Err: errors.New("credential is not valid UTF-8")}
	}
	return string(b), nil
}

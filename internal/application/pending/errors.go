package pending

import (
	"errors"
	"fmt"

	"github.com/quiz-signup/internal/domain"
)

var (
	// ErrNoPendingSignup is returned when no record exists for an email.
	ErrNoPendingSignup = fmt.Errorf("no pending verification found for this email: %w", domain.ErrNotFound)

	// ErrCodeExpired is returned when the current code's validity window has elapsed.
	ErrCodeExpired = errors.New("verification code expired, request a new one")
)

// LockedError reports a temporary lockout after repeated invalid codes.
type LockedError struct {
	MinutesRemaining int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("too many attempts, try again in %d minutes", e.MinutesRemaining)
}

// CooldownError reports a resend requested before the cooldown elapsed.
type CooldownError struct {
	SecondsRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %ds before requesting another code", e.SecondsRemaining)
}

// InvalidCodeError reports a wrong code while attempts remain.
type InvalidCodeError struct {
	AttemptsRemaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid verification code, %d attempts remaining", e.AttemptsRemaining)
}

// NotificationError means the record was written but the code could not be delivered.
// The caller can recover by offering a resend.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return "verification code could not be sent: " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error { return e.Err }

// DecodeError means a stored credential is malformed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode stored credential: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

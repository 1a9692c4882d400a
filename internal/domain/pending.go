package domain

import (
	"fmt"
	"time"
)

// Attribute names of a PendingSignup used in partial updates.
const (
	FieldOTPCode        = "otp_code"
	FieldOTPExpiresAt   = "otp_expires_at"
	FieldFailedAttempts = "failed_attempts"
	FieldLockedUntil    = "locked_until"
	FieldLastSentAt     = "last_sent_at"
	FieldExpiresAt      = "expires_at"
)

// PendingSignup is an unverified signup awaiting email confirmation.
// PK: pending_key (normalized email).
// ExpiresAt is a Unix timestamp used as the store TTL.
type PendingSignup struct {
	Key              string     `json:"pending_key" dynamodbav:"pending_key"`
	Name             string     `json:"name" dynamodbav:"name"`
	Email            string     `json:"email" dynamodbav:"email"`
	CredentialSecret string     `json:"credential_secret" dynamodbav:"credential_secret"`
	OTPCode          string     `json:"otp_code" dynamodbav:"otp_code"`
	OTPExpiresAt     time.Time  `json:"otp_expires_at" dynamodbav:"otp_expires_at"`
	FailedAttempts   int        `json:"failed_attempts" dynamodbav:"failed_attempts"`
	LockedUntil      *time.Time `json:"locked_until" dynamodbav:"locked_until"`
	LastSentAt       time.Time  `json:"last_sent_at" dynamodbav:"last_sent_at"`
	Version          int64      `json:"version" dynamodbav:"version"`
	ExpiresAt        int64      `json:"expires_at" dynamodbav:"expires_at"`
}

// IsLocked reports whether verification and resend are suspended at now.
func (p *PendingSignup) IsLocked(now time.Time) bool {
	return p.LockedUntil != nil && p.LockedUntil.After(now)
}

// IsCodeExpired reports whether the current code can no longer be used at now.
func (p *PendingSignup) IsCodeExpired(now time.Time) bool {
	return p.OTPCode == "" || !now.Before(p.OTPExpiresAt)
}

// Apply merges a partial update into p. Keys are the Field* constants.
func (p *PendingSignup) Apply(updates map[string]interface{}) error {
	for field, v := range updates {
		switch field {
		case FieldOTPCode:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("field %s: want string, got %T", field, v)
			}
			p.OTPCode = s
		case FieldOTPExpiresAt, FieldLastSentAt:
			t, ok := v.(time.Time)
			if !ok {
				return fmt.Errorf("field %s: want time.Time, got %T", field, v)
			}
			if field == FieldOTPExpiresAt {
				p.OTPExpiresAt = t
			} else {
				p.LastSentAt = t
			}
		case FieldFailedAttempts:
			n, ok := v.(int)
			if !ok {
				return fmt.Errorf("field %s: want int, got %T", field, v)
			}
			p.FailedAttempts = n
		case FieldLockedUntil:
			switch t := v.(type) {
			case nil:
				p.LockedUntil = nil
			case *time.Time:
				p.LockedUntil = t
			case time.Time:
				p.LockedUntil = &t
			default:
				return fmt.Errorf("field %s: want *time.Time, got %T", field, v)
			}
		case FieldExpiresAt:
			n, ok := v.(int64)
			if !ok {
				return fmt.Errorf("field %s: want int64, got %T", field, v)
			}
			p.ExpiresAt = n
		default:
			return fmt.Errorf("unknown pending signup field %q", field)
		}
	}
	return nil
}

// SignupRequest is the payload of a new signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// VerifyEmailRequest carries a submitted one-time code.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ResendCodeRequest asks for a fresh code for a pending signup.
type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

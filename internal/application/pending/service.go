package pending

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/quiz-signup/internal/domain"
)

// Store persists pending signups keyed by normalized email.
// Put and Update are conditional on the record's current Version: expectedVersion 0
// means the key must be absent. A mismatch returns domain.ErrConflict. Both store
// Version as expectedVersion+1; Put also sets it on p.
type Store interface {
	Get(ctx context.Context, key string) (*domain.PendingSignup, error)
	Put(ctx context.Context, p *domain.PendingSignup, expectedVersion int64) error
	Update(ctx context.Context, key string, expectedVersion int64, updates map[string]interface{}) error
	Delete(ctx context.Context, key string) error
}

// Notifier delivers a verification code to an address.
type Notifier interface {
	SendCode(ctx context.Context, name, email, code string) error
}

// Service owns the lifecycle of unverified signups.
type Service interface {
	Create(ctx context.Context, name, email, credentialSecret string) (*domain.PendingSignup, error)
	Resend(ctx context.Context, email string) (*domain.PendingSignup, error)
	Verify(ctx context.Context, email, code string) (*Outcome, error)
	Promote(ctx context.Context, email string) error
}

type ServiceDeps struct {
	Store    Store
	Notifier Notifier
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Random defaults to crypto/rand.Reader.
	Random io.Reader
}

type service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
	random   io.Reader
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		store:    deps.Store,
		notifier: deps.Notifier,
		now:      deps.Clock,
		random:   deps.Random,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.random == nil {
		s.random = rand.Reader
	}
	return s
}

// Create writes a fresh pending signup for email, replacing any unlocked record.
// When the code cannot be delivered the written record is returned together with a
// *NotificationError.
func (s *service) Create(ctx context.Context, name, email, credentialSecret string) (*domain.PendingSignup, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address: %w", domain.ErrBadRequest)
	}
	key := NormalizeKey(email)

	var p *domain.PendingSignup
	err := retryOnConflict(func() error {
		var expected int64
		var previousCode string
		existing, err := s.store.Get(ctx, key)
		switch {
		case err == nil:
			now := s.now()
			if existing.IsLocked(now) {
				return &LockedError{MinutesRemaining: minutesUntil(now, *existing.LockedUntil)}
			}
			expected = existing.Version
			previousCode = existing.OTPCode
		case errors.Is(err, domain.ErrNotFound):
		default:
			return err
		}

		code, err := freshCode(s.random, previousCode)
		if err != nil {
			return err
		}
		now := s.now()
		expiresAt := now.Add(OTPValidity)
		p = &domain.PendingSignup{
			Key:              key,
			Name:             name,
			Email:            email,
			CredentialSecret: encodeCredential(credentialSecret),
			OTPCode:          code,
			OTPExpiresAt:     expiresAt,
			FailedAttempts:   0,
			LockedUntil:      nil,
			LastSentAt:       now,
			ExpiresAt:        retainUntil(expiresAt, nil),
		}
		return s.store.Put(ctx, p, expected)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendCode(ctx, p.Name, p.Email, p.OTPCode); err != nil {
		slog.Warn("failed to send verification code", "email", p.Email, "err", err)
		return p, &NotificationError{Err: err}
	}
	return p, nil
}

// Resend issues a new code for an existing, unlocked record once the cooldown has passed.
// Attempt count and lock state are preserved.
func (s *service) Resend(ctx context.Context, email string) (*domain.PendingSignup, error) {
	key := NormalizeKey(email)

	var p *domain.PendingSignup
	err := retryOnConflict(func() error {
		var err error
		p, err = s.store.Get(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNoPendingSignup
		}
		if err != nil {
			return err
		}

		now := s.now()
		if p.IsLocked(now) {
			return &LockedError{MinutesRemaining: minutesUntil(now, *p.LockedUntil)}
		}
		if next := p.LastSentAt.Add(ResendCooldown); now.Before(next) {
			return &CooldownError{SecondsRemaining: secondsUntil(now, next)}
		}

		code, err := freshCode(s.random, p.OTPCode)
		if err != nil {
			return err
		}
		expiresAt := now.Add(OTPValidity)
		updates := map[string]interface{}{
			domain.FieldOTPCode:      code,
			domain.FieldOTPExpiresAt: expiresAt,
			domain.FieldLastSentAt:   now,
			domain.FieldExpiresAt:    retainUntil(expiresAt, p.LockedUntil),
		}
		if err := s.store.Update(ctx, key, p.Version, updates); err != nil {
			return err
		}
		p.Version++
		return p.Apply(updates)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendCode(ctx, p.Name, p.Email, p.OTPCode); err != nil {
		slog.Warn("failed to resend verification code", "email", p.Email, "err", err)
		return p, &NotificationError{Err: err}
	}
	return p, nil
}

// Verify checks code against the pending record for email. The returned error is
// reserved for store failures; rejections are reported through the Outcome.
// A verified outcome does not modify the record; call Promote once the account exists.
func (s *service) Verify(ctx context.Context, email, code string) (*Outcome, error) {
	key := NormalizeKey(email)

	var out *Outcome
	err := retryOnConflict(func() error {
		p, err := s.store.Get(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			out = &Outcome{Status: StatusNotFound}
			return nil
		}
		if err != nil {
			return err
		}

		now := s.now()
		if p.IsLocked(now) {
			out = &Outcome{Status: StatusLocked, MinutesRemaining: minutesUntil(now, *p.LockedUntil)}
			return nil
		}
		if p.IsCodeExpired(now) {
			out = &Outcome{Status: StatusExpired}
			return nil
		}
		if subtle.ConstantTimeCompare([]byte(code), []byte(p.OTPCode)) == 1 {
			out = &Outcome{Status: StatusVerified, Pending: p}
			return nil
		}

		attempts := p.FailedAttempts + 1
		updates := map[string]interface{}{domain.FieldFailedAttempts: attempts}
		if attempts >= MaxFailedAttempts {
			lockedUntil := now.Add(LockoutDuration)
			updates[domain.FieldFailedAttempts] = 0
			updates[domain.FieldLockedUntil] = &lockedUntil
			updates[domain.FieldExpiresAt] = retainUntil(p.OTPExpiresAt, &lockedUntil)
			out = &Outcome{Status: StatusLocked, MinutesRemaining: minutesUntil(now, lockedUntil)}
		} else {
			out = &Outcome{Status: StatusInvalid, AttemptsRemaining: MaxFailedAttempts - attempts}
		}
		return s.store.Update(ctx, key, p.Version, updates)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Promote discards the pending record once the verified account has been stored.
func (s *service) Promote(ctx context.Context, email string) error {
	return s.store.Delete(ctx, NormalizeKey(email))
}

// retryOnConflict reruns fn while the store reports a concurrent write.
func retryOnConflict(fn func() error) error {
	var err error
	for i := 0; i <= maxConflictRetries; i++ {
		if err = fn(); !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}

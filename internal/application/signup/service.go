package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quiz-signup/internal/application/pending"
	"github.com/quiz-signup/internal/domain"
	"github.com/quiz-signup/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Service is the account flow around email verification.
type Service interface {
	Register(ctx context.Context, req domain.SignupRequest) (*RegisterResult, error)
	ResendCode(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) (*Session, error)
	Login(ctx context.Context, req domain.LoginRequest) (*Session, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// RegisterResult describes a signup. When VerificationRequired is set the account
// does not exist yet and a code has been issued; otherwise Session holds the new account.
type RegisterResult struct {
	Email                string
	VerificationRequired bool
	Session              *Session
}

// Session is an authenticated account. Bearer is empty when no signer is configured.
type Session struct {
	Bearer string
	User   *domain.User
}

// UserStore persists verified accounts.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type jwtSigner interface {
	Sign(userID, email, role string) (string, error)
}

type service struct {
	users               UserStore
	pending             pending.Service
	jwtProvider         jwtSigner
	requireVerification bool
	now                 func() time.Time
}

type ServiceDeps struct {
	UserRepo    UserStore
	Pending     pending.Service
	JWTProvider jwtSigner
	// RequireEmailVerification false creates the account directly on Register.
	RequireEmailVerification bool
	Clock                    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		users:               deps.UserRepo,
		pending:             deps.Pending,
		jwtProvider:         deps.JWTProvider,
		requireVerification: deps.RequireEmailVerification,
		now:                 deps.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Register starts a signup. A failed code delivery is returned as *pending.NotificationError
// alongside a valid result; the pending record exists and the user can ask for a resend.
func (s *service) Register(ctx context.Context, req domain.SignupRequest) (*RegisterResult, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	if !s.requireVerification {
		u, err := s.createAccount(ctx, req.Name, email, req.Password, false)
		if err != nil {
			return nil, err
		}
		sess, err := s.session(u)
		if err != nil {
			return nil, err
		}
		return &RegisterResult{Email: email, Session: sess}, nil
	}

	p, err := s.pending.Create(ctx, strings.TrimSpace(req.Name), req.Email, req.Password)
	var notifErr *pending.NotificationError
	if err != nil && !errors.As(err, &notifErr) {
		return nil, err
	}
	return &RegisterResult{Email: p.Email, VerificationRequired: true}, err
}

func (s *service) ResendCode(ctx context.Context, email string) error {
	_, err := s.pending.Resend(ctx, email)
	return err
}

// VerifyEmail checks the code and, on success, creates the verified account and
// discards the pending record.
func (s *service) VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) (*Session, error) {
	out, err := s.pending.Verify(ctx, req.Email, req.Code)
	if err != nil {
		return nil, err
	}
	if !out.Verified() {
		return nil, out.Err()
	}

	password, err := pending.RevealCredential(out.Pending)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(out.Pending.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		// A previous verification created the account but never promoted.
		s.promote(ctx, req.Email)
		return nil, err
	}

	u, err := s.createAccount(ctx, out.Pending.Name, email, password, true)
	if err != nil {
		return nil, err
	}
	s.promote(ctx, req.Email)
	return s.session(u)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if s.requireVerification && !u.EmailVerified {
		return nil, fmt.Errorf("email not verified: %w", domain.ErrUnauthorized)
	}
	return s.session(u)
}

func (s *service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *service) createAccount(ctx context.Context, name, email, password string, verified bool) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:        id.NewAt(now),
		Name:          strings.TrimSpace(name),
		Email:         email,
		PasswordHash:  string(hash),
		Role:          domain.RoleUser,
		EmailVerified: verified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// promote is best-effort: the account already exists, and a leftover record expires on its own.
func (s *service) promote(ctx context.Context, email string) {
	if err := s.pending.Promote(ctx, email); err != nil {
		slog.Warn("failed to remove pending signup", "email", email, "err", err)
	}
}

func (s *service) session(u *domain.User) (*Session, error) {
	sess := &Session{User: u}
	if s.jwtProvider == nil {
		return sess, nil
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	sess.Bearer = bearer
	return sess, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

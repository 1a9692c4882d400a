package http

import (
	"github.com/quiz-signup/internal/application/pending"
	"github.com/quiz-signup/internal/application/signup"
	jwtinfra "github.com/quiz-signup/internal/infrastructure/jwt"
)

// UserRepository is the account store the signup flow requires.
type UserRepository = signup.UserStore

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     UserRepository
	PendingStore pending.Store
	Notifier     pending.Notifier
	// JWTProvider is optional; without it tokens are not issued and /users/me is disabled.
	JWTProvider *jwtinfra.Provider
}

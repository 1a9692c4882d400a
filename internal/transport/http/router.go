package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quiz-signup/internal/application/pending"
	"github.com/quiz-signup/internal/application/signup"
	"github.com/quiz-signup/internal/config"
	"github.com/quiz-signup/internal/transport/http/handler"
	appmiddleware "github.com/quiz-signup/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background work
// such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustedProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Applied to signup, verification, and login.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	pendingSvc := pending.NewService(pending.ServiceDeps{
		Store:    deps.PendingStore,
		Notifier: deps.Notifier,
	})
	signupDeps := signup.ServiceDeps{
		UserRepo:                 deps.UserRepo,
		Pending:                  pendingSvc,
		RequireEmailVerification: cfg.RequireEmailVerification,
	}
	if deps.JWTProvider != nil {
		signupDeps.JWTProvider = deps.JWTProvider
	}
	signupSvc := signup.NewService(signupDeps)

	healthH := handler.NewHealthHandler()
	signupH := handler.NewSignupHandler(signupSvc)
	sessionH := handler.NewSessionHandler(signupSvc)
	userH := handler.NewUserHandler(signupSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/signup", signupH.Register)
		r.With(sensitiveRL.Limit).Post("/email-verification/{action}", signupH.EmailVerification)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)

		// ── Authenticated routes ─────────────────────────────────────────────
		if deps.JWTProvider != nil {
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.Auth(deps.JWTProvider))
				r.Get("/users/me", userH.Me)
			})
		}
	})

	return r
}

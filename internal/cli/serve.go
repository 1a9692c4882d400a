package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/quiz-signup/internal/config"
	jwtinfra "github.com/quiz-signup/internal/infrastructure/jwt"
	transporthttp "github.com/quiz-signup/internal/transport/http"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the subcommand that runs the HTTP API.
func NewServeCmd(port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *port)
		},
	}
	cmd.Flags().StringVar(port, "port", "", "port to listen on (overrides APP_PORT)")
	return cmd
}

func runServer(parent context.Context, portFlag string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if portFlag != "" {
		cfg.AppPort = portFlag
	}

	b, err := newBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	deps := &transporthttp.Deps{
		UserRepo:     b.users,
		PendingStore: b.pending,
		Notifier:     b.notifier,
	}
	// JWT provider is optional; without keys accounts are created but no bearer is issued.
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		deps.JWTProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on :%s (env=%s, pending=%s, accounts=%s, notifier=%s)",
			cfg.AppPort, cfg.AppEnv, cfg.PendingStore, cfg.AccountStore, cfg.Notifier)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

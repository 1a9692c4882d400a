package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes verification codes to the log instead of sending them.
// Intended for local development.
type LogNotifier struct{}

func (LogNotifier) SendCode(_ context.Context, name, email, code string) error {
	if _, err := VerificationMessage(name, code); err != nil {
		return err
	}
	slog.Info("verification code issued", "email", email, "code", code)
	return nil
}

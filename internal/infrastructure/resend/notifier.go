package resend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/quiz-signup/internal/infrastructure/notify"
	"github.com/resend/resend-go/v2"
)

const maxSendAttempts = 3

// Notifier delivers verification codes through the Resend REST API.
type Notifier struct {
	from   string
	client *resend.Client
}

func NewNotifier(apiKey, from string) (*Notifier, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}
	if from == "" {
		return nil, errors.New("email from is required")
	}
	return &Notifier{from: from, client: resend.NewClient(apiKey)}, nil
}

// SendCode sends the verification email, retrying rate-limited and transient failures.
// The idempotency key ties retries of the same code together.
func (n *Notifier) SendCode(ctx context.Context, name, email, code string) error {
	msg, err := notify.VerificationMessage(name, code)
	if err != nil {
		return err
	}
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{email},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
	options := &resend.SendEmailOptions{IdempotencyKey: "verify/" + strings.ToLower(email) + "/" + code}

	var lastErr error
	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		_, err := n.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		wait, ok := retryDelay(err, attempt)
		if !ok {
			return fmt.Errorf("resend send failed: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

// retryDelay reports whether err is worth retrying and how long to wait first.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}
	return 0, false
}

package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/quiz-signup/internal/config"
	"github.com/quiz-signup/internal/infrastructure/notify"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.EmailFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// CodeNotifier delivers verification codes through a Mailer.
type CodeNotifier struct {
	mailer Mailer
}

func NewCodeNotifier(m Mailer) *CodeNotifier {
	return &CodeNotifier{mailer: m}
}

// SendCode renders the verification email and sends it. net/smtp has no context
// support, so ctx is only checked before dialing.
func (n *CodeNotifier) SendCode(ctx context.Context, name, email, code string) error {
	msg, err := notify.VerificationMessage(name, code)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.mailer.SendEmail(email, msg.Subject, msg.Text); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

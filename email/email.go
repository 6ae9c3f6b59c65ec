// Package email wraps SMTP delivery behind a small Sender interface so
// endpoints and the reminder scheduler can be tested without a mail server.
package email

import (
	"fmt"

	"github.com/Paul-trunc/DentalAppointments/config"
	"gopkg.in/gomail.v2"
)

// Sender delivers a plain-text message. Delivery is fire-and-forget from the
// caller's perspective; failures are logged, never retried.
type Sender interface {
	Send(to, subject, text string) error
}

// SMTPSender sends mail through the configured SMTP server.
type SMTPSender struct {
	cfg    *config.Config
	dialer *gomail.Dialer
}

// NewSMTPSender builds an SMTPSender from the application config. It errors
// when SMTP credentials are not configured so the caller can fall back to
// running without email.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		return nil, fmt.Errorf("SMTP credentials not configured")
	}

	dialer := gomail.NewDialer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUsername,
		cfg.SMTPPassword,
	)

	return &SMTPSender{cfg: cfg, dialer: dialer}, nil
}

// Send delivers a plain-text email.
func (s *SMTPSender) Send(to, subject, text string) error {
	m := gomail.NewMessage()
	from := s.cfg.SMTPFrom
	if from == "" {
		from = s.cfg.SMTPUsername
	}
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

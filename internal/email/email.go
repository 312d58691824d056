// Package email delivers transactional mail for the application.
package email

import (
	"context"

	"coursehub_backend/platform/config"
)

// Sender delivers the application's transactional emails.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendEnrollmentConfirmation(ctx context.Context, toEmail, name, courseTitle string) error
	SendContactNotification(ctx context.Context, toEmail, fromName, fromEmail, phone, message string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	return nil
}

func (NoopSender) SendEnrollmentConfirmation(ctx context.Context, toEmail, name, courseTitle string) error {
	return nil
}

func (NoopSender) SendContactNotification(ctx context.Context, toEmail, fromName, fromEmail, phone, message string) error {
	return nil
}

// NewSender returns an SMTP-backed sender, or a NoopSender when email
// delivery is disabled in config.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// Package notify holds the provider-agnostic email side of the notification
// dispatcher. Provider choice is a configuration concern: a SendGrid API key
// selects the real provider, otherwise emails are logged only.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Mailer sends one templated HTML email.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error
}

// LogMailer writes would-be emails to the log. Used in development and when
// no provider credentials are configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds the log-only mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the email instead of delivering it.
func (m *LogMailer) Send(_ context.Context, toEmail, toName, subject, _ string) error {
	m.logger.Info("email (log only)",
		zap.String("to", toEmail),
		zap.String("to_name", toName),
		zap.String("subject", subject),
	)
	return nil
}

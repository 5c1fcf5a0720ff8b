// Package notification provides outbound email and SMS delivery.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/infrastructure/config"
)

// EmailSender delivers a single email message.
type EmailSender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

var _ EmailSender = (*SMTPEmailSender)(nil)

// SMTPEmailSender sends mail over SMTP using go-mail.
type SMTPEmailSender struct {
	cfg    *config.EmailConfig
	logger *zap.Logger
}

// NewSMTPEmailSender creates an SMTPEmailSender from configuration.
func NewSMTPEmailSender(cfg *config.EmailConfig, logger *zap.Logger) (*SMTPEmailSender, error) {
	if cfg == nil {
		return nil, errors.New("email configuration is required")
	}
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("sender address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPEmailSender{cfg: cfg, logger: logger}, nil
}

// Send delivers one message. A fresh SMTP connection is dialed per
// message; outbound volume here is a handful of transactional emails.
func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// NoopEmailSender drops messages. Used when email is disabled so the
// rest of the application does not need nil checks.
type NoopEmailSender struct {
	logger *zap.Logger
}

// NewNoopEmailSender creates a NoopEmailSender.
func NewNoopEmailSender(logger *zap.Logger) *NoopEmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopEmailSender{logger: logger}
}

// Send logs and discards the message.
func (s *NoopEmailSender) Send(_ context.Context, to, subject, _, _ string) error {
	s.logger.Info("Email delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

var _ EmailSender = (*NoopEmailSender)(nil)

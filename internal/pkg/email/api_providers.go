// internal/pkg/email/api_providers.go
package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridSender sends email through the SendGrid v3 API
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender creates a SendGrid sender
func NewSendGridSender(cfg config.EmailConfig) (*SendGridSender, error) {
	return newSendGridSender(cfg, "")
}

// newSendGridSender points the client at host; empty means the public API
func newSendGridSender(cfg config.EmailConfig, host string) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("SendGrid API key not configured")
	}

	request := sendgrid.GetRequest(cfg.APIKey, sendGridEndpoint, host)
	request.Method = http.MethodPost

	return &SendGridSender{
		client:    &sendgrid.Client{Request: request},
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}, nil
}

// Send delivers an HTML message through SendGrid
func (s *SendGridSender) Send(ctx context.Context, to, subject, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), "", html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send SendGrid request: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SendGrid API returned status %d", resp.StatusCode)
	}

	return nil
}

// LogSender writes emails to the log instead of delivering them
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a log-only sender for development
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message
func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"bytes":   len(html),
	}).Info("Email (log provider)")
	s.logger.Debug(html)
	return nil
}

// NewSender picks the provider named in the email config
func NewSender(cfg *config.Config, logger *logrus.Logger) (Sender, error) {
	switch cfg.External.Email.Provider {
	case "smtp":
		return NewSMTPSender(cfg.External.Email)
	case "sendgrid":
		return NewSendGridSender(cfg.External.Email)
	case "log", "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.External.Email.Provider)
	}
}

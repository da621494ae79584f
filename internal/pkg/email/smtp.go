// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/your-org/storefront/internal/config"
)

// SMTPSender sends email through an SMTP relay
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg config.EmailConfig) (*SMTPSender, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" {
		return nil, fmt.Errorf("SMTP configuration incomplete: missing host or username")
	}
	return &SMTPSender{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		send:      smtp.SendMail,
	}, nil
}

// Send delivers an HTML message over SMTP
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	serverAddr := fmt.Sprintf("%s:%d", s.host, s.port)

	if err := s.send(serverAddr, auth, s.fromEmail, []string{to}, s.buildMessage(to, subject, html)); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(to, subject, html string) []byte {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	// Header order is fixed so messages are reproducible
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	return msg.Bytes()
}

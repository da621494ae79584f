// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/your-org/storefront/internal/config"
)

// EmailService renders and sends the storefront emails
type EmailService struct {
	sender    Sender
	siteName  string
	siteURL   string
	templates map[EmailType]*template.Template
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, sender Sender) *EmailService {
	return &EmailService{
		sender:   sender,
		siteName: cfg.External.Email.FromName,
		siteURL:  cfg.App.BaseURL,
		templates: map[EmailType]*template.Template{
			EmailTypeWelcome:           template.Must(template.New("welcome").Parse(welcomeTemplate)),
			EmailTypePasswordReset:     template.Must(template.New("password_reset").Parse(passwordResetTemplate)),
			EmailTypeOrderConfirmation: template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
		},
	}
}

// ResetURL builds the link a user follows to choose a new password
func (s *EmailService) ResetURL(token string) string {
	return fmt.Sprintf("%s/reset/%s", s.siteURL, token)
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailService) SendWelcomeEmail(ctx context.Context, userEmail string) error {
	data := WelcomeEmailData{
		EmailTemplateData: GetBaseTemplateData(s.siteName, s.siteURL, userEmail),
		ShopURL:           s.siteURL + "/products",
	}

	htmlContent, err := s.renderTemplate(EmailTypeWelcome, data)
	if err != nil {
		return fmt.Errorf("failed to render welcome email template: %w", err)
	}

	return s.sender.Send(ctx, userEmail, "Signup succeeded!", htmlContent)
}

// SendPasswordResetEmail mails the reset link for token
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, userEmail, token string) error {
	data := PasswordResetData{
		EmailTemplateData: GetBaseTemplateData(s.siteName, s.siteURL, userEmail),
		ResetURL:          s.ResetURL(token),
		ExpiresIn:         "1 hour",
	}

	htmlContent, err := s.renderTemplate(EmailTypePasswordReset, data)
	if err != nil {
		return fmt.Errorf("failed to render password reset template: %w", err)
	}

	return s.sender.Send(ctx, userEmail, "Password reset", htmlContent)
}

// SendOrderConfirmationEmail confirms a placed order
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, userEmail string, data OrderConfirmationData) error {
	data.EmailTemplateData = GetBaseTemplateData(s.siteName, s.siteURL, userEmail)
	if data.InvoiceURL == "" {
		data.InvoiceURL = fmt.Sprintf("%s/orders/%s", s.siteURL, data.OrderID)
	}

	htmlContent, err := s.renderTemplate(EmailTypeOrderConfirmation, data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.sender.Send(ctx, userEmail, fmt.Sprintf("Order Confirmation - %s", data.OrderID), htmlContent)
}

func (s *EmailService) renderTemplate(name EmailType, data interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h1>Welcome to {{.SiteName}}!</h1>
    <p>You successfully signed up as {{.UserEmail}}.</p>
    <p><a href="{{.ShopURL}}">Start shopping</a></p>
    <p style="font-size: 12px; color: #888;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <p>You requested a password reset.</p>
    <p>Click this <a href="{{.ResetURL}}">link</a> to set a new password.</p>
    <p>The link expires in {{.ExpiresIn}}. If you did not ask for this, ignore this email.</p>
    <p style="font-size: 12px; color: #888;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h1>Thanks for your order!</h1>
    <p>Order #{{.OrderID}}</p>
    <ul>
    {{- range .Items}}
        <li>{{.Title}} - {{.Quantity}} x {{.Price}}</li>
    {{- end}}
    </ul>
    <p><strong>Total: {{.OrderTotal}}</strong></p>
    <p><a href="{{.InvoiceURL}}">Download your invoice</a></p>
    <p style="font-size: 12px; color: #888;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`

// internal/pkg/email/types.go
package email

import (
	"context"
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeWelcome           EmailType = "welcome"
	EmailTypePasswordReset     EmailType = "password_reset"
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
)

// Sender delivers a single HTML email
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName  string
	SiteURL   string
	UserEmail string
	Year      int
}

// WelcomeEmailData contains data for welcome email
type WelcomeEmailData struct {
	EmailTemplateData
	ShopURL string
}

// PasswordResetData contains data for password reset email
type PasswordResetData struct {
	EmailTemplateData
	ResetURL  string
	ExpiresIn string
}

// OrderConfirmationData contains data for order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderID    string
	OrderTotal string
	InvoiceURL string
	Items      []OrderItem
}

// OrderItem represents an item in order emails
type OrderItem struct {
	Title    string
	Quantity int
	Price    string
}

// GetBaseTemplateData returns the fields every template shares
func GetBaseTemplateData(siteName, siteURL, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:  siteName,
		SiteURL:   siteURL,
		UserEmail: userEmail,
		Year:      time.Now().Year(),
	}
}

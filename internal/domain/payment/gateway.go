// internal/domain/payment/gateway.go
package payment

import "context"

// LineItem is a product line sent to the payment provider
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64 // cents
	Quantity    int64
}

// Session is a hosted checkout session created at the provider
type Session struct {
	ID  string
	URL string
}

// SessionStatus is the provider's view of a checkout session
type SessionStatus struct {
	ID          string
	Paid        bool
	AmountTotal int64
	Currency    string
}

// Gateway creates and verifies checkout sessions
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, items []LineItem, successURL, cancelURL string) (*Session, error)
	VerifyCheckoutSession(ctx context.Context, sessionID string) (*SessionStatus, error)
	Name() string
}

// Total returns Σ unit amount × quantity
func Total(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitAmount * it.Quantity
	}
	return total
}

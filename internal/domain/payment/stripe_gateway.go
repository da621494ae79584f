// internal/domain/payment/stripe_gateway.go
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/your-org/storefront/internal/config"
)

// StripeGateway implements Gateway using Stripe Checkout. Calls go through a
// circuit breaker so a failing provider is not hammered on every request.
type StripeGateway struct {
	currency string
	logger   *logrus.Logger
	breaker  *gobreaker.CircuitBreaker[*stripe.CheckoutSession]

	newSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getSession func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(cfg *config.Config, logger *logrus.Logger) (*StripeGateway, error) {
	if cfg.External.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	// Set Stripe API key globally
	stripe.Key = cfg.External.Stripe.SecretKey

	return newStripeGateway(cfg.External.Stripe.Currency, logger, checkoutsession.New, checkoutsession.Get), nil
}

func newStripeGateway(
	currency string,
	logger *logrus.Logger,
	newSession func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error),
	getSession func(string, *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error),
) *StripeGateway {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	settings := gobreaker.Settings{
		Name:        "stripe-checkout",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Payment circuit breaker changed state")
		},
	}

	return &StripeGateway{
		currency:   currency,
		logger:     logger,
		breaker:    gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](settings),
		newSession: newSession,
		getSession: getSession,
	}
}

// CreateCheckoutSession opens a hosted card payment for items
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, items []LineItem, successURL, cancelURL string) (*Session, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one line item is required")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
	params.Context = ctx

	for _, it := range items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.currency),
				UnitAmount: stripe.Int64(it.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(it.Name),
					Description: stripe.String(it.Description),
				},
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	s, err := g.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return g.newSession(params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"amount":     Total(items),
	}).Info("Stripe checkout session created")

	return &Session{ID: s.ID, URL: s.URL}, nil
}

// VerifyCheckoutSession fetches the payment state of a session
func (g *StripeGateway) VerifyCheckoutSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return g.getSession(sessionID, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return &SessionStatus{
		ID:          s.ID,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
	}, nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}

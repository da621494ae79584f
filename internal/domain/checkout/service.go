// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/payment"
	"github.com/your-org/storefront/internal/pkg/apperror"
)

// PendingTTL is how long a started checkout can be completed
const PendingTTL = 24 * time.Hour

var (
	ErrUnknownSession = apperror.NotFound("checkout session not found")
	ErrNotPaid        = apperror.Upstream("payment was not completed", nil)
	ErrAmountMismatch = apperror.Upstream("paid amount does not match the cart total", nil)
)

// Pending is a checkout session that was started but not completed
type Pending struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Total     int64  `json:"total"`
}

// PendingStore remembers started checkouts until they complete
type PendingStore interface {
	Save(ctx context.Context, p Pending, ttl time.Duration) error
	// Load returns ErrUnknownSession when nothing is stored for sessionID
	Load(ctx context.Context, sessionID string) (*Pending, error)
	// Take atomically removes and returns the pending checkout. Of two
	// concurrent calls only one succeeds; the other gets ErrUnknownSession.
	Take(ctx context.Context, sessionID string) (*Pending, error)
}

// OrderPlacer converts a resolved cart into an order
type OrderPlacer interface {
	PlaceFrom(ctx context.Context, userID string, view *cart.View) (*order.Order, error)
}

// CartReader resolves the current cart
type CartReader interface {
	Get(ctx context.Context, userID string) (*cart.View, error)
}

// URLs are the provider redirect targets
type URLs struct {
	SuccessURL string
	CancelURL  string
}

// Summary is what the checkout page renders
type Summary struct {
	Lines          []cart.Line
	TotalSum       int64
	SessionID      string
	SessionURL     string
	PublishableKey string
}

// Service handles checkout business logic
type Service struct {
	carts          CartReader
	orders         OrderPlacer
	gateway        payment.Gateway
	pending        PendingStore
	publishableKey string
	logger         *logrus.Logger
}

// NewService creates a new checkout service
func NewService(carts CartReader, orders OrderPlacer, gateway payment.Gateway, pending PendingStore, publishableKey string, logger *logrus.Logger) *Service {
	return &Service{
		carts:          carts,
		orders:         orders,
		gateway:        gateway,
		pending:        pending,
		publishableKey: publishableKey,
		logger:         logger,
	}
}

// Begin opens a payment session for the current cart. An empty cart fails
// before the payment provider is contacted.
func (s *Service) Begin(ctx context.Context, userID string, urls URLs) (*Summary, error) {
	view, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if view.IsEmpty() {
		return nil, order.ErrEmptyCart
	}

	items := LineItems(view)
	total := view.Total()

	session, err := s.gateway.CreateCheckoutSession(ctx, items, urls.SuccessURL, urls.CancelURL)
	if err != nil {
		return nil, apperror.Upstream("payment provider unavailable", err)
	}

	if err := s.pending.Save(ctx, Pending{SessionID: session.ID, UserID: userID, Total: total}, PendingTTL); err != nil {
		return nil, fmt.Errorf("failed to remember checkout session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": session.ID,
		"gateway":    s.gateway.Name(),
		"total":      total,
	}).Info("Checkout started")

	return &Summary{
		Lines:          view.Lines,
		TotalSum:       total,
		SessionID:      session.ID,
		SessionURL:     session.URL,
		PublishableKey: s.publishableKey,
	}, nil
}

// Complete places the order for a paid session. The session must belong to
// userID, be paid, and the paid amount must equal the current cart total.
// The order is built from the same cart view the amount was checked
// against, and the session is consumed before the order is placed so it
// can complete at most once.
func (s *Service) Complete(ctx context.Context, userID, sessionID string) (*order.Order, error) {
	if sessionID == "" {
		return nil, ErrUnknownSession
	}

	p, err := s.pending.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrUnknownSession) {
			return nil, ErrUnknownSession
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}
	if p.UserID != userID {
		return nil, apperror.Unauthorized("checkout session belongs to another user")
	}

	status, err := s.gateway.VerifyCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, apperror.Upstream("payment provider unavailable", err)
	}
	if !status.Paid {
		return nil, ErrNotPaid
	}

	view, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if view.IsEmpty() {
		return nil, order.ErrEmptyCart
	}
	if view.Total() != status.AmountTotal {
		s.logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": sessionID,
			"paid":       status.AmountTotal,
			"cart_total": view.Total(),
		}).Error("Checkout amount mismatch")
		return nil, ErrAmountMismatch
	}

	if _, err := s.pending.Take(ctx, sessionID); err != nil {
		if errors.Is(err, ErrUnknownSession) {
			return nil, ErrUnknownSession
		}
		return nil, fmt.Errorf("failed to consume checkout session: %w", err)
	}

	o, err := s.orders.PlaceFrom(ctx, userID, view)
	if err != nil {
		// put the session back so the paid checkout can be completed again
		if serr := s.pending.Save(ctx, *p, PendingTTL); serr != nil {
			s.logger.WithError(serr).WithField("session_id", sessionID).Error("Failed to restore checkout session")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": sessionID,
		"order_id":   o.ID,
	}).Info("Checkout completed")

	return o, nil
}

// LineItems maps resolved cart lines onto provider line items
func LineItems(view *cart.View) []payment.LineItem {
	items := make([]payment.LineItem, 0, len(view.Lines))
	for _, l := range view.Lines {
		items = append(items, payment.LineItem{
			Name:        l.Product.Title,
			Description: l.Product.Description,
			UnitAmount:  l.Product.Price,
			Quantity:    int64(l.Quantity),
		})
	}
	return items
}

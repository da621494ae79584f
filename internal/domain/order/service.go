// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/user"
)

// CartManager is the part of the cart service order placement needs
type CartManager interface {
	Get(ctx context.Context, userID string) (*cart.View, error)
	ClearOrdered(ctx context.Context, userID string, view *cart.View) error
}

// UserFinder loads the customer placing an order
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Service handles order business logic
type Service struct {
	orders Repository
	carts  CartManager
	users  UserFinder
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new order service
func NewService(orders Repository, carts CartManager, users UserFinder, logger *logrus.Logger) *Service {
	return &Service{
		orders: orders,
		carts:  carts,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Place converts the user's current cart into an order
func (s *Service) Place(ctx context.Context, userID string) (*Order, error) {
	view, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.PlaceFrom(ctx, userID, view)
}

// PlaceFrom converts exactly the lines of view into an order. The cart is
// not read again: product fields are copied from view, the order is
// persisted and only then are the ordered items taken out of the cart.
// A failure to clear the cart after persistence is logged and the order is
// still returned.
func (s *Service) PlaceFrom(ctx context.Context, userID string, view *cart.View) (*Order, error) {
	if view == nil || view.IsEmpty() {
		return nil, ErrEmptyCart
	}

	customer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	o := &Order{
		ID:       uuid.NewString(),
		Products: Snapshot(view),
		User: Customer{
			Email:  customer.Email,
			UserID: customer.ID,
		},
		CreatedAt: s.now().UTC(),
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.carts.ClearOrdered(ctx, userID, view); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": o.ID,
			"user_id":  userID,
		}).Warn("Order placed but cart could not be cleared")
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  userID,
		"total":    o.Total(),
	}).Info("Order placed")

	return o, nil
}

// Snapshot copies the resolved cart lines into order line items
func Snapshot(view *cart.View) []LineItem {
	items := make([]LineItem, 0, len(view.Lines))
	for _, l := range view.Lines {
		items = append(items, LineItem{
			Product: ProductSnapshot{
				Title:       l.Product.Title,
				Price:       l.Product.Price,
				Description: l.Product.Description,
				ImageURL:    l.Product.ImageURL,
			},
			Quantity: l.Quantity,
		})
	}
	return items
}

// ListForUser returns the user's orders, newest first
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetForUser returns an order only to the user who placed it
func (s *Service) GetForUser(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !o.PlacedBy(userID) {
		return nil, ErrNotOwner
	}
	return o, nil
}

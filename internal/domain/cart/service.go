// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// maxSaveAttempts bounds the reload-and-retry loop on version conflicts
const maxSaveAttempts = 3

// Service handles cart business logic
type Service struct {
	store    Store
	products ProductFinder
	logger   *logrus.Logger
}

// NewService creates a new cart service
func NewService(store Store, products ProductFinder, logger *logrus.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		logger:   logger,
	}
}

// Add puts one unit of productID into the user's cart
func (s *Service) Add(ctx context.Context, userID, productID string) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	return s.mutate(ctx, userID, func(c Cart) Cart {
		return c.Add(productID)
	})
}

// Remove drops every line for productID. Removing an absent product is a no-op.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	return s.mutate(ctx, userID, func(c Cart) Cart {
		return c.Remove(productID)
	})
}

// Clear empties the user's cart
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(c Cart) Cart {
		return c.Clear()
	})
}

// ClearOrdered takes the contents of view out of the cart. If the cart is
// still at view.Version it is emptied with one conditional save; otherwise
// only the quantities in view are removed, so later additions survive.
func (s *Service) ClearOrdered(ctx context.Context, userID string, view *View) error {
	err := s.store.SaveCart(ctx, userID, view.Version, Cart{Items: []Item{}})
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrVersionConflict) {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"version": view.Version,
	}).Debug("Cart changed since it was ordered, removing ordered items only")

	ordered := view.Items()
	return s.mutate(ctx, userID, func(c Cart) Cart {
		return c.Subtract(ordered)
	})
}

// Get resolves the cart against the catalog. Lines whose product no longer
// exists are left out.
func (s *Service) Get(ctx context.Context, userID string) (*View, error) {
	c, err := s.store.LoadCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &View{UserID: userID, Lines: []Line{}, Version: c.Version}
	if c.IsEmpty() {
		return view, nil
	}

	products, err := s.products.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	byID := make(map[string]int, len(products))
	for i := range products {
		byID[products[i].ID] = i
	}

	for _, it := range c.Items {
		idx, ok := byID[it.ProductID]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": it.ProductID,
			}).Debug("Skipping cart item for missing product")
			continue
		}
		view.Lines = append(view.Lines, Line{Product: products[idx], Quantity: it.Quantity})
	}

	return view, nil
}

func (s *Service) mutate(ctx context.Context, userID string, change func(Cart) Cart) error {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		current, err := s.store.LoadCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}

		err = s.store.SaveCart(ctx, userID, current.Version, change(current))
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return fmt.Errorf("failed to save cart: %w", err)
		}

		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"attempt": attempt,
		}).Debug("Cart version conflict, retrying")
	}

	return ErrVersionConflict
}

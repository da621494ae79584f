// internal/infrastructure/database/postgres/order_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront/internal/domain/order"
	"gorm.io/gorm"
)

// OrderRepository implements order.Repository on PostgreSQL
type OrderRepository struct {
	db *gorm.DB
}

var _ order.Repository = (*OrderRepository)(nil)

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	if !validID(id) {
		return nil, order.ErrNotFound
	}
	var o order.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	orders := []order.Order{}
	if !validID(userID) {
		return orders, nil
	}
	if err := r.db.WithContext(ctx).
		Where("customer_user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

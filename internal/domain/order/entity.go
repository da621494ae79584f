// internal/domain/order/entity.go
package order

import (
	"context"
	"time"

	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/money"
)

var (
	ErrNotFound  = apperror.NotFound("order not found")
	ErrEmptyCart = apperror.Validation("Your cart is empty.")
	ErrNotOwner  = apperror.Unauthorized("order belongs to another user")
)

// ProductSnapshot copies the product fields at the moment of purchase
type ProductSnapshot struct {
	Title       string `json:"title" bson:"title"`
	Price       int64  `json:"price" bson:"price"`
	Description string `json:"description" bson:"description"`
	ImageURL    string `json:"imageUrl" bson:"imageUrl"`
}

// LineItem is one purchased product
type LineItem struct {
	Product  ProductSnapshot `json:"product" bson:"product"`
	Quantity int             `json:"quantity" bson:"quantity"`
}

// Subtotal returns quantity times snapshot price
func (li LineItem) Subtotal() int64 {
	return int64(li.Quantity) * li.Product.Price
}

// Customer identifies who placed the order
type Customer struct {
	Email  string `gorm:"size:255;not null" json:"email" bson:"email"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId" bson:"userId"`
}

// Order is immutable once persisted
type Order struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id" bson:"_id"`
	Products  []LineItem `gorm:"type:jsonb;serializer:json;not null" json:"products" bson:"products"`
	User      Customer   `gorm:"embedded;embeddedPrefix:customer_" json:"user" bson:"user"`
	CreatedAt time.Time  `gorm:"index" json:"created_at" bson:"createdAt"`
}

// TableName overrides the table name for Order
func (Order) TableName() string {
	return "orders"
}

// Total returns the sum of quantity times snapshot price
func (o *Order) Total() int64 {
	var total int64
	for _, li := range o.Products {
		total += li.Subtotal()
	}
	return total
}

// DisplayTotal returns the formatted order total
func (o *Order) DisplayTotal() string {
	return money.Format(o.Total())
}

// PlacedBy reports whether userID owns the order
func (o *Order) PlacedBy(userID string) bool {
	return o.User.UserID != "" && o.User.UserID == userID
}

// Repository persists orders. Orders are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

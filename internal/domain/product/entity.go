// internal/domain/product/entity.go
package product

import (
	"context"
	"time"

	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/money"
)

// ErrNotFound is returned when a product id does not resolve
var ErrNotFound = apperror.NotFound("product not found")

// Product represents the product entity
type Product struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id" bson:"_id"`
	Title       string    `gorm:"not null;size:255" json:"title" bson:"title"`
	Price       int64     `gorm:"not null" json:"price" bson:"price"` // Price in cents
	Description string    `gorm:"type:text;not null" json:"description" bson:"description"`
	ImageURL    string    `gorm:"size:500;not null" json:"image_url" bson:"imageUrl"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id" bson:"userId"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updatedAt"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// DisplayPrice returns the formatted price
func (p *Product) DisplayPrice() string {
	return money.Format(p.Price)
}

// PriceDecimal returns the price as a form value
func (p *Product) PriceDecimal() string {
	return money.Decimal(p.Price)
}

// OwnedBy reports whether userID created the product
func (p *Product) OwnedBy(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}

// Repository persists products
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context, offset, limit int) ([]Product, int64, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Product, int64, error)
}

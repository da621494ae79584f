// internal/infrastructure/database/postgres/product_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront/internal/domain/product"
	"gorm.io/gorm"
)

// ProductRepository implements product.Repository on PostgreSQL
type ProductRepository struct {
	db *gorm.DB
}

var _ product.Repository = (*ProductRepository)(nil)

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	result := r.db.WithContext(ctx).Model(&product.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"title":       p.Title,
			"price":       p.Price,
			"description": p.Description,
			"image_url":   p.ImageURL,
			"updated_at":  p.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return product.ErrNotFound
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&product.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	if !validID(id) {
		return nil, product.ErrNotFound
	}
	var p product.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []product.Product{}, nil
	}

	var products []product.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", valid).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]product.Product, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&product.Product{}), offset, limit)
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]product.Product, int64, error) {
	if !validID(userID) {
		return []product.Product{}, 0, nil
	}
	return r.page(r.db.WithContext(ctx).Model(&product.Product{}).Where("user_id = ?", userID), offset, limit)
}

func (r *ProductRepository) page(query *gorm.DB, offset, limit int) ([]product.Product, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []product.Product{}
	if err := query.Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

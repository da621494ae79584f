// internal/infrastructure/database/mongodb/product_repository.go
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront/internal/domain/product"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository implements product.Repository on MongoDB
type ProductRepository struct {
	collection *mongo.Collection
}

var _ product.Repository = (*ProductRepository)(nil)

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{collection: db.Database().Collection(productsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{
			"title":       p.Title,
			"price":       p.Price,
			"description": p.Description,
			"imageUrl":    p.ImageURL,
			"updatedAt":   p.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]product.Product, int64, error) {
	return r.page(ctx, bson.M{}, offset, limit)
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]product.Product, int64, error) {
	return r.page(ctx, bson.M{"userId": userID}, offset, limit)
}

func (r *ProductRepository) page(ctx context.Context, filter bson.M, offset, limit int) ([]product.Product, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	products, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]product.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []product.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// internal/infrastructure/database/mongodb/order_repository.go
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront/internal/domain/order"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository implements order.Repository on MongoDB
type OrderRepository struct {
	collection *mongo.Collection
}

var _ order.Repository = (*OrderRepository)(nil)

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{collection: db.Database().Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user.userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []order.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

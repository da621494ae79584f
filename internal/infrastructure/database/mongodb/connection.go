// internal/infrastructure/database/mongodb/connection.go
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	ordersCollection   = "orders"
)

// DB wraps the MongoDB client and the storefront database
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect opens a MongoDB connection and verifies it with a ping
func Connect(ctx context.Context, uri, database string, logger *logrus.Logger) (*DB, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.WithField("database", database).Info("✅ MongoDB connection established successfully")

	return &DB{client: client, database: client.Database(database)}, nil
}

// Database returns the storefront database handle
func (d *DB) Database() *mongo.Database {
	return d.database
}

// Health checks the MongoDB connection health
func (d *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return d.client.Ping(ctx, nil)
}

// Close disconnects the client
func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// CreateIndexes creates the indexes the repositories query by
func (d *DB) CreateIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "resetToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "user.userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := d.database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}
	return nil
}

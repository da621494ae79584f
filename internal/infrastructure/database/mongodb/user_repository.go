// internal/infrastructure/database/mongodb/user_repository.go
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository implements user.Repository and cart.Store on MongoDB
type UserRepository struct {
	collection *mongo.Collection
}

var (
	_ user.Repository = (*UserRepository)(nil)
	_ cart.Store      = (*UserRepository)(nil)
)

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{collection: db.Database().Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Cart.Items == nil {
		u.Cart.Items = []cart.Item{}
	}
	if _, err := r.collection.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var u user.User
	if err := r.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	if token == "" {
		return nil, user.ErrNotFound
	}
	return r.findOne(ctx, bson.M{
		"resetToken":           token,
		"resetTokenExpiration": bson.M{"$gt": now},
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"resetToken":           token,
			"resetTokenExpiration": expiresAt,
			"updatedAt":            time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if result.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, userID string, now time.Time, passwordHash string) (bool, error) {
	if token == "" {
		return false, nil
	}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":                  userID,
			"resetToken":           token,
			"resetTokenExpiration": bson.M{"$gt": now},
		},
		bson.M{
			"$set":   bson.M{"password": passwordHash, "updatedAt": now},
			"$unset": bson.M{"resetToken": "", "resetTokenExpiration": ""},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) LoadCart(ctx context.Context, userID string) (cart.Cart, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return cart.Cart{}, err
	}
	return u.Cart, nil
}

// SaveCart writes c only if the stored version still equals expectedVersion
func (r *UserRepository) SaveCart(ctx context.Context, userID string, expectedVersion int64, c cart.Cart) error {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "cart.version": expectedVersion},
		bson.M{
			"$set": bson.M{"cart.items": items, "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"cart.version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return user.ErrNotFound
	}
	return cart.ErrVersionConflict
}

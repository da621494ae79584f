// internal/infrastructure/database/postgres/user_repository.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository and cart.Store on PostgreSQL
type UserRepository struct {
	db *gorm.DB
}

var (
	_ user.Repository = (*UserRepository)(nil)
	_ cart.Store      = (*UserRepository)(nil)
)

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// validID guards uuid columns against malformed path parameters, which
// PostgreSQL would otherwise reject with a syntax error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Cart.Items == nil {
		u.Cart.Items = []cart.Item{}
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if !validID(id) {
		return nil, user.ErrNotFound
	}
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	if token == "" {
		return nil, user.ErrNotFound
	}
	return r.first(ctx, "reset_token = ? AND reset_token_expiration > ?", token, now)
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if !validID(userID) {
		return user.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":            token,
			"reset_token_expiration": expiresAt,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, userID string, now time.Time, passwordHash string) (bool, error) {
	if token == "" || !validID(userID) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ? AND reset_token = ? AND reset_token_expiration > ?", userID, token, now).
		Updates(map[string]interface{}{
			"password":               passwordHash,
			"reset_token":            nil,
			"reset_token_expiration": nil,
			"updated_at":             now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume reset token: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if !validID(userID) {
		return user.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":   passwordHash,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
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
	if !validID(userID) {
		return user.ErrNotFound
	}

	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ? AND cart_version = ?", userID, expectedVersion).
		Updates(map[string]interface{}{
			"cart_items":   gorm.Expr("?::jsonb", string(payload)),
			"cart_version": gorm.Expr("cart_version + 1"),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save cart: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// nothing matched: either the user is gone or the version moved on
	var count int64
	if err := r.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return user.ErrNotFound
	}
	return cart.ErrVersionConflict
}

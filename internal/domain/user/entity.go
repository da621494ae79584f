// internal/domain/user/entity.go
package user

import (
	"context"
	"strings"
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailTaken         = apperror.FieldValidation("email", "Email already exists")
	ErrInvalidCredentials = apperror.FieldValidation("email", "Invalid email or password.")
	ErrInvalidResetToken  = apperror.NotFound("reset token is invalid or has expired")
	ErrPasswordMismatch   = apperror.FieldValidation("confirmPassword", "Passwords have to match!")
	ErrWrongPassword      = apperror.FieldValidation("currentPassword", "Current password is incorrect.")
)

// User represents the user entity. The cart lives inside the user record.
type User struct {
	ID                   string     `gorm:"primaryKey;type:uuid" json:"id" bson:"_id"`
	Email                string     `gorm:"uniqueIndex;not null;size:255" json:"email" bson:"email"`
	PasswordHash         string     `gorm:"column:password;not null;size:255" json:"-" bson:"password"`
	ResetToken           *string    `gorm:"size:64;index" json:"-" bson:"resetToken,omitempty"`
	ResetTokenExpiration *time.Time `json:"-" bson:"resetTokenExpiration,omitempty"`
	Cart                 cart.Cart  `gorm:"embedded;embeddedPrefix:cart_" json:"cart" bson:"cart"`
	CreatedAt            time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt            time.Time  `json:"updated_at" bson:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lower-cases and trims an address before storage or lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasValidResetToken reports whether token matches and is unexpired at now
func (u *User) HasValidResetToken(token string, now time.Time) bool {
	if u.ResetToken == nil || u.ResetTokenExpiration == nil || token == "" {
		return false
	}
	return *u.ResetToken == token && u.ResetTokenExpiration.After(now)
}

// Repository persists users
type Repository interface {
	// Create returns ErrEmailTaken when the address is already registered
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByResetToken matches a token whose expiration is after now
	FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	// ConsumeResetToken sets passwordHash and clears both token fields in one
	// conditional update. It reports false when no unexpired match exists.
	ConsumeResetToken(ctx context.Context, token, userID string, now time.Time, passwordHash string) (bool, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

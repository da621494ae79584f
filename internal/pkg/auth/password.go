// internal/pkg/auth/password.go
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	MaxPasswordLength = 72

	resetTokenBytes = 32
)

// PasswordManager handles password operations
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return NewPasswordManagerWithCost(cfg.Security.BcryptCost)
}

// NewPasswordManagerWithCost creates a password manager with an explicit bcrypt cost
func NewPasswordManagerWithCost(cost int) *PasswordManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{cost: cost}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword enforces the password length rule
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.FieldValidation("password",
			fmt.Sprintf("Please enter a password with at least %d characters.", MinPasswordLength))
	}

	if len(password) > MaxPasswordLength {
		return apperror.FieldValidation("password",
			fmt.Sprintf("Password must be no more than %d characters long.", MaxPasswordLength))
	}

	return nil
}

// GenerateResetToken returns 32 random bytes, hex encoded
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

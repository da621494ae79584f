// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/pkg/auth"
)

// ResetTokenTTL is how long a password reset link stays valid
const ResetTokenTTL = time.Hour

// Service handles user business logic
type Service struct {
	repo            Repository
	passwordManager *auth.PasswordManager
	logger          *logrus.Logger
	now             func() time.Time
	newToken        func() (string, error)
}

// NewService creates a new user service
func NewService(repo Repository, passwords *auth.PasswordManager, logger *logrus.Logger) *Service {
	return &Service{
		repo:            repo,
		passwordManager: passwords,
		logger:          logger,
		now:             time.Now,
		newToken:        auth.GenerateResetToken,
	}
}

// WithClock replaces the time source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a new account with an empty cart
func (s *Service) Register(ctx context.Context, email, password, confirmPassword string) (*User, error) {
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	email = NormalizeEmail(email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		Cart:         cart.Cart{Items: []cart.Item{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("user_id", u.ID).Info("User registered")
	return u, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password produce the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetByID returns the live user record
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// IssueResetToken stores a fresh reset token valid for one hour, replacing
// any earlier one, and returns it with the user.
func (s *Service) IssueResetToken(ctx context.Context, email string) (*User, string, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user for reset: %w", err)
	}

	token, err := s.newToken()
	if err != nil {
		return nil, "", err
	}

	expiresAt := s.now().UTC().Add(ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, u.ID, token, expiresAt); err != nil {
		return nil, "", fmt.Errorf("failed to store reset token: %w", err)
	}

	u.ResetToken = &token
	u.ResetTokenExpiration = &expiresAt

	s.logger.WithField("user_id", u.ID).Info("Password reset token issued")
	return u, token, nil
}

// FindByResetToken returns the holder of an unexpired token. When userID is
// set it must match too. Expired and unknown tokens are indistinguishable.
func (s *Service) FindByResetToken(ctx context.Context, token, userID string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}

	u, err := s.repo.FindByResetToken(ctx, token, s.now().UTC())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to find reset token: %w", err)
	}

	if userID != "" && u.ID != userID {
		return nil, ErrInvalidResetToken
	}

	return u, nil
}

// ResetPassword consumes a reset token and sets a new password. The
// caller must destroy the current session afterwards.
func (s *Service) ResetPassword(ctx context.Context, token, userID, newPassword string) error {
	if token == "" || userID == "" {
		return ErrInvalidResetToken
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return err
	}

	ok, err := s.repo.ConsumeResetToken(ctx, token, userID, s.now().UTC(), hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if !ok {
		return ErrInvalidResetToken
	}

	s.logger.WithField("user_id", userID).Info("Password reset completed")
	return nil
}

// ChangePassword updates the password of a logged-in user after checking
// the current one. The caller must destroy the session afterwards.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.WithField("user_id", userID).Info("Password changed")
	return nil
}

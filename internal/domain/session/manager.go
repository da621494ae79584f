// internal/domain/session/manager.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/user"
)

// TokenCodec signs session ids into cookie values and back
type TokenCodec interface {
	Sign(sessionID string) (string, error)
	Parse(token string) (string, error)
}

// UserFinder re-reads the live user on every request
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Manager drives the Anonymous -> Authenticated -> Anonymous lifecycle
type Manager struct {
	store  Store
	tokens TokenCodec
	users  UserFinder
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

// NewManager creates a new session manager
func NewManager(store Store, tokens TokenCodec, users UserFinder, ttl time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		tokens: tokens,
		users:  users,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// TTL returns the lifetime of new sessions
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Establish creates a logged-in session for u and returns the cookie token
func (m *Manager) Establish(ctx context.Context, u *user.User) (string, error) {
	r := &Record{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		Email:      u.Email,
		IsLoggedIn: true,
		CreatedAt:  m.now().UTC(),
	}

	if err := m.store.Save(ctx, r, m.ttl); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	token, err := m.tokens.Sign(r.ID)
	if err != nil {
		return "", err
	}

	m.logger.WithFields(logrus.Fields{
		"user_id":    u.ID,
		"session_id": r.ID,
	}).Info("Session established")

	return token, nil
}

// Resolve maps a cookie token to a principal. Missing, expired, tampered
// or orphaned sessions resolve to Anonymous without an error; only
// infrastructure failures are returned.
func (m *Manager) Resolve(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Anonymous{}, nil
	}

	sessionID, err := m.tokens.Parse(token)
	if err != nil {
		return Anonymous{}, nil
	}

	r, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Anonymous{}, nil
		}
		return Anonymous{}, fmt.Errorf("failed to load session: %w", err)
	}
	if !r.IsLoggedIn || r.UserID == "" {
		return Anonymous{}, nil
	}

	u, err := m.users.FindByID(ctx, r.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Anonymous{}, nil
		}
		return Anonymous{}, fmt.Errorf("failed to load session user: %w", err)
	}

	return Authenticated{Session: r, User: u}, nil
}

// Destroy deletes the session behind token. Unknown tokens are ignored.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sessionID, err := m.tokens.Parse(token)
	if err != nil {
		return nil
	}

	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	m.logger.WithField("session_id", sessionID).Info("Session destroyed")
	return nil
}

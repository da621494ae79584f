// internal/domain/session/session.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/storefront/internal/domain/user"
)

// ErrNotFound is returned by a Store for a missing or expired record
var ErrNotFound = errors.New("session not found")

// Record is the server-side session state
type Record struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	IsLoggedIn bool      `json:"is_logged_in"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store keeps session records with a time to live
type Store interface {
	Save(ctx context.Context, r *Record, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// Principal is who a request acts as: Anonymous or Authenticated
type Principal interface {
	principal()
	IsAuthenticated() bool
}

// Anonymous is a request with no valid session
type Anonymous struct{}

func (Anonymous) principal() {}

// IsAuthenticated returns false
func (Anonymous) IsAuthenticated() bool { return false }

// Authenticated is a request whose session resolved to a live user
type Authenticated struct {
	Session *Record
	User    *user.User
}

func (Authenticated) principal() {}

// IsAuthenticated returns true
func (Authenticated) IsAuthenticated() bool { return true }

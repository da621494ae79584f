// internal/infrastructure/database/redis/session_store.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/session"
)

const (
	sessionKeyPrefix  = "session:"
	checkoutKeyPrefix = "checkout:"
)

func setJSON(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}

// getJSON decodes the value at key into dest and reports whether it existed
func getJSON(ctx context.Context, rdb *redis.Client, key string, dest interface{}) (bool, error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SessionStore implements session.Store with one JSON value per session
type SessionStore struct {
	rdb *redis.Client
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a Redis backed session store
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Save(ctx context.Context, r *session.Record, ttl time.Duration) error {
	return setJSON(ctx, s.rdb, sessionKeyPrefix+r.ID, r, ttl)
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Record, error) {
	var r session.Record
	found, err := getJSON(ctx, s.rdb, sessionKeyPrefix+id, &r)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, session.ErrNotFound
	}
	return &r, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// CheckoutStore implements checkout.PendingStore
type CheckoutStore struct {
	rdb *redis.Client
}

var _ checkout.PendingStore = (*CheckoutStore)(nil)

// NewCheckoutStore creates a Redis backed pending checkout store
func NewCheckoutStore(rdb *redis.Client) *CheckoutStore {
	return &CheckoutStore{rdb: rdb}
}

func (s *CheckoutStore) Save(ctx context.Context, p checkout.Pending, ttl time.Duration) error {
	return setJSON(ctx, s.rdb, checkoutKeyPrefix+p.SessionID, p, ttl)
}

func (s *CheckoutStore) Load(ctx context.Context, sessionID string) (*checkout.Pending, error) {
	var p checkout.Pending
	found, err := getJSON(ctx, s.rdb, checkoutKeyPrefix+sessionID, &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, checkout.ErrUnknownSession
	}
	return &p, nil
}

// Take uses GETDEL so only one caller can consume a session
func (s *CheckoutStore) Take(ctx context.Context, sessionID string) (*checkout.Pending, error) {
	key := checkoutKeyPrefix + sessionID
	data, err := s.rdb.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, checkout.ErrUnknownSession
		}
		return nil, err
	}

	var p checkout.Pending
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &p, nil
}

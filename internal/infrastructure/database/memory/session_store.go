// internal/infrastructure/database/memory/session_store.go
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/session"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// KeyValue is a tiny expiring map used where Redis would hold the data
type KeyValue[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	now     func() time.Time
}

// NewKeyValue creates an empty expiring map
func NewKeyValue[T any]() *KeyValue[T] {
	return &KeyValue[T]{entries: make(map[string]entry[T]), now: time.Now}
}

func (kv *KeyValue[T]) set(key string, value T, ttl time.Duration) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.entries[key] = entry[T]{value: value, expiresAt: kv.now().Add(ttl)}
}

func (kv *KeyValue[T]) get(key string) (T, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	e, ok := kv.entries[key]
	if !ok || !kv.now().Before(e.expiresAt) {
		delete(kv.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// take removes key and returns what it held, if it had not expired
func (kv *KeyValue[T]) take(key string) (T, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	e, ok := kv.entries[key]
	delete(kv.entries, key)
	if !ok || !kv.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (kv *KeyValue[T]) del(key string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.entries, key)
}

// SessionStore implements session.Store
type SessionStore struct{ kv *KeyValue[session.Record] }

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates an in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{kv: NewKeyValue[session.Record]()}
}

func (s *SessionStore) Save(ctx context.Context, r *session.Record, ttl time.Duration) error {
	s.kv.set(r.ID, *r, ttl)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Record, error) {
	r, ok := s.kv.get(id)
	if !ok {
		return nil, session.ErrNotFound
	}
	return &r, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.kv.del(id)
	return nil
}

// CheckoutStore implements checkout.PendingStore
type CheckoutStore struct{ kv *KeyValue[checkout.Pending] }

var _ checkout.PendingStore = (*CheckoutStore)(nil)

// NewCheckoutStore creates an in-memory pending checkout store
func NewCheckoutStore() *CheckoutStore {
	return &CheckoutStore{kv: NewKeyValue[checkout.Pending]()}
}

func (s *CheckoutStore) Save(ctx context.Context, p checkout.Pending, ttl time.Duration) error {
	s.kv.set(p.SessionID, p, ttl)
	return nil
}

func (s *CheckoutStore) Load(ctx context.Context, sessionID string) (*checkout.Pending, error) {
	p, ok := s.kv.get(sessionID)
	if !ok {
		return nil, checkout.ErrUnknownSession
	}
	return &p, nil
}

func (s *CheckoutStore) Take(ctx context.Context, sessionID string) (*checkout.Pending, error) {
	p, ok := s.kv.take(sessionID)
	if !ok {
		return nil, checkout.ErrUnknownSession
	}
	return &p, nil
}

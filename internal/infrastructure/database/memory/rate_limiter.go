// internal/infrastructure/database/memory/rate_limiter.go
package memory

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int64
	expiresAt time.Time
}

// RateLimiter counts requests per key in fixed windows, in process
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

// NewRateLimiter creates an in-memory rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[string]window), now: time.Now}
}

// Hit records one request for key and returns the count in the current window
func (l *RateLimiter) Hit(ctx context.Context, key string, d time.Duration) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		w = window{expiresAt: now.Add(d)}
	}
	w.count++
	l.windows[key] = w
	return w.count, nil
}

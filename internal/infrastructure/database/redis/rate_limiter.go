// internal/infrastructure/database/redis/rate_limiter.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed windows
type RateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter creates a Redis backed rate limiter
func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Hit records one request for key and returns the count in the current window
func (l *RateLimiter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := fmt.Sprintf("rate_limit:%s", key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count request: %w", err)
	}
	// the first hit opens the window
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count, nil
}

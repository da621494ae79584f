// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Limiter counts requests per key in fixed windows
type Limiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP per minute
func RateLimit(limit int, limiter Limiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		count, err := limiter.Hit(ctx, c.ClientIP(), time.Minute)
		if err != nil {
			// If the counter store is down, allow the request
			logger.WithError(err).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, "Rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}

// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/user"
)

const principalKey = "principal"

// SessionResolver maps a cookie token to a principal
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (session.Principal, error)
}

// Session attaches the request principal. A resolver failure is logged and
// the request continues as Anonymous.
func Session(cfg *config.Config, resolver SessionResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var principal session.Principal = session.Anonymous{}

		if token, err := c.Cookie(cfg.Session.CookieName); err == nil && token != "" {
			p, err := resolver.Resolve(c.Request.Context(), token)
			if err != nil {
				logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Failed to resolve session")
			}
			principal = p
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAuth redirects anonymous requests to the login page before any
// handler runs
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal attached by Session
func GetPrincipal(c *gin.Context) session.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(session.Principal); ok && p != nil {
			return p
		}
	}
	return session.Anonymous{}
}

// IsAuthenticated reports whether the request has a logged-in user
func IsAuthenticated(c *gin.Context) bool {
	return GetPrincipal(c).IsAuthenticated()
}

// GetUserFromContext returns the live user of an authenticated request
func GetUserFromContext(c *gin.Context) (*user.User, bool) {
	if authed, ok := GetPrincipal(c).(session.Authenticated); ok {
		return authed.User, true
	}
	return nil, false
}

// GetUserIDFromContext extracts the user ID of an authenticated request
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	u, ok := GetUserFromContext(c)
	if !ok {
		return "", false
	}
	return u.ID, true
}

// SetSessionCookie writes the session token cookie
func SetSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Session.CookieName, token, int(cfg.Session.TTL.Seconds()), "/", "", cfg.Session.Secure, true)
}

// ClearSessionCookie expires the session token cookie
func ClearSessionCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Session.CookieName, "", -1, "/", "", cfg.Session.Secure, true)
}

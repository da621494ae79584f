// internal/interfaces/http/middleware/csrf.go
package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/config"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "_csrf"
	csrfHeader     = "X-CSRF-Token"
	csrfAltHeader  = "csrf-token"
	csrfContextKey = "csrf_token"
)

// CSRF implements double-submit protection. Every response carries a token
// cookie; unsafe requests must echo it in the _csrf form field or the
// X-CSRF-Token (or csrf-token) header.
func CSRF(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookieName)
		if err != nil || len(token) != 64 {
			token, err = newCSRFToken()
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(csrfCookieName, token, 0, "/", "", cfg.Session.Secure, true)
		}
		c.Set(csrfContextKey, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		submitted := c.GetHeader(csrfHeader)
		if submitted == "" {
			submitted = c.GetHeader(csrfAltHeader)
		}
		if submitted == "" {
			submitted = c.PostForm(csrfFormField)
		}
		if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			c.String(http.StatusForbidden, "invalid csrf token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token views embed in forms
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

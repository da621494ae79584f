// internal/interfaces/http/middleware/flash.go
package middleware

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookiePrefix = "flash_"

// SetFlash stores a one-time message shown on the next rendered page
func SetFlash(c *gin.Context, key, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookiePrefix+key, base64.RawURLEncoding.EncodeToString([]byte(message)), 300, "/", "", false, true)
}

// PopFlash returns and clears the message stored under key
func PopFlash(c *gin.Context, key string) string {
	raw, err := c.Cookie(flashCookiePrefix + key)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookiePrefix+key, "", -1, "/", "", false, true)

	message, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return ""
	}
	return string(message)
}

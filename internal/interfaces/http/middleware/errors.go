// internal/interfaces/http/middleware/errors.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/pkg/apperror"
)

// ErrorHandler is the terminal handler for errors pushed with c.Error.
// NotFound and Unauthorized redirect home; everything else renders the
// 500 page without echoing internals.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		kind := apperror.KindOf(err)

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"kind":       kind.String(),
		})

		switch kind {
		case apperror.KindNotFound, apperror.KindUnauthorized:
			entry.WithField("status", http.StatusFound).Info(err.Error())
			c.Redirect(http.StatusFound, "/")
		default:
			entry.WithError(err).WithFields(logrus.Fields{
				"status":  http.StatusInternalServerError,
				"message": apperror.Message(err),
			}).Error("Request failed")
			c.HTML(http.StatusInternalServerError, "500.html", gin.H{
				"pageTitle":       "Error!",
				"path":            "/500",
				"isAuthenticated": IsAuthenticated(c),
				"csrfToken":       CSRFToken(c),
			})
		}
	}
}

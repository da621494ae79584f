// internal/interfaces/http/handlers/render.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// view merges the values every page expects with the page's own data
func view(c *gin.Context, title, path string, data gin.H) gin.H {
	h := gin.H{
		"pageTitle":        title,
		"path":             path,
		"isAuthenticated":  middleware.IsAuthenticated(c),
		"csrfToken":        middleware.CSRFToken(c),
		"errorMessage":     middleware.PopFlash(c, "error"),
		"successMessage":   middleware.PopFlash(c, "success"),
		"oldInput":         map[string]string{},
		"validationErrors": map[string]string{},
	}
	for k, v := range data {
		h[k] = v
	}
	return h
}

func render(c *gin.Context, name, title, path string, data gin.H) {
	c.HTML(http.StatusOK, name, view(c, title, path, data))
}

// renderInvalid re-renders a form with status 422, the first error message
// and the offending fields marked
func renderInvalid(c *gin.Context, name, title, path string, err error, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["errorMessage"] = validationMessage(err)
	data["validationErrors"] = validationErrors(err)
	c.HTML(http.StatusUnprocessableEntity, name, view(c, title, path, data))
}

// fail hands err to the error middleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// NotFound renders the 404 page
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", view(c, "Page Not Found", "/404", nil))
}

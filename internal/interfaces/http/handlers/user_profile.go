// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/apperror"
)

// UserProfileHandler handles the account page
type UserProfileHandler struct {
	userService *user.Service
	auth        *AuthHandler
}

// NewUserProfileHandler creates a new user profile handler. Password
// changes end the session through auth.
func NewUserProfileHandler(userService *user.Service, auth *AuthHandler) *UserProfileHandler {
	return &UserProfileHandler{
		userService: userService,
		auth:        auth,
	}
}

type changePasswordForm struct {
	CurrentPassword string `form:"currentPassword" binding:"required"`
	NewPassword     string `form:"newPassword" binding:"required,min=6"`
}

// GetAccount handles GET /account
func (h *UserProfileHandler) GetAccount(c *gin.Context) {
	u, _ := middleware.GetUserFromContext(c)
	render(c, "account.html", "Your Account", "/account", gin.H{
		"email": u.Email,
	})
}

// ChangePassword handles POST /account/password
func (h *UserProfileHandler) ChangePassword(c *gin.Context) {
	u, _ := middleware.GetUserFromContext(c)

	var form changePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		renderInvalid(c, "account.html", "Your Account", "/account", err, gin.H{"email": u.Email})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), u.ID, form.CurrentPassword, form.NewPassword); err != nil {
		if apperror.Is(err, apperror.KindValidation) {
			renderInvalid(c, "account.html", "Your Account", "/account", err, gin.H{"email": u.Email})
			return
		}
		fail(c, err)
		return
	}

	// a changed password forces a fresh login
	h.auth.endSession(c)
	middleware.SetFlash(c, "success", "Your password has been changed. Please log in again.")
	c.Redirect(http.StatusFound, "/login")
}

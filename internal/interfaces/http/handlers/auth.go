// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/email"
)

// AuthHandler handles signup, login, logout and password reset pages
type AuthHandler struct {
	userService    *user.Service
	sessionManager *session.Manager
	emailService   *email.EmailService
	dispatcher     *email.Dispatcher
	config         *config.Config
	logger         *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService *user.Service,
	sessionManager *session.Manager,
	emailService *email.EmailService,
	dispatcher *email.Dispatcher,
	cfg *config.Config,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionManager: sessionManager,
		emailService:   emailService,
		dispatcher:     dispatcher,
		config:         cfg,
		logger:         logger,
	}
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

type signupForm struct {
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword"`
}

type resetForm struct {
	Email string `form:"email"`
}

type newPasswordForm struct {
	NewPassword   string `form:"newPassword" binding:"required,min=6"`
	UserID        string `form:"userId"`
	PasswordToken string `form:"passwordToken"`
}

// GetLogin handles GET /login
func (h *AuthHandler) GetLogin(c *gin.Context) {
	render(c, "login.html", "Login", "/login", nil)
}

// PostLogin handles POST /login
func (h *AuthHandler) PostLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		renderInvalid(c, "login.html", "Login", "/login", err, gin.H{
			"oldInput": map[string]string{"email": form.Email},
		})
		return
	}

	u, err := h.userService.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if apperror.Is(err, apperror.KindValidation) {
			renderInvalid(c, "login.html", "Login", "/login", err, gin.H{
				"oldInput": map[string]string{"email": form.Email},
			})
			return
		}
		fail(c, err)
		return
	}

	if err := h.startSession(c, u); err != nil {
		fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// GetSignup handles GET /signup
func (h *AuthHandler) GetSignup(c *gin.Context) {
	render(c, "signup.html", "Signup", "/signup", nil)
}

// PostSignup handles POST /signup
func (h *AuthHandler) PostSignup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		renderInvalid(c, "signup.html", "Signup", "/signup", err, gin.H{
			"oldInput": map[string]string{"email": form.Email},
		})
		return
	}

	u, err := h.userService.Register(c.Request.Context(), form.Email, form.Password, form.ConfirmPassword)
	if err != nil {
		if apperror.Is(err, apperror.KindValidation) {
			renderInvalid(c, "signup.html", "Signup", "/signup", err, gin.H{
				"oldInput": map[string]string{"email": form.Email},
			})
			return
		}
		fail(c, err)
		return
	}

	h.dispatcher.Dispatch(email.EmailTypeWelcome, u.Email, func(ctx context.Context) error {
		return h.emailService.SendWelcomeEmail(ctx, u.Email)
	})

	if err := h.startSession(c, u); err != nil {
		fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// PostLogout handles POST /logout
func (h *AuthHandler) PostLogout(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusFound, "/")
}

// GetReset handles GET /reset
func (h *AuthHandler) GetReset(c *gin.Context) {
	render(c, "reset.html", "Reset Password", "/reset", nil)
}

// PostReset handles POST /reset. The response is the same whether or not
// the email belongs to an account.
func (h *AuthHandler) PostReset(c *gin.Context) {
	var form resetForm
	_ = c.ShouldBind(&form)

	u, token, err := h.userService.IssueResetToken(c.Request.Context(), form.Email)
	switch {
	case err == nil:
		to := u.Email
		h.dispatcher.Dispatch(email.EmailTypePasswordReset, to, func(ctx context.Context) error {
			return h.emailService.SendPasswordResetEmail(ctx, to, token)
		})
	case errors.Is(err, user.ErrNotFound):
		h.logger.WithField("path", c.Request.URL.Path).Info("Password reset requested for unknown email")
	default:
		fail(c, err)
		return
	}

	middleware.SetFlash(c, "success", "If an account exists for that email, a reset link is on its way.")
	c.Redirect(http.StatusFound, "/login")
}

// GetNewPassword handles GET /reset/:token
func (h *AuthHandler) GetNewPassword(c *gin.Context) {
	token := c.Param("token")

	u, err := h.userService.FindByResetToken(c.Request.Context(), token, "")
	if err != nil {
		if errors.Is(err, user.ErrInvalidResetToken) {
			middleware.SetFlash(c, "error", "Password reset token is invalid or has expired.")
			c.Redirect(http.StatusFound, "/reset")
			return
		}
		fail(c, err)
		return
	}

	render(c, "new-password.html", "New Password", "/new-password", gin.H{
		"userId":        u.ID,
		"passwordToken": token,
	})
}

// PostNewPassword handles POST /new-password
func (h *AuthHandler) PostNewPassword(c *gin.Context) {
	var form newPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		renderInvalid(c, "new-password.html", "New Password", "/new-password", err, gin.H{
			"userId":        form.UserID,
			"passwordToken": form.PasswordToken,
		})
		return
	}

	err := h.userService.ResetPassword(c.Request.Context(), form.PasswordToken, form.UserID, form.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidResetToken):
			middleware.SetFlash(c, "error", "Password reset token is invalid or has expired.")
			c.Redirect(http.StatusFound, "/reset")
		case apperror.Is(err, apperror.KindValidation):
			renderInvalid(c, "new-password.html", "New Password", "/new-password", err, gin.H{
				"userId":        form.UserID,
				"passwordToken": form.PasswordToken,
			})
		default:
			fail(c, err)
		}
		return
	}

	h.endSession(c)
	middleware.SetFlash(c, "success", "Your password has been updated. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

// startSession replaces any current session with a fresh one for u
func (h *AuthHandler) startSession(c *gin.Context, u *user.User) error {
	h.destroySession(c)

	token, err := h.sessionManager.Establish(c.Request.Context(), u)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, h.config, token)
	return nil
}

// endSession destroys the current session and expires its cookie
func (h *AuthHandler) endSession(c *gin.Context) {
	if h.destroySession(c) {
		middleware.ClearSessionCookie(c, h.config)
	}
}

func (h *AuthHandler) destroySession(c *gin.Context) bool {
	token, err := c.Cookie(h.config.Session.CookieName)
	if err != nil || token == "" {
		return false
	}
	if err := h.sessionManager.Destroy(c.Request.Context(), token); err != nil {
		h.logger.WithError(err).Warn("Failed to destroy session")
	}
	return true
}

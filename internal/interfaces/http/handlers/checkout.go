// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the payment-gated checkout pages
type CheckoutHandler struct {
	checkoutService *checkout.Service
	confirmer       *OrderConfirmer
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, confirmer *OrderConfirmer, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		confirmer:       confirmer,
		config:          cfg,
	}
}

// GetCheckout handles GET /checkout and GET /checkout/cancel
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	base := strings.TrimRight(h.config.App.BaseURL, "/")
	summary, err := h.checkoutService.Begin(c.Request.Context(), userID, checkout.URLs{
		SuccessURL: base + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  base + "/checkout/cancel",
	})
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			middleware.SetFlash(c, "error", "Your cart is empty.")
			c.Redirect(http.StatusFound, "/cart")
			return
		}
		fail(c, err)
		return
	}

	render(c, "checkout.html", "Checkout", "/checkout", gin.H{
		"lines":          summary.Lines,
		"totalSum":       summary.TotalSum,
		"sessionId":      summary.SessionID,
		"sessionURL":     summary.SessionURL,
		"publishableKey": summary.PublishableKey,
	})
}

// GetCheckoutSuccess handles GET /checkout/success?session_id=...
func (h *CheckoutHandler) GetCheckoutSuccess(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	o, err := h.checkoutService.Complete(c.Request.Context(), userID, c.Query("session_id"))
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			middleware.SetFlash(c, "error", "Your cart is empty.")
			c.Redirect(http.StatusFound, "/cart")
			return
		}
		fail(c, err)
		return
	}

	h.confirmer.Confirm(o)
	c.Redirect(http.StatusFound, "/orders")
}

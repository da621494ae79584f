// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// CartHandler handles the cart page and its mutations
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
	}
}

type cartItemForm struct {
	ProductID string `form:"productId" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	view, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, "cart.html", "Your Cart", "/cart", gin.H{
		"lines":        view.Lines,
		"directOrders": h.config.Checkout.DirectOrders,
	})
}

// AddToCart handles POST /cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var form cartItemForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := h.cartService.Add(c.Request.Context(), userID, form.ProductID); err != nil {
		fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/cart")
}

// RemoveFromCart handles POST /cart-delete-item
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var form cartItemForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/cart")
		return
	}

	if err := h.cartService.Remove(c.Request.Context(), userID, form.ProductID); err != nil {
		fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/cart")
}

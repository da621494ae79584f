// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/email"
	"github.com/your-org/storefront/internal/pkg/money"
)

// OrderHandler handles the order history and direct ordering
type OrderHandler struct {
	orderService *order.Service
	confirmer    *OrderConfirmer
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, confirmer *OrderConfirmer) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		confirmer:    confirmer,
	}
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	orders, err := h.orderService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, "orders.html", "Your Orders", "/orders", gin.H{
		"orders": orders,
	})
}

// CreateOrder handles POST /create-order, placing the cart without payment
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	o, err := h.orderService.Place(c.Request.Context(), userID)
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

// OrderConfirmer mails the confirmation for a placed order
type OrderConfirmer struct {
	emailService *email.EmailService
	dispatcher   *email.Dispatcher
	config       *config.Config
}

// NewOrderConfirmer creates a new order confirmer
func NewOrderConfirmer(emailService *email.EmailService, dispatcher *email.Dispatcher, cfg *config.Config) *OrderConfirmer {
	return &OrderConfirmer{
		emailService: emailService,
		dispatcher:   dispatcher,
		config:       cfg,
	}
}

// Confirm queues the confirmation email; delivery failures are only logged
func (oc *OrderConfirmer) Confirm(o *order.Order) {
	items := make([]email.OrderItem, 0, len(o.Products))
	for _, li := range o.Products {
		items = append(items, email.OrderItem{
			Title:    li.Product.Title,
			Quantity: li.Quantity,
			Price:    money.Format(li.Product.Price),
		})
	}

	data := email.OrderConfirmationData{
		EmailTemplateData: email.GetBaseTemplateData(oc.config.External.Email.FromName, oc.config.App.BaseURL, o.User.Email),
		OrderID:           o.ID,
		OrderTotal:        o.DisplayTotal(),
		InvoiceURL:        oc.config.App.BaseURL + "/orders/" + o.ID,
		Items:             items,
	}

	to := o.User.Email
	oc.dispatcher.Dispatch(email.EmailTypeOrderConfirmation, to, func(ctx context.Context) error {
		return oc.emailService.SendOrderConfirmationEmail(ctx, to, data)
	})
}

// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// Handlers groups the page handlers the routes dispatch to
type Handlers struct {
	Auth     *handlers.AuthHandler
	Profile  *handlers.UserProfileHandler
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Order    *handlers.OrderHandler
	Invoice  *handlers.InvoiceHandler
	Checkout *handlers.CheckoutHandler
}

// SetupAuthRoutes sets up signup, login and password reset routes
func SetupAuthRoutes(r gin.IRouter, h Handlers) {
	r.GET("/login", h.Auth.GetLogin)
	r.POST("/login", h.Auth.PostLogin)
	r.GET("/signup", h.Auth.GetSignup)
	r.POST("/signup", h.Auth.PostSignup)
	r.POST("/logout", h.Auth.PostLogout)
	r.GET("/reset", h.Auth.GetReset)
	r.POST("/reset", h.Auth.PostReset)
	r.GET("/reset/:token", h.Auth.GetNewPassword)
	r.POST("/new-password", h.Auth.PostNewPassword)

	account := r.Group("/account")
	account.Use(middleware.RequireAuth())
	{
		account.GET("", h.Profile.GetAccount)
		account.POST("/password", h.Profile.ChangePassword)
	}
}

// SetupShopRoutes sets up catalog, cart, order and checkout routes
func SetupShopRoutes(r gin.IRouter, h Handlers, cfg *config.Config) {
	r.GET("/", h.Product.GetIndex)
	r.GET("/products", h.Product.GetProducts)
	r.GET("/products/:productId", h.Product.GetProduct)

	// Everything below requires a logged-in user
	shop := r.Group("")
	shop.Use(middleware.RequireAuth())
	{
		shop.GET("/cart", h.Cart.GetCart)
		shop.POST("/cart", h.Cart.AddToCart)
		shop.POST("/cart-delete-item", h.Cart.RemoveFromCart)

		shop.GET("/orders", h.Order.GetOrders)
		shop.GET("/orders/:orderId", h.Invoice.GetInvoice)
		if cfg.Checkout.DirectOrders {
			shop.POST("/create-order", h.Order.CreateOrder)
		}

		shop.GET("/checkout", h.Checkout.GetCheckout)
		shop.GET("/checkout/cancel", h.Checkout.GetCheckout)
		shop.GET("/checkout/success", h.Checkout.GetCheckoutSuccess)
	}
}

// SetupAdminRoutes sets up the owner's product management routes
func SetupAdminRoutes(r gin.IRouter, h Handlers) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth())
	{
		admin.GET("/products", h.Product.AdminGetProducts)
		admin.GET("/add-product", h.Product.AdminGetAddProduct)
		admin.POST("/add-product", h.Product.AdminPostAddProduct)
		admin.GET("/edit-product/:productId", h.Product.AdminGetEditProduct)
		admin.POST("/edit-product", h.Product.AdminPostEditProduct)
		admin.DELETE("/product/:productId", h.Product.AdminDeleteProduct)
	}
}

// SetupRoutes registers every page route
func SetupRoutes(r gin.IRouter, h Handlers, cfg *config.Config) {
	SetupAuthRoutes(r, h)
	SetupShopRoutes(r, h, cfg)
	SetupAdminRoutes(r, h)
}

// internal/app/app.go
package app

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/invoice"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/payment"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/upload"
	"github.com/your-org/storefront/internal/domain/user"
	httpserver "github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
	"github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/email"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

const emailTimeout = 30 * time.Second

// UserStore persists users together with their embedded carts
type UserStore interface {
	user.Repository
	cart.Store
}

// Backends are the storage collaborators picked by the database driver
type Backends struct {
	Users     UserStore
	Products  product.Repository
	Orders    order.Repository
	Sessions  session.Store
	Checkouts checkout.PendingStore
	Limiter   middleware.Limiter
	Checks    map[string]httpserver.HealthCheck

	// Optional overrides. Nil picks the configured default.
	Gateway  payment.Gateway
	Sender   email.Sender
	Renderer invoice.Renderer
}

// App is the wired storefront
type App struct {
	Server     *httpserver.Server
	Dispatcher *email.Dispatcher
}

// New builds services, handlers and the HTTP server over b
func New(cfg *config.Config, logger *logrus.Logger, b Backends) (*App, error) {
	gateway := b.Gateway
	if gateway == nil {
		var err error
		if gateway, err = NewGateway(cfg, logger); err != nil {
			return nil, err
		}
	}

	sender := b.Sender
	if sender == nil {
		var err error
		if sender, err = email.NewSender(cfg, logger); err != nil {
			return nil, fmt.Errorf("failed to create email sender: %w", err)
		}
	}

	renderer := b.Renderer
	if renderer == nil {
		renderer = pdf.NewGenerator()
	}

	passwords := auth.NewPasswordManager(cfg)
	tokens := auth.NewSessionTokenManager(cfg)

	uploadService := upload.NewService(cfg, logger)
	userService := user.NewService(b.Users, passwords, logger)
	productService := product.NewService(b.Products, uploadService, logger)
	cartService := cart.NewService(b.Users, b.Products, logger)
	orderService := order.NewService(b.Orders, cartService, b.Users, logger)
	checkoutService := checkout.NewService(cartService, orderService, gateway, b.Checkouts, cfg.External.Stripe.PublishableKey, logger)
	invoiceService := invoice.NewService(b.Orders, renderer, cfg.Invoice.Dir, logger)
	sessionManager := session.NewManager(b.Sessions, tokens, b.Users, cfg.Session.TTL, logger)

	emailService := email.NewEmailService(cfg, sender)
	dispatcher := email.NewDispatcher(logger, emailTimeout)
	confirmer := handlers.NewOrderConfirmer(emailService, dispatcher, cfg)

	authHandler := handlers.NewAuthHandler(userService, sessionManager, emailService, dispatcher, cfg, logger)

	server, err := httpserver.NewServer(cfg, logger, httpserver.Dependencies{
		Sessions: sessionManager,
		Limiter:  b.Limiter,
		Checks:   b.Checks,
		Handlers: routes.Handlers{
			Auth:     authHandler,
			Profile:  handlers.NewUserProfileHandler(userService, authHandler),
			Product:  handlers.NewProductHandler(productService, uploadService, logger),
			Cart:     handlers.NewCartHandler(cartService, cfg),
			Order:    handlers.NewOrderHandler(orderService, confirmer),
			Invoice:  handlers.NewInvoiceHandler(invoiceService),
			Checkout: handlers.NewCheckoutHandler(checkoutService, confirmer, cfg),
		},
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"gateway": gateway.Name(),
		"driver":  cfg.Database.Driver,
	}).Info("Storefront wired")

	return &App{Server: server, Dispatcher: dispatcher}, nil
}

// NewGateway uses Stripe when a secret key is configured and the offline
// gateway otherwise
func NewGateway(cfg *config.Config, logger *logrus.Logger) (payment.Gateway, error) {
	if cfg.External.Stripe.SecretKey == "" {
		logger.Warn("Stripe is not configured, using the offline payment gateway")
		return payment.NewOfflineGateway(logger), nil
	}

	gw, err := payment.NewStripeGateway(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe gateway: %w", err)
	}
	return gw, nil
}

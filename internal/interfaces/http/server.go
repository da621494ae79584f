// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
	"github.com/your-org/storefront/internal/interfaces/http/views"
)

// HealthCheck probes one backing service
type HealthCheck func(ctx context.Context) error

// Dependencies are the collaborators the server is wired with
type Dependencies struct {
	Sessions middleware.SessionResolver
	Limiter  middleware.Limiter
	Handlers routes.Handlers
	Checks   map[string]HealthCheck
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	deps       Dependencies
	startedAt  time.Time
}

// NewServer builds the engine with all middleware and routes
func NewServer(cfg *config.Config, logger *logrus.Logger, deps Dependencies) (*Server, error) {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		gin:       gin.New(),
		deps:      deps,
		startedAt: time.Now(),
	}

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.gin.SetHTMLTemplate(tmpl)
	s.gin.MaxMultipartMemory = cfg.Upload.MaxSize

	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	handlers.RegisterFormValidation()

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// Handler exposes the engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Infof("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	s.logger.Infof("🌐 Storefront URL: %s", s.config.App.BaseURL)
	s.logger.Infof("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.logger))

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders())

	// Rate limiting middleware
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.deps.Limiter, s.logger))

	// Uploads plus the rest of the form
	s.gin.Use(middleware.RequestSizeLimit(s.config.Upload.MaxSize + 1<<20))

	s.gin.Use(middleware.Timeout(s.config.Server.WriteTimeout))

	// Terminal error handling for errors pushed by handlers
	s.gin.Use(middleware.ErrorHandler(s.logger))

	s.gin.Use(middleware.Session(s.config, s.deps.Sessions, s.logger))
	s.gin.Use(middleware.CSRF(s.config))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoints (no auth required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	s.gin.StaticFS("/public", views.Static())
	s.gin.Static("/uploads", filepath.Join(s.config.External.Storage.PublicDir, "uploads"))

	routes.SetupRoutes(s.gin, s.deps.Handlers, s.config)

	s.gin.NoRoute(handlers.NotFound)
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			s.logger.WithError(err).WithField("check", name).Warn("Health check failed")
			checks[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":      overall,
		"checks":      checks,
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/infrastructure/database/mongodb"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/database/seed"
	httpserver "github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.New(cfg)
	lg.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	backends, closers, err := openBackends(cfg, lg)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				lg.WithError(err).Warn("Failed to close backend")
			}
		}
	}()
	if err != nil {
		lg.WithError(err).Fatal("Failed to open storage backends")
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		seeder := seed.New(backends.Users, backends.Products, auth.NewPasswordManager(cfg), lg)
		if err := seeder.Run(context.Background()); err != nil {
			lg.WithError(err).Warn("Data seeding failed")
		}
	}

	storefront, err := app.New(cfg, lg, backends)
	if err != nil {
		lg.WithError(err).Fatal("Failed to build storefront")
	}

	lg.Info("✅ All systems operational!")

	// Start server in a goroutine
	go func() {
		if err := storefront.Server.Start(); err != nil {
			lg.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	lg.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := storefront.Server.Stop(ctx); err != nil {
		lg.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	if err := storefront.Dispatcher.Wait(ctx); err != nil {
		lg.WithError(err).Warn("Pending emails were abandoned")
	}

	lg.Info("✅ Server shutdown completed")
}

// openBackends connects the configured database and the session store.
// Closers are returned even on error so partial setups are released.
func openBackends(cfg *config.Config, lg *logrus.Logger) (app.Backends, []io.Closer, error) {
	var (
		b       app.Backends
		closers []io.Closer
	)
	b.Checks = map[string]httpserver.HealthCheck{}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConnection(cfg, lg)
		if err != nil {
			return b, closers, err
		}
		closers = append(closers, db)

		if err := db.Health(); err != nil {
			return b, closers, fmt.Errorf("database health check failed: %w", err)
		}

		// Run database migrations
		migration := postgres.NewMigration(db.GetDB(), lg)
		if err := migration.RunAutoMigrations(); err != nil {
			return b, closers, fmt.Errorf("database migration failed: %w", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			lg.WithError(err).Warn("Index creation failed")
		}

		b.Users = postgres.NewUserRepository(db.GetDB())
		b.Products = postgres.NewProductRepository(db.GetDB())
		b.Orders = postgres.NewOrderRepository(db.GetDB())
		b.Checks["database"] = func(context.Context) error { return db.Health() }

	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := mongodb.Connect(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase, lg)
		if err != nil {
			return b, closers, err
		}
		closers = append(closers, db)

		if err := db.CreateIndexes(ctx); err != nil {
			lg.WithError(err).Warn("Index creation failed")
		}

		b.Users = mongodb.NewUserRepository(db)
		b.Products = mongodb.NewProductRepository(db)
		b.Orders = mongodb.NewOrderRepository(db)
		b.Checks["database"] = func(context.Context) error { return db.Health() }

	case config.DriverMemory:
		store := memory.NewStore()
		b.Users = store.Users()
		b.Products = store.Products()
		b.Orders = store.Orders()

	default:
		return b, closers, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	if !cfg.UsesRedis() {
		lg.Warn("Redis is not configured, sessions are kept in memory")
		b.Sessions = memory.NewSessionStore()
		b.Checkouts = memory.NewCheckoutStore()
		b.Limiter = memory.NewRateLimiter()
		return b, closers, nil
	}

	// Connect to Redis
	rc, err := redis.NewConnection(cfg, lg)
	if err != nil {
		return b, closers, err
	}
	closers = append(closers, rc)

	if err := rc.Health(); err != nil {
		return b, closers, fmt.Errorf("redis health check failed: %w", err)
	}

	b.Sessions = redis.NewSessionStore(rc.GetClient())
	b.Checkouts = redis.NewCheckoutStore(rc.GetClient())
	b.Limiter = redis.NewRateLimiter(rc.GetClient())
	b.Checks["redis"] = func(context.Context) error { return rc.Health() }

	return b, closers, nil
}

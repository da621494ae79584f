// internal/infrastructure/database/seed/seed.go
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
)

// DemoEmail and DemoPassword log into the seeded development account
const (
	DemoEmail    = "test@example.com"
	DemoPassword = "test123"
)

// PasswordHasher hashes the demo password
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Seeder inserts development data through the domain repositories, so the
// same data lands in every database driver.
type Seeder struct {
	users     user.Repository
	products  product.Repository
	passwords PasswordHasher
	logger    *logrus.Logger
}

// New creates a new seeder
func New(users user.Repository, products product.Repository, passwords PasswordHasher, logger *logrus.Logger) *Seeder {
	return &Seeder{users: users, products: products, passwords: passwords, logger: logger}
}

// Run seeds the demo user and sample products. Existing data is left alone.
func (s *Seeder) Run(ctx context.Context) error {
	s.logger.Info("🌱 Seeding initial data...")

	owner, err := s.seedDemoUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	if err := s.seedProducts(ctx, owner.ID); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	s.logger.Info("✅ Initial data seeded successfully")
	return nil
}

func (s *Seeder) seedDemoUser(ctx context.Context) (*user.User, error) {
	existing, err := s.users.FindByEmail(ctx, DemoEmail)
	if err == nil {
		s.logger.WithField("user_id", existing.ID).Info("⏭️ Demo user already exists")
		return existing, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, err := s.passwords.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        DemoEmail,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithField("email", DemoEmail).Info("✅ Created demo user")
	return u, nil
}

func (s *Seeder) seedProducts(ctx context.Context, ownerID string) error {
	_, total, err := s.products.List(ctx, 0, 1)
	if err != nil {
		return err
	}
	if total > 0 {
		s.logger.WithField("count", total).Info("⏭️ Products already exist")
		return nil
	}

	samples := []product.Product{
		{
			Title:       "Wireless Gaming Mouse",
			Price:       7999,
			Description: "Ergonomic wireless mouse with a high-precision sensor and customizable buttons.",
			ImageURL:    "/images/mouse.png",
		},
		{
			Title:       "Noise-Cancelling Headphones",
			Price:       15999,
			Description: "Wireless headphones with active noise cancellation and long battery life.",
			ImageURL:    "/images/headphones.png",
		},
		{
			Title:       "Mechanical Keyboard",
			Price:       8999,
			Description: "Tenkeyless keyboard with hot-swappable switches.",
			ImageURL:    "/images/keyboard.png",
		},
	}

	base := time.Now().UTC()
	for i := range samples {
		p := samples[i]
		p.ID = uuid.NewString()
		p.UserID = ownerID
		p.CreatedAt = base.Add(time.Duration(i) * time.Second)
		p.UpdatedAt = p.CreatedAt
		if err := s.products.Create(ctx, &p); err != nil {
			s.logger.WithError(err).WithField("title", p.Title).Warn("⚠️ Failed to create sample product")
			continue
		}
		s.logger.WithField("title", p.Title).Info("✅ Created sample product")
	}

	return nil
}

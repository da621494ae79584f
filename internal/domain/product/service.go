// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/money"
	"github.com/your-org/storefront/internal/pkg/pagination"
)

// ErrNotOwner is returned when a user edits a product they did not create
var ErrNotOwner = apperror.Unauthorized("product belongs to another user")

// ImageRemover deletes a stored product image
type ImageRemover interface {
	DeleteFile(publicPath string) error
}

// Service handles product business logic
type Service struct {
	repo   Repository
	images ImageRemover
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new product service
func NewService(repo Repository, images ImageRemover, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// Input is the editable part of a product
type Input struct {
	Title       string
	Price       int64
	Description string
	ImageURL    string
}

// Validate checks the field rules shared by add and edit
func (in Input) Validate() error {
	if len(strings.TrimSpace(in.Title)) < 3 {
		return apperror.FieldValidation("title", "Title must be at least 3 characters long.")
	}
	if in.Price < 0 {
		return apperror.FieldValidation("price", "Price must be a positive number.")
	}
	if in.Price > money.MaxAmount {
		return apperror.FieldValidation("price", "Price must be at most "+money.Format(money.MaxAmount)+".")
	}
	if len(strings.TrimSpace(in.Description)) < 5 {
		return apperror.FieldValidation("description", "Description must be at least 5 characters long.")
	}
	return nil
}

// Listing is one page of products
type Listing struct {
	Products []Product
	Page     pagination.Page
}

// List returns a page of the whole catalog
func (s *Service) List(ctx context.Context, page int) (*Listing, error) {
	products, total, err := s.repo.List(ctx, pagination.Offset(page), pagination.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &Listing{Products: products, Page: pagination.New(page, total)}, nil
}

// ListByOwner returns a page of the products created by userID
func (s *Service) ListByOwner(ctx context.Context, userID string, page int) (*Listing, error) {
	products, total, err := s.repo.ListByUser(ctx, userID, pagination.Offset(page), pagination.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for user: %w", err)
	}
	return &Listing{Products: products, Page: pagination.New(page, total)}, nil
}

// Get returns a single product
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// GetOwned returns a product only if userID owns it
func (s *Service) GetOwned(ctx context.Context, userID, id string) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return p, nil
}

// Create adds a product owned by userID
func (s *Service) Create(ctx context.Context, userID string, in Input) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ImageURL == "" {
		return nil, apperror.FieldValidation("image", "Attached file is not an image.")
	}

	now := s.now().UTC()
	p := &Product{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": p.ID,
		"user_id":    userID,
	}).Info("Product created")

	return p, nil
}

// Update edits a product owned by userID. A new ImageURL replaces the
// stored image and the previous file is removed.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*Product, error) {
	p, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	oldImage := ""
	if in.ImageURL != "" && in.ImageURL != p.ImageURL {
		oldImage = p.ImageURL
		p.ImageURL = in.ImageURL
	}
	p.Title = strings.TrimSpace(in.Title)
	p.Price = in.Price
	p.Description = strings.TrimSpace(in.Description)
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if oldImage != "" {
		s.removeImage(oldImage)
	}

	return p, nil
}

// Delete removes a product owned by userID together with its image
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	p, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.removeImage(p.ImageURL)

	s.logger.WithFields(logrus.Fields{
		"product_id": p.ID,
		"user_id":    userID,
	}).Info("Product deleted")

	return nil
}

func (s *Service) removeImage(path string) {
	if s.images == nil || path == "" {
		return
	}
	if err := s.images.DeleteFile(path); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("Failed to delete product image")
	}
}

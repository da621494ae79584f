// internal/domain/invoice/service.go
package invoice

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/order"
)

// OrderFinder loads persisted orders
type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*order.Order, error)
}

// Renderer turns an order into a PDF document
type Renderer interface {
	Generate(o *order.Order) ([]byte, error)
}

// Service produces invoices for orders
type Service struct {
	orders   OrderFinder
	renderer Renderer
	dir      string
	logger   *logrus.Logger
}

// NewService creates a new invoice service writing copies into dir
func NewService(orders OrderFinder, renderer Renderer, dir string, logger *logrus.Logger) *Service {
	return &Service{
		orders:   orders,
		renderer: renderer,
		dir:      dir,
		logger:   logger,
	}
}

// Filename returns the stored file name for an order's invoice
func Filename(orderID string) string {
	return "invoice-" + orderID + ".pdf"
}

// Write renders the invoice for orderID and streams it to w while saving a
// copy under the invoice directory. Only the user who placed the order may
// read it.
func (s *Service) Write(ctx context.Context, orderID, requesterID string, w io.Writer) (string, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("failed to find order: %w", err)
	}
	if !o.PlacedBy(requesterID) {
		s.logger.WithFields(logrus.Fields{
			"order_id":     orderID,
			"requester_id": requesterID,
		}).Warn("Invoice requested by non-owner")
		return "", order.ErrNotOwner
	}

	doc, err := s.renderer.Generate(o)
	if err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice directory: %w", err)
	}

	filename := Filename(o.ID)
	file, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create invoice file: %w", err)
	}
	defer file.Close()

	if _, err := io.MultiWriter(file, w).Write(doc); err != nil {
		return "", fmt.Errorf("failed to write invoice: %w", err)
	}

	return filename, nil
}

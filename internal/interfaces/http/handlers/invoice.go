// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/invoice"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoice downloads
type InvoiceHandler struct {
	invoiceService *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// pdfResponse sets the PDF headers on the first write, so a failure before
// any bytes are produced can still be rendered as an error page
type pdfResponse struct {
	c        *gin.Context
	filename string
	started  bool
}

func (w *pdfResponse) Write(p []byte) (int, error) {
	if !w.started {
		w.started = true
		w.c.Header("Content-Type", "application/pdf")
		w.c.Header("Content-Disposition", "inline; filename="+w.filename)
		w.c.Status(http.StatusOK)
	}
	return w.c.Writer.Write(p)
}

// GetInvoice handles GET /orders/:orderId
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	orderID := c.Param("orderId")

	w := &pdfResponse{c: c, filename: invoice.Filename(orderID)}
	if _, err := h.invoiceService.Write(c.Request.Context(), orderID, userID, w); err != nil {
		fail(c, err)
		return
	}
}

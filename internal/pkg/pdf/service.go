// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/pkg/money"
)

// Converter turns an HTML document into PDF bytes
type Converter interface {
	Convert(html []byte) ([]byte, error)
}

// Generator renders invoices to PDF
type Generator struct {
	converter Converter
}

// NewGenerator creates a PDF generator backed by wkhtmltopdf
func NewGenerator() *Generator {
	return NewGeneratorWithConverter(WkhtmltopdfConverter{})
}

// NewGeneratorWithConverter creates a PDF generator with a custom converter
func NewGeneratorWithConverter(c Converter) *Generator {
	return &Generator{converter: c}
}

// Generate renders the invoice for o as a PDF
func (g *Generator) Generate(o *order.Order) ([]byte, error) {
	html, err := RenderInvoiceHTML(o)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := g.converter.Convert(html)
	if err != nil {
		return nil, fmt.Errorf("failed to convert invoice to PDF: %w", err)
	}

	return pdfBytes, nil
}

// InvoiceLine is one rendered product line
type InvoiceLine struct {
	Title    string
	Quantity int
	Price    string
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	OrderID string
	Lines   []InvoiceLine
	Total   string
}

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// RenderInvoiceHTML renders the invoice body. The output depends only on
// the order, so the same order always renders the same bytes.
func RenderInvoiceHTML(o *order.Order) ([]byte, error) {
	data := InvoiceData{
		OrderID: o.ID,
		Total:   money.Format(o.Total()),
	}
	for _, li := range o.Products {
		data.Lines = append(data.Lines, InvoiceLine{
			Title:    li.Product.Title,
			Quantity: li.Quantity,
			Price:    money.Format(li.Product.Price),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.Bytes(), nil
}

// WkhtmltopdfConverter shells out to the wkhtmltopdf binary
type WkhtmltopdfConverter struct{}

// Convert renders html with wkhtmltopdf
func (WkhtmltopdfConverter) Convert(html []byte) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// Set PDF options
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice #{{.OrderID}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        h1 { font-size: 26px; text-decoration: underline; }
        .line { font-size: 14px; margin: 4px 0; }
        .total { font-size: 20px; margin-top: 12px; }
    </style>
</head>
<body>
    <h1>Invoice #{{.OrderID}}</h1>
    <p>-----------------------</p>
{{- range .Lines}}
    <p class="line">{{.Title}} - {{.Quantity}} x {{.Price}}</p>
{{- end}}
    <p>-----------------------</p>
    <p class="total">Total Price: {{.Total}}</p>
</body>
</html>
`

package pdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/order"
)

type recordingConverter struct {
	html []byte
	err  error
}

func (c *recordingConverter) Convert(html []byte) ([]byte, error) {
	c.html = html
	if c.err != nil {
		return nil, c.err
	}
	return append([]byte("%PDF-"), html...), nil
}

func widgetOrder() *order.Order {
	return &order.Order{
		ID: "o-1",
		Products: []order.LineItem{
			{Product: order.ProductSnapshot{Title: "Widget", Price: 999}, Quantity: 2},
		},
		User: order.Customer{Email: "a@x.io", UserID: "u-1"},
	}
}

func TestRenderInvoiceHTML_Lines(t *testing.T) {
	html, err := RenderInvoiceHTML(widgetOrder())
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Invoice #o-1")
	assert.Contains(t, body, "Widget - 2 x $9.99")
	assert.Contains(t, body, "Total Price: $19.98")
}

func TestRenderInvoiceHTML_Deterministic(t *testing.T) {
	first, err := RenderInvoiceHTML(widgetOrder())
	require.NoError(t, err)
	second, err := RenderInvoiceHTML(widgetOrder())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderInvoiceHTML_EscapesTitles(t *testing.T) {
	o := widgetOrder()
	o.Products[0].Product.Title = "<script>x</script>"

	html, err := RenderInvoiceHTML(o)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>x</script>")
}

func TestGenerator_UsesConverter(t *testing.T) {
	conv := &recordingConverter{}
	g := NewGeneratorWithConverter(conv)

	out, err := g.Generate(widgetOrder())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(out[:5]))
	assert.Contains(t, string(conv.html), "Total Price: $19.98")

	conv.err = errors.New("wkhtmltopdf missing")
	_, err = g.Generate(widgetOrder())
	assert.ErrorContains(t, err, "wkhtmltopdf missing")
}

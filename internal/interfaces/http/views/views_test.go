package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/pkg/pagination"
)

func baseData(path string) map[string]interface{} {
	return map[string]interface{}{
		"pageTitle":        "Shop",
		"path":             path,
		"isAuthenticated":  true,
		"csrfToken":        "tok",
		"oldInput":         map[string]string{},
		"validationErrors": map[string]string{},
	}
}

func TestTemplates_ParseAllPages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "product-detail.html", "cart.html", "checkout.html", "orders.html",
		"login.html", "signup.html", "reset.html", "new-password.html", "account.html",
		"admin-products.html", "edit-product.html", "404.html", "500.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplates_IndexRendersProductsAndPagination(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	data := baseData("/")
	data["products"] = []product.Product{{ID: "p-1", Title: "Widget", Price: 999, Description: "A widget", ImageURL: "/uploads/images/w.png"}}
	data["page"] = pagination.New(1, 7)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "index.html", data))

	html := buf.String()
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "$9.99")
	assert.Contains(t, html, `name="productId" value="p-1"`)
	assert.Contains(t, html, `href="?page=2"`)
	assert.Contains(t, html, "Logout")
}

func TestTemplates_OrdersAndLoginErrors(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	data := baseData("/orders")
	data["orders"] = []order.Order{{
		ID:        "o-1",
		Products:  []order.LineItem{{Product: order.ProductSnapshot{Title: "Widget", Price: 999}, Quantity: 2}},
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "orders.html", data))
	assert.Contains(t, buf.String(), `href="/orders/o-1"`)
	assert.Contains(t, buf.String(), "$19.98")

	login := baseData("/login")
	login["isAuthenticated"] = false
	login["errorMessage"] = "Invalid email or password."
	login["oldInput"] = map[string]string{"email": "a@b.com"}
	login["validationErrors"] = map[string]string{"email": "Invalid email or password."}

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "login.html", login))
	assert.Contains(t, buf.String(), "Invalid email or password.")
	assert.Contains(t, buf.String(), `class="invalid"`)
	assert.Contains(t, buf.String(), `value="a@b.com"`)
}

func TestStatic_ServesStylesheet(t *testing.T) {
	f, err := Static().Open("/css/main.css")
	require.NoError(t, err)
	defer f.Close()
}

// internal/interfaces/http/views/views.go
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/your-org/storefront/internal/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are the helpers available to every page
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": money.Format,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"fieldError": func(errs map[string]string, field string) bool {
			_, ok := errs[field]
			return ok
		},
		"cartForm": func(csrfToken, productID string) map[string]string {
			return map[string]string{"csrfToken": csrfToken, "productID": productID}
		},
	}
}

// Templates parses every page. Pages are addressed by file name, e.g.
// "cart.html", and share the header and footer defined in layout.html.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the stylesheet and scripts under /public
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

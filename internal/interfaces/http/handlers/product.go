// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/upload"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/money"
	"github.com/your-org/storefront/internal/pkg/pagination"
)

// ProductHandler handles the catalog and the owner's product admin pages
type ProductHandler struct {
	productService *product.Service
	uploadService  *upload.Service
	logger         *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, uploadService *upload.Service, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		uploadService:  uploadService,
		logger:         logger,
	}
}

type productForm struct {
	ProductID   string `form:"productId"`
	Title       string `form:"title" binding:"required,min=3"`
	Price       string `form:"price" binding:"required"`
	Description string `form:"description" binding:"required,min=5"`
}

// GetIndex handles GET /
func (h *ProductHandler) GetIndex(c *gin.Context) {
	h.listCatalog(c, "index.html", "Shop", "/")
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	h.listCatalog(c, "index.html", "All Products", "/products")
}

func (h *ProductHandler) listCatalog(c *gin.Context, name, title, path string) {
	listing, err := h.productService.List(c.Request.Context(), pagination.Parse(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, name, title, path, gin.H{
		"products": listing.Products,
		"page":     listing.Page,
	})
}

// GetProduct handles GET /products/:productId
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.productService.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, "product-detail.html", p.Title, "/products", gin.H{
		"product": p,
	})
}

// AdminGetProducts handles GET /admin/products
func (h *ProductHandler) AdminGetProducts(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	listing, err := h.productService.ListByOwner(c.Request.Context(), userID, pagination.Parse(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, "admin-products.html", "Admin Products", "/admin/products", gin.H{
		"products": listing.Products,
		"page":     listing.Page,
	})
}

// AdminGetAddProduct handles GET /admin/add-product
func (h *ProductHandler) AdminGetAddProduct(c *gin.Context) {
	render(c, "edit-product.html", "Add Product", "/admin/add-product", gin.H{
		"editing": false,
		"product": map[string]string{},
	})
}

// AdminPostAddProduct handles POST /admin/add-product
func (h *ProductHandler) AdminPostAddProduct(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var form productForm
	in, err := h.bindProduct(c, &form)
	if err != nil {
		h.renderProductForm(c, false, form, err)
		return
	}

	in.ImageURL, err = h.saveImage(c)
	if err != nil {
		h.renderProductForm(c, false, form, err)
		return
	}

	if _, err := h.productService.Create(c.Request.Context(), userID, in); err != nil {
		h.discardImage(in.ImageURL)
		h.renderProductForm(c, false, form, err)
		return
	}

	c.Redirect(http.StatusFound, "/admin/products")
}

// AdminGetEditProduct handles GET /admin/edit-product/:productId?edit=true
func (h *ProductHandler) AdminGetEditProduct(c *gin.Context) {
	if c.Query("edit") != "true" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	p, err := h.productService.GetOwned(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, "edit-product.html", "Edit Product", "/admin/edit-product", gin.H{
		"editing": true,
		"product": map[string]string{
			"id":          p.ID,
			"title":       p.Title,
			"price":       p.PriceDecimal(),
			"description": p.Description,
		},
	})
}

// AdminPostEditProduct handles POST /admin/edit-product. The image is
// optional; a new one replaces the stored file.
func (h *ProductHandler) AdminPostEditProduct(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var form productForm
	in, err := h.bindProduct(c, &form)
	if err != nil {
		h.renderProductForm(c, true, form, err)
		return
	}

	if _, ferr := c.FormFile("image"); ferr == nil {
		in.ImageURL, err = h.saveImage(c)
		if err != nil {
			h.renderProductForm(c, true, form, err)
			return
		}
	}

	if _, err := h.productService.Update(c.Request.Context(), userID, form.ProductID, in); err != nil {
		h.discardImage(in.ImageURL)
		h.renderProductForm(c, true, form, err)
		return
	}

	c.Redirect(http.StatusFound, "/admin/products")
}

// AdminDeleteProduct handles DELETE /admin/product/:productId
func (h *ProductHandler) AdminDeleteProduct(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.productService.Delete(c.Request.Context(), userID, c.Param("productId")); err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindNotFound, apperror.KindUnauthorized:
			c.JSON(http.StatusNotFound, gin.H{"message": "Deleting product failed!"})
		default:
			h.logger.WithError(err).Error("Failed to delete product")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Deleting product failed!"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success!"})
}

func (h *ProductHandler) bindProduct(c *gin.Context, form *productForm) (product.Input, error) {
	if err := c.ShouldBind(form); err != nil {
		return product.Input{}, err
	}

	price, err := money.Parse(form.Price)
	if err != nil {
		return product.Input{}, apperror.FieldValidation("price", "Price must be a positive number.")
	}

	in := product.Input{
		Title:       form.Title,
		Price:       price,
		Description: form.Description,
	}
	return in, in.Validate()
}

func (h *ProductHandler) saveImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", upload.ErrNotAnImage
	}
	return h.uploadService.SaveImage(header)
}

// discardImage removes an image saved for a product that was not stored
func (h *ProductHandler) discardImage(path string) {
	if path == "" {
		return
	}
	if err := h.uploadService.DeleteFile(path); err != nil {
		h.logger.WithError(err).WithField("path", path).Warn("Failed to discard uploaded image")
	}
}

// renderProductForm re-renders the product form for validation failures and
// hands anything else to the error middleware
func (h *ProductHandler) renderProductForm(c *gin.Context, editing bool, form productForm, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) && !apperror.Is(err, apperror.KindValidation) {
		fail(c, err)
		return
	}

	title, path := "Add Product", "/admin/add-product"
	if editing {
		title, path = "Edit Product", "/admin/edit-product"
	}

	renderInvalid(c, "edit-product.html", title, path, err, gin.H{
		"editing": editing,
		"product": map[string]string{
			"id":          form.ProductID,
			"title":       form.Title,
			"price":       form.Price,
			"description": form.Description,
		},
	})
}

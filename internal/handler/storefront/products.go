package storefront

import (
	"net/http"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// ProductHandler serves the public catalog
type ProductHandler struct {
	catalog service.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /products
// Query: category, sort (createdAt|price|name), order (asc|desc), featured, limit, page
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.ProductQuery{
		Category: domain.Category(q.Get("category")),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Featured: q.Get("featured") == "true",
		Limit:    handler.QueryInt(r, "limit", 0),
		Page:     handler.QueryInt(r, "page", 0),
	}
	if query.Category != "" && !query.Category.Valid() {
		handler.ErrorResponse(w, r, domain.Invalid("products.list", "Unknown category"))
		return
	}

	page, err := h.catalog.List(r.Context(), query)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, page)
}

// Featured handles GET /products/featured
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Featured(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, products)
}

// Show handles GET /products/{id}
func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, product)
}

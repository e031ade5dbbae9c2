package admin

import (
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// ProductHandler handles admin product management
type ProductHandler struct {
	admin service.AdminService
}

// NewProductHandler creates a new product handler
func NewProductHandler(admin service.AdminService) *ProductHandler {
	return &ProductHandler{admin: admin}
}

// Create handles POST /dashboard/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, images, cleanup, err := parseProductForm(r)
	defer cleanup()
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.admin.CreateProduct(r.Context(), f, images)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, r, product)
}

// Update handles PATCH /dashboard/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	f, images, cleanup, err := parseProductForm(r)
	defer cleanup()
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.admin.UpdateProduct(r.Context(), r.PathValue("id"), f, images)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, product)
}

// Delete handles DELETE /dashboard/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, map[string]string{"id": r.PathValue("id")})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDelete handles POST /dashboard/products/bulk-delete
func (h *ProductHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.admin.BulkDeleteProducts(r.Context(), req.IDs); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, map[string]int{"deleted": len(req.IDs)})
}

// parseProductForm reads the product form either as multipart form data
// (fields plus "images" files) or as a plain JSON body without images.
// The returned cleanup closes opened files and removes temporary ones; it
// is safe to call whatever the error.
func parseProductForm(r *http.Request) (form.Product, []api.Upload, func(), error) {
	var f form.Product
	cleanup := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		err := handler.DecodeJSON(r, &f)
		return f, nil, cleanup, err
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return f, nil, cleanup, domain.Invalid("admin.product_form", "Invalid form data")
	}
	cleanup = func() { r.MultipartForm.RemoveAll() }

	const op = "admin.product_form"
	var verr error
	values := r.MultipartForm.Value

	f.Name = first(values, "name")
	f.Description = first(values, "description")
	f.Category = domain.Category(first(values, "category"))
	f.Featured, _ = strconv.ParseBool(first(values, "featured"))

	if raw := first(values, "price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			verr = domain.AddFieldError(verr, "price", "Price must be greater than 0")
		}
		f.Price = price
	}

	jsonFields := []struct {
		name string
		into any
	}{
		{"colors", &f.Colors},
		{"sizes", &f.Sizes},
		{"existingImages", &f.ExistingImages},
	}
	for _, fld := range jsonFields {
		raw := first(values, fld.name)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), fld.into); err != nil {
			verr = domain.AddFieldError(verr, fld.name, "Must be a JSON array")
		}
	}
	if verr != nil {
		if ve, ok := verr.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return f, nil, cleanup, verr
	}

	headers := r.MultipartForm.File["images"]
	images := make([]api.Upload, 0, len(headers))
	var opened []multipart.File
	cleanup = func() {
		for _, file := range opened {
			file.Close()
		}
		r.MultipartForm.RemoveAll()
	}
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			return f, nil, cleanup, domain.Internal(err, op, "failed to open upload")
		}
		opened = append(opened, file)
		images = append(images, api.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     file,
		})
	}
	return f, images, cleanup, nil
}

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

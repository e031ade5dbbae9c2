package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/shopspring/decimal"
)

// Upload is one image file forwarded to the backend.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ProductForm is the admin product payload. It travels as multipart form
// data so images can ride along.
type ProductForm struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	Category       domain.Category
	Featured       bool
	Colors         []string
	Sizes          []domain.Size
	ExistingImages []string
	Images         []Upload
}

// AdminProductsAPI manages the catalog. Admin only.
type AdminProductsAPI struct{ c *Client }

func (a *AdminProductsAPI) Create(ctx context.Context, f ProductForm) (domain.Product, error) {
	return a.send(ctx, "create", http.MethodPost, "/products", f)
}

func (a *AdminProductsAPI) Update(ctx context.Context, id string, f ProductForm) (domain.Product, error) {
	return a.send(ctx, "update", http.MethodPatch, "/products/"+url.PathEscape(id), f)
}

func (a *AdminProductsAPI) Delete(ctx context.Context, id string) error {
	return a.c.sendJSON(ctx, "admin_products", "delete", http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// BulkDelete removes several products in one call.
func (a *AdminProductsAPI) BulkDelete(ctx context.Context, ids []string) error {
	body := struct {
		Operation string   `json:"operation"`
		IDs       []string `json:"ids"`
	}{Operation: "delete", IDs: ids}
	return a.c.sendJSON(ctx, "admin_products", "bulk_delete", http.MethodPost, "/products/bulk", body, nil)
}

func (a *AdminProductsAPI) send(ctx context.Context, op, method, path string, f ProductForm) (domain.Product, error) {
	body, contentType, err := encodeProductForm(f)
	if err != nil {
		return domain.Product{}, domain.Internal(err, "api.admin_products."+op, "failed to encode product")
	}
	var out domain.Product
	err = a.c.do(ctx, call{
		group:       "admin_products",
		op:          op,
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
	}, &out)
	return out, err
}

func encodeProductForm(f ProductForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", f.Name},
		{"description", f.Description},
		{"price", f.Price.String()},
		{"category", string(f.Category)},
		{"featured", strconv.FormatBool(f.Featured)},
	}
	for _, fld := range fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}

	jsonFields := []struct {
		name  string
		value any
	}{
		{"colors", nonNil(f.Colors)},
		{"sizes", nonNilSizes(f.Sizes)},
		{"existingImages", nonNil(f.ExistingImages)},
	}
	for _, fld := range jsonFields {
		raw, err := json.Marshal(fld.value)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", fld.name, err)
		}
		if err := w.WriteField(fld.name, string(raw)); err != nil {
			return nil, "", err
		}
	}

	for _, img := range f.Images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		ct := img.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return nil, "", fmt.Errorf("image %s: %w", img.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilSizes(s []domain.Size) []domain.Size {
	if s == nil {
		return []domain.Size{}
	}
	return s
}

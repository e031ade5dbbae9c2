package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dukerupert/stride/internal/domain"
)

// ProductsAPI reads the public catalog.
type ProductsAPI struct{ c *Client }

// List returns one page of products matching q.
func (a *ProductsAPI) List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	var page domain.ProductPage
	err := a.c.getJSON(ctx, "products", "list", "/products", productParams(q), &page)
	return page, err
}

// Get fetches one product. An unknown id is ENOTFOUND.
func (a *ProductsAPI) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := a.c.getJSON(ctx, "products", "get", "/products/"+url.PathEscape(id), nil, &p)
	return p, err
}

// Featured returns up to eight featured products.
func (a *ProductsAPI) Featured(ctx context.Context) ([]domain.Product, error) {
	var page domain.ProductPage
	q := domain.ProductQuery{Featured: true, Limit: 8}
	if err := a.c.getJSON(ctx, "products", "featured", "/products", productParams(q), &page); err != nil {
		return nil, err
	}
	return page.Products, nil
}

func productParams(q domain.ProductQuery) url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", string(q.Category))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

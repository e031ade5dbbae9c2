package storefront

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/service"
)

func TestProductHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockErr        error
		expectedStatus int
		expectedQuery  *domain.ProductQuery
	}{
		{
			name:           "passes filters through",
			target:         "/products?category=footwear&sort=price&order=asc&featured=true&limit=12&page=2",
			expectedStatus: http.StatusOK,
			expectedQuery: &domain.ProductQuery{
				Category: domain.CategoryFootwear,
				Sort:     "price",
				Order:    "asc",
				Featured: true,
				Limit:    12,
				Page:     2,
			},
		},
		{
			name:           "no filters",
			target:         "/products",
			expectedStatus: http.StatusOK,
			expectedQuery:  &domain.ProductQuery{},
		},
		{
			name:           "unknown category rejected",
			target:         "/products?category=hats",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "backend down",
			target:         "/products",
			mockErr:        domain.Errorf(domain.EUNAVAILABLE, "api.products.list", ""),
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *domain.ProductQuery
			h := NewProductHandler(&mockCatalogService{
				listFunc: func(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
					got = &q
					return domain.ProductPage{Products: []domain.Product{{ID: "p1", Name: "Runner"}}}, tt.mockErr
				},
			})

			res := serve(t, "GET /products", h.List, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.expectedStatus, res.Status)
			if tt.expectedQuery != nil {
				require.NotNil(t, got)
				assert.Equal(t, *tt.expectedQuery, *got)
				assert.Contains(t, string(res.Data), `"Runner"`)
			}
		})
	}
}

func TestProductHandler_Show(t *testing.T) {
	h := NewProductHandler(&mockCatalogService{
		getFunc: func(ctx context.Context, id string) (domain.Product, error) {
			if id == "p1" {
				return domain.Product{ID: "p1", Name: "Runner"}, nil
			}
			return domain.Product{}, service.ErrProductNotFound
		},
	})

	res := serve(t, "GET /products/{id}", h.Show, http.MethodGet, "/products/p1", "")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `"p1"`, string(mustField(t, res.Data, "_id")))

	res = serve(t, "GET /products/{id}", h.Show, http.MethodGet, "/products/nope", "")
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, domain.ENOTFOUND, res.Error.Code)
}

func TestProductHandler_Featured(t *testing.T) {
	h := NewProductHandler(&mockCatalogService{
		featuredFunc: func(ctx context.Context) ([]domain.Product, error) {
			return []domain.Product{{ID: "p1"}, {ID: "p2"}}, nil
		},
	})

	res := serve(t, "GET /products/featured", h.Featured, http.MethodGet, "/products/featured", "")
	assert.Equal(t, http.StatusOK, res.Status)

	var products []domain.Product
	require.NoError(t, jsonUnmarshal(res.Data, &products))
	assert.Len(t, products, 2)
}

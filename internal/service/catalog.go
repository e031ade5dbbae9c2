package service

import (
	"context"
	"fmt"

	"github.com/dukerupert/stride/internal/cache"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/telemetry"
)

// CatalogService reads products through the query cache.
type CatalogService interface {
	List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
}

type catalogService struct {
	products ProductsClient
	cache    *cache.Cache
	metrics  *telemetry.BusinessMetrics
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products ProductsClient, c *cache.Cache, metrics *telemetry.BusinessMetrics) CatalogService {
	return &catalogService{products: products, cache: c, metrics: metrics}
}

func (s *catalogService) List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	key := cache.Key{Resource: cache.ResourceProducts, ID: queryKey(q)}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (domain.ProductPage, error) {
		return s.products.List(ctx, q)
	})
}

func (s *catalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, ErrProductNotFound
	}
	key := cache.Key{Resource: cache.ResourceProduct, ID: id}
	p, err := cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (domain.Product, error) {
		return s.products.Get(ctx, id)
	})
	if err != nil {
		return domain.Product{}, notFound(err, ErrProductNotFound)
	}
	s.metrics.ProductViews.WithLabelValues(string(p.Category)).Inc()
	return p, nil
}

func (s *catalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	key := cache.Key{Resource: cache.ResourceFeatured}
	return cache.GetOrLoad(ctx, s.cache, key, s.products.Featured)
}

func queryKey(q domain.ProductQuery) string {
	return fmt.Sprintf("%s|%s|%s|%t|%d|%d", q.Category, q.Sort, q.Order, q.Featured, q.Limit, q.Page)
}

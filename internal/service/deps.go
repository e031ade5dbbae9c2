package service

import (
	"context"

	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/domain"
)

// The store backend, as each service sees it. The call groups of *api.Client
// satisfy these.

type ProductsClient interface {
	List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
}

type OrdersClient interface {
	Create(ctx context.Context, o domain.NewOrder) (domain.Order, error)
	Mine(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, status domain.OrderStatus) (domain.OrderList, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
}

type CustomersClient interface {
	Profile(ctx context.Context) (domain.Customer, error)
	UpdateProfile(ctx context.Context, u domain.ProfileUpdate) (domain.Customer, error)
	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, productID string) error
	AddAddress(ctx context.Context, addr domain.Address) error
	UpdateAddress(ctx context.Context, id string, addr domain.Address) error
	DeleteAddress(ctx context.Context, id string) error
}

type AdminProductsClient interface {
	Create(ctx context.Context, f api.ProductForm) (domain.Product, error)
	Update(ctx context.Context, id string, f api.ProductForm) (domain.Product, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) error
}

type StatsClient interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
	Analytics(ctx context.Context, period string) (domain.Analytics, error)
}

var (
	_ ProductsClient      = (*api.ProductsAPI)(nil)
	_ OrdersClient        = (*api.OrdersAPI)(nil)
	_ CustomersClient     = (*api.CustomersAPI)(nil)
	_ AdminProductsClient = (*api.AdminProductsAPI)(nil)
	_ StatsClient         = (*api.StatsAPI)(nil)
)

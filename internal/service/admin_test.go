package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/form"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService(h *harness, orders *mockOrders, products *mockAdminProducts, stats *mockStats) AdminService {
	return NewAdminService(orders, products, stats, h.cache, h.publisher, h.metrics, h.logger)
}

func TestAdminService_Orders(t *testing.T) {
	h := newHarness(t)
	var filters []domain.OrderStatus
	orders := &mockOrders{
		list: func(ctx context.Context, status domain.OrderStatus) (domain.OrderList, error) {
			filters = append(filters, status)
			return domain.OrderList{Orders: []domain.Order{{ID: "o1", Status: domain.OrderPending}}}, nil
		},
	}
	svc := newAdminService(h, orders, &mockAdminProducts{}, &mockStats{})
	ctx := context.Background()

	_, err := svc.Orders(ctx, "all")
	require.NoError(t, err)
	_, err = svc.Orders(ctx, "")
	require.NoError(t, err)
	_, err = svc.Orders(ctx, "shipped")
	require.NoError(t, err)
	_, err = svc.Orders(ctx, "lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// "all" and "" share a cache entry.
	assert.Equal(t, []domain.OrderStatus{"", domain.OrderShipped}, filters)
}

func TestAdminService_UpdateOrderStatus(t *testing.T) {
	h := newHarness(t)
	var lists atomic.Int32
	orders := &mockOrders{
		list: func(ctx context.Context, status domain.OrderStatus) (domain.OrderList, error) {
			lists.Add(1)
			return domain.OrderList{}, nil
		},
		updateStatus: func(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
			return domain.Order{ID: id, Status: status}, nil
		},
	}
	svc := newAdminService(h, orders, &mockAdminProducts{}, &mockStats{})

	_, err := svc.Orders(context.Background(), "all")
	require.NoError(t, err)

	ctx, flash := withFlash()
	order, err := svc.UpdateOrderStatus(ctx, "o1", form.OrderStatus{Status: domain.OrderShipped})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, order.Status)
	assert.Equal(t, []string{"success: Order status updated"}, messages(flash))
	assert.Equal(t, []string{events.OrderStatusUpdated}, h.publisher.names())

	_, err = svc.Orders(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, int32(2), lists.Load())

	_, err = svc.UpdateOrderStatus(context.Background(), "o1", form.OrderStatus{Status: "lost"})
	assert.NotEmpty(t, domain.GetValidationFields(err))
}

func TestAdminService_UpdateOrderStatusFailure(t *testing.T) {
	h := newHarness(t)
	orders := &mockOrders{
		updateStatus: func(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
			return domain.Order{}, &domain.Error{Code: domain.EUNAVAILABLE}
		},
	}
	svc := newAdminService(h, orders, &mockAdminProducts{}, &mockStats{})
	ctx, flash := withFlash()

	_, err := svc.UpdateOrderStatus(ctx, "o1", form.OrderStatus{Status: domain.OrderShipped})
	require.Error(t, err)
	assert.Equal(t, []string{"error: Failed to update order status"}, messages(flash))
}

func TestAdminService_SaveProduct(t *testing.T) {
	h := newHarness(t)
	var sent api.ProductForm
	products := &mockAdminProducts{
		create: func(ctx context.Context, f api.ProductForm) (domain.Product, error) {
			sent = f
			return domain.Product{ID: "p9", Name: f.Name}, nil
		},
		update: func(ctx context.Context, id string, f api.ProductForm) (domain.Product, error) {
			return domain.Product{}, &domain.Error{Code: domain.EINVALID, Message: "Name already taken"}
		},
	}
	svc := newAdminService(h, &mockOrders{}, products, &mockStats{})
	f := form.Product{
		Name:           "Trail Runner",
		Price:          decimal.RequireFromString("59.99"),
		Category:       domain.CategoryFootwear,
		ExistingImages: []string{"a.jpg"},
	}
	images := []api.Upload{{Filename: "b.jpg", ContentType: "image/jpeg", Content: strings.NewReader("jpeg")}}

	ctx, flash := withFlash()
	p, err := svc.CreateProduct(ctx, f, images)
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ID)
	assert.Equal(t, "Trail Runner", sent.Name)
	assert.Len(t, sent.Images, 1)

	_, err = svc.UpdateProduct(ctx, "p9", f, nil)
	require.Error(t, err)

	assert.Equal(t, []string{
		"success: Product created successfully",
		"error: Name already taken",
	}, messages(flash))
}

func TestAdminService_SaveProductLimitsImages(t *testing.T) {
	h := newHarness(t)
	products := &mockAdminProducts{}
	svc := newAdminService(h, &mockOrders{}, products, &mockStats{})
	f := form.Product{
		Name:           "Trail Runner",
		Price:          decimal.NewFromInt(60),
		Category:       domain.CategoryFootwear,
		ExistingImages: []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg"},
	}
	images := []api.Upload{{Filename: "5.jpg"}, {Filename: "6.jpg"}}

	ctx, flash := withFlash()
	_, err := svc.CreateProduct(ctx, f, images)
	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Equal(t, []string{"error: Maximum 5 images allowed"}, messages(flash))

	_, err = svc.CreateProduct(context.Background(), form.Product{Name: "x", Category: "hats"}, nil)
	assert.Equal(t, map[string]string{
		"price":    "Price must be greater than 0",
		"category": "Please select a valid category",
	}, domain.GetValidationFields(err))
}

func TestAdminService_DeleteProducts(t *testing.T) {
	h := newHarness(t)
	var bulk []string
	products := &mockAdminProducts{
		delete: func(ctx context.Context, id string) error {
			return &domain.Error{Code: domain.EUNAVAILABLE}
		},
		bulkDelete: func(ctx context.Context, ids []string) error {
			bulk = ids
			return nil
		},
	}
	svc := newAdminService(h, &mockOrders{}, products, &mockStats{})

	ctx, flash := withFlash()
	assert.Error(t, svc.DeleteProduct(ctx, "p1"))
	require.NoError(t, svc.BulkDeleteProducts(ctx, []string{"p1", "p2"}))
	assert.ErrorIs(t, svc.BulkDeleteProducts(ctx, nil), ErrNoProductsSelected)

	assert.Equal(t, []string{"p1", "p2"}, bulk)
	assert.Equal(t, []string{
		"error: Failed to delete product",
		"success: Products deleted successfully",
	}, messages(flash))
}

func TestAdminService_Analytics(t *testing.T) {
	h := newHarness(t)
	stats := &mockStats{
		analytics: func(ctx context.Context, period string) (domain.Analytics, error) {
			return domain.Analytics{Period: period}, nil
		},
		dashboard: func(ctx context.Context) (domain.DashboardStats, error) {
			return domain.DashboardStats{Stats: domain.DashboardSummary{TotalOrders: 4}}, nil
		},
	}
	svc := newAdminService(h, &mockOrders{}, &mockAdminProducts{}, stats)

	a, err := svc.Analytics(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "30d", a.Period)

	_, err = svc.Analytics(context.Background(), "5y")
	assert.True(t, domain.IsCode(err, domain.EINVALID))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, d.Stats.TotalOrders)
}

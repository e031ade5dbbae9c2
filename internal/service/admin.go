package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/cache"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/telemetry"
)

// MaxProductImages is the most images a product may carry.
const MaxProductImages = 5

// AnalyticsPeriods are the periods the dashboard offers.
var AnalyticsPeriods = []string{"7d", "30d", "90d"}

// AdminService backs the admin dashboard. Callers must have checked that
// the visitor is an admin.
type AdminService interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
	Analytics(ctx context.Context, period string) (domain.Analytics, error)

	// Orders lists orders, filtered by status unless status is "" or "all".
	Orders(ctx context.Context, status string) (domain.OrderList, error)
	Order(ctx context.Context, id string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, f form.OrderStatus) (domain.Order, error)

	CreateProduct(ctx context.Context, f form.Product, images []api.Upload) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, f form.Product, images []api.Upload) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	BulkDeleteProducts(ctx context.Context, ids []string) error
}

type adminService struct {
	orders    OrdersClient
	products  AdminProductsClient
	stats     StatsClient
	cache     *cache.Cache
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(orders OrdersClient, products AdminProductsClient, stats StatsClient, c *cache.Cache, publisher events.Publisher, metrics *telemetry.BusinessMetrics, logger *slog.Logger) AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &adminService{
		orders:    orders,
		products:  products,
		stats:     stats,
		cache:     c,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	key := cache.Key{Resource: cache.ResourceStats, Scope: cache.ScopeAdmin, ID: "dashboard"}
	return cache.GetOrLoad(ctx, s.cache, key, s.stats.Dashboard)
}

func (s *adminService) Analytics(ctx context.Context, period string) (domain.Analytics, error) {
	if period == "" {
		period = "30d"
	}
	if !validPeriod(period) {
		return domain.Analytics{}, domain.Invalid("admin.analytics", "Unknown period: "+period)
	}
	key := cache.Key{Resource: cache.ResourceStats, Scope: cache.ScopeAdmin, ID: "analytics:" + period}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (domain.Analytics, error) {
		return s.stats.Analytics(ctx, period)
	})
}

func validPeriod(period string) bool {
	for _, p := range AnalyticsPeriods {
		if p == period {
			return true
		}
	}
	return false
}

func (s *adminService) Orders(ctx context.Context, status string) (domain.OrderList, error) {
	filter := domain.OrderStatus(status)
	if status == "all" {
		filter = ""
	}
	if filter != "" && !filter.Valid() {
		return domain.OrderList{}, ErrInvalidStatus
	}
	key := cache.Key{Resource: cache.ResourceAdminOrders, Scope: cache.ScopeAdmin, ID: string(filter)}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (domain.OrderList, error) {
		return s.orders.List(ctx, filter)
	})
}

func (s *adminService) Order(ctx context.Context, id string) (domain.Order, error) {
	key := cache.Key{Resource: cache.ResourceOrder, Scope: cache.ScopeAdmin, ID: id}
	o, err := cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (domain.Order, error) {
		return s.orders.Get(ctx, id)
	})
	if err != nil {
		return domain.Order{}, notFound(err, ErrOrderNotFound)
	}
	return o, nil
}

func (s *adminService) UpdateOrderStatus(ctx context.Context, id string, f form.OrderStatus) (domain.Order, error) {
	if err := form.Validate("admin.update_order_status", f); err != nil {
		return domain.Order{}, err
	}

	n := notify.From(ctx)
	order, err := s.orders.UpdateStatus(ctx, id, f.Status)
	if err != nil {
		err = notFound(err, ErrOrderNotFound)
		n.Error(domain.MessageOr(err, "Failed to update order status"))
		return domain.Order{}, err
	}
	s.cache.Invalidate(cache.OrderUpdateStatus, "")

	s.metrics.OrderStatusUpdates.WithLabelValues(string(f.Status)).Inc()
	s.publisher.Publish(ctx, events.Event{
		Name: events.OrderStatusUpdated,
		At:   time.Now().UTC(),
		Data: map[string]any{
			"orderId": id,
			"status":  string(f.Status),
		},
	})

	n.Success("Order status updated")
	return order, nil
}

func (s *adminService) CreateProduct(ctx context.Context, f form.Product, images []api.Upload) (domain.Product, error) {
	return s.saveProduct(ctx, "admin.create_product", cache.ProductCreate, "Product created successfully", f, images,
		func(ctx context.Context, pf api.ProductForm) (domain.Product, error) {
			return s.products.Create(ctx, pf)
		})
}

func (s *adminService) UpdateProduct(ctx context.Context, id string, f form.Product, images []api.Upload) (domain.Product, error) {
	return s.saveProduct(ctx, "admin.update_product", cache.ProductUpdate, "Product updated successfully", f, images,
		func(ctx context.Context, pf api.ProductForm) (domain.Product, error) {
			return s.products.Update(ctx, id, pf)
		})
}

func (s *adminService) saveProduct(ctx context.Context, op string, m cache.Mutation, success string, f form.Product, images []api.Upload, call func(context.Context, api.ProductForm) (domain.Product, error)) (domain.Product, error) {
	f = f.Normalize()
	if err := form.Validate(op, f); err != nil {
		return domain.Product{}, err
	}

	n := notify.From(ctx)
	if len(f.ExistingImages)+len(images) > MaxProductImages {
		n.Error(domain.ErrorMessage(ErrTooManyImages))
		return domain.Product{}, ErrTooManyImages
	}

	product, err := call(ctx, api.ProductForm{
		Name:           f.Name,
		Description:    f.Description,
		Price:          f.Price,
		Category:       f.Category,
		Featured:       f.Featured,
		Colors:         f.Colors,
		Sizes:          f.Sizes,
		ExistingImages: f.ExistingImages,
		Images:         images,
	})
	if err != nil {
		n.Error(domain.MessageOr(err, "Failed to save product"))
		return domain.Product{}, err
	}
	s.cache.Invalidate(m, "")

	n.Success(success)
	return product, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id string) error {
	n := notify.From(ctx)
	if err := s.products.Delete(ctx, id); err != nil {
		n.Error("Failed to delete product")
		return notFound(err, ErrProductNotFound)
	}
	s.cache.Invalidate(cache.ProductDelete, "")

	n.Success("Product deleted successfully")
	return nil
}

func (s *adminService) BulkDeleteProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return ErrNoProductsSelected
	}

	n := notify.From(ctx)
	if err := s.products.BulkDelete(ctx, ids); err != nil {
		n.Error("Failed to delete products")
		return err
	}
	s.cache.Invalidate(cache.ProductBulkDelete, "")

	n.Success("Products deleted successfully")
	return nil
}

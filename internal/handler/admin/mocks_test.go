package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/service"
)

// mockAdminService implements service.AdminService for testing
type mockAdminService struct {
	dashboardFunc          func(ctx context.Context) (domain.DashboardStats, error)
	analyticsFunc          func(ctx context.Context, period string) (domain.Analytics, error)
	ordersFunc             func(ctx context.Context, status string) (domain.OrderList, error)
	orderFunc              func(ctx context.Context, id string) (domain.Order, error)
	updateOrderStatusFunc  func(ctx context.Context, id string, f form.OrderStatus) (domain.Order, error)
	createProductFunc      func(ctx context.Context, f form.Product, images []api.Upload) (domain.Product, error)
	updateProductFunc      func(ctx context.Context, id string, f form.Product, images []api.Upload) (domain.Product, error)
	deleteProductFunc      func(ctx context.Context, id string) error
	bulkDeleteProductsFunc func(ctx context.Context, ids []string) error
}

var _ service.AdminService = (*mockAdminService)(nil)

func (m *mockAdminService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	if m.dashboardFunc != nil {
		return m.dashboardFunc(ctx)
	}
	return domain.DashboardStats{}, nil
}

func (m *mockAdminService) Analytics(ctx context.Context, period string) (domain.Analytics, error) {
	if m.analyticsFunc != nil {
		return m.analyticsFunc(ctx, period)
	}
	return domain.Analytics{}, nil
}

func (m *mockAdminService) Orders(ctx context.Context, status string) (domain.OrderList, error) {
	if m.ordersFunc != nil {
		return m.ordersFunc(ctx, status)
	}
	return domain.OrderList{}, nil
}

func (m *mockAdminService) Order(ctx context.Context, id string) (domain.Order, error) {
	if m.orderFunc != nil {
		return m.orderFunc(ctx, id)
	}
	return domain.Order{}, nil
}

func (m *mockAdminService) UpdateOrderStatus(ctx context.Context, id string, f form.OrderStatus) (domain.Order, error) {
	if m.updateOrderStatusFunc != nil {
		return m.updateOrderStatusFunc(ctx, id, f)
	}
	return domain.Order{}, nil
}

func (m *mockAdminService) CreateProduct(ctx context.Context, f form.Product, images []api.Upload) (domain.Product, error) {
	if m.createProductFunc != nil {
		return m.createProductFunc(ctx, f, images)
	}
	return domain.Product{}, nil
}

func (m *mockAdminService) UpdateProduct(ctx context.Context, id string, f form.Product, images []api.Upload) (domain.Product, error) {
	if m.updateProductFunc != nil {
		return m.updateProductFunc(ctx, id, f, images)
	}
	return domain.Product{}, nil
}

func (m *mockAdminService) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteProductFunc != nil {
		return m.deleteProductFunc(ctx, id)
	}
	return nil
}

func (m *mockAdminService) BulkDeleteProducts(ctx context.Context, ids []string) error {
	if m.bulkDeleteProductsFunc != nil {
		return m.bulkDeleteProductsFunc(ctx, ids)
	}
	return nil
}

type result struct {
	Status int
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Notifications []notify.Notification `json:"notifications"`
}

// serve routes one request through a mux registered with pattern.
func serve(t *testing.T, pattern string, h http.HandlerFunc, method, target, contentType string, body io.Reader) result {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req = req.WithContext(notify.WithFlash(req.Context(), notify.NewFlash()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var res result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	res.Status = rec.Code
	return res
}

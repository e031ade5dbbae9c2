package storefront

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stride/internal/cart"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/middleware"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/service"
)

const testVisitor = "7d0c3a3e-3c4d-4d7e-9d3a-2f1b5e6a7c80"

// mockCartService implements service.CartService for testing
type mockCartService struct {
	getFunc                   func(ctx context.Context, visitorID string) (service.CartSummary, error)
	addFunc                   func(ctx context.Context, visitorID string, in service.AddItemInput) (service.CartSummary, error)
	removeFunc                func(ctx context.Context, visitorID, productID string) (service.CartSummary, error)
	removeVariantFunc         func(ctx context.Context, visitorID string, key cart.Key) (service.CartSummary, error)
	updateQuantityFunc        func(ctx context.Context, visitorID, productID string, quantity int) (service.CartSummary, error)
	updateVariantQuantityFunc func(ctx context.Context, visitorID string, key cart.Key, quantity int) (service.CartSummary, error)
	clearFunc                 func(ctx context.Context, visitorID string) (service.CartSummary, error)
}

func (m *mockCartService) Get(ctx context.Context, visitorID string) (service.CartSummary, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, visitorID)
	}
	return service.CartSummary{}, nil
}

func (m *mockCartService) Add(ctx context.Context, visitorID string, in service.AddItemInput) (service.CartSummary, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, visitorID, in)
	}
	return service.CartSummary{}, nil
}

func (m *mockCartService) Remove(ctx context.Context, visitorID, productID string) (service.CartSummary, error) {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, visitorID, productID)
	}
	return service.CartSummary{}, nil
}

func (m *mockCartService) RemoveVariant(ctx context.Context, visitorID string, key cart.Key) (service.CartSummary, error) {
	if m.removeVariantFunc != nil {
		return m.removeVariantFunc(ctx, visitorID, key)
	}
	return service.CartSummary{}, nil
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, visitorID, productID string, quantity int) (service.CartSummary, error) {
	if m.updateQuantityFunc != nil {
		return m.updateQuantityFunc(ctx, visitorID, productID, quantity)
	}
	return service.CartSummary{}, nil
}

func (m *mockCartService) UpdateVariantQuantity(ctx context.Context, visitorID string, key cart.Key, quantity int) (service.CartSummary, error) {
	if m.updateVariantQuantityFunc != nil {
		return m.updateVariantQuantityFunc(ctx, visitorID, key, quantity)
	}
	return service.CartSummary{}, nil
}

func (m *mockCartService) Clear(ctx context.Context, visitorID string) (service.CartSummary, error) {
	if m.clearFunc != nil {
		return m.clearFunc(ctx, visitorID)
	}
	return service.CartSummary{}, nil
}

func (m *mockCartService) Summary(ctx context.Context, c *cart.Store) (service.CartSummary, error) {
	return service.CartSummary{}, nil
}

// mockSessionService implements service.SessionService for testing
type mockSessionService struct {
	currentFunc  func(ctx context.Context, visitorID string) (service.SessionView, error)
	loginFunc    func(ctx context.Context, visitorID string, f form.Login) (service.SessionView, error)
	registerFunc func(ctx context.Context, visitorID string, f form.Register) (service.SessionView, error)
	logoutFunc   func(ctx context.Context, visitorID string) (service.SessionView, error)
}

func (m *mockSessionService) Current(ctx context.Context, visitorID string) (service.SessionView, error) {
	if m.currentFunc != nil {
		return m.currentFunc(ctx, visitorID)
	}
	return service.SessionView{}, nil
}

func (m *mockSessionService) Login(ctx context.Context, visitorID string, f form.Login) (service.SessionView, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, visitorID, f)
	}
	return service.SessionView{}, nil
}

func (m *mockSessionService) Register(ctx context.Context, visitorID string, f form.Register) (service.SessionView, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, visitorID, f)
	}
	return service.SessionView{}, nil
}

func (m *mockSessionService) Logout(ctx context.Context, visitorID string) (service.SessionView, error) {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, visitorID)
	}
	return service.SessionView{}, nil
}

func (m *mockSessionService) UpdateUser(ctx context.Context, visitorID string, c domain.Customer) error {
	return nil
}

// mockCatalogService implements service.CatalogService for testing
type mockCatalogService struct {
	listFunc     func(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	getFunc      func(ctx context.Context, id string) (domain.Product, error)
	featuredFunc func(ctx context.Context) ([]domain.Product, error)
}

func (m *mockCatalogService) List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return domain.ProductPage{}, nil
}

func (m *mockCatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domain.Product{}, nil
}

func (m *mockCatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	if m.featuredFunc != nil {
		return m.featuredFunc(ctx)
	}
	return nil, nil
}

// mockAccountService implements service.AccountService for testing
type mockAccountService struct {
	profileFunc            func(ctx context.Context, visitorID string) (domain.Customer, error)
	updateProfileFunc      func(ctx context.Context, visitorID string, f form.Profile) (domain.Customer, error)
	addToWishlistFunc      func(ctx context.Context, visitorID, productID string) (domain.Customer, error)
	removeFromWishlistFunc func(ctx context.Context, visitorID, productID string) (domain.Customer, error)
	addAddressFunc         func(ctx context.Context, visitorID string, f form.Address) (domain.Customer, error)
	updateAddressFunc      func(ctx context.Context, visitorID, addressID string, f form.Address) (domain.Customer, error)
	deleteAddressFunc      func(ctx context.Context, visitorID, addressID string) (domain.Customer, error)
	ordersFunc             func(ctx context.Context, visitorID string) ([]domain.Order, error)
	orderFunc              func(ctx context.Context, visitorID, orderID string) (domain.Order, error)
}

func (m *mockAccountService) Profile(ctx context.Context, visitorID string) (domain.Customer, error) {
	if m.profileFunc != nil {
		return m.profileFunc(ctx, visitorID)
	}
	return domain.Customer{}, nil
}

func (m *mockAccountService) UpdateProfile(ctx context.Context, visitorID string, f form.Profile) (domain.Customer, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, visitorID, f)
	}
	return domain.Customer{}, nil
}

func (m *mockAccountService) AddToWishlist(ctx context.Context, visitorID, productID string) (domain.Customer, error) {
	if m.addToWishlistFunc != nil {
		return m.addToWishlistFunc(ctx, visitorID, productID)
	}
	return domain.Customer{}, nil
}

func (m *mockAccountService) RemoveFromWishlist(ctx context.Context, visitorID, productID string) (domain.Customer, error) {
	if m.removeFromWishlistFunc != nil {
		return m.removeFromWishlistFunc(ctx, visitorID, productID)
	}
	return domain.Customer{}, nil
}

func (m *mockAccountService) AddAddress(ctx context.Context, visitorID string, f form.Address) (domain.Customer, error) {
	if m.addAddressFunc != nil {
		return m.addAddressFunc(ctx, visitorID, f)
	}
	return domain.Customer{}, nil
}

func (m *mockAccountService) UpdateAddress(ctx context.Context, visitorID, addressID string, f form.Address) (domain.Customer, error) {
	if m.updateAddressFunc != nil {
		return m.updateAddressFunc(ctx, visitorID, addressID, f)
	}
	return domain.Customer{}, nil
}

func (m *mockAccountService) DeleteAddress(ctx context.Context, visitorID, addressID string) (domain.Customer, error) {
	if m.deleteAddressFunc != nil {
		return m.deleteAddressFunc(ctx, visitorID, addressID)
	}
	return domain.Customer{}, nil
}

func (m *mockAccountService) Orders(ctx context.Context, visitorID string) ([]domain.Order, error) {
	if m.ordersFunc != nil {
		return m.ordersFunc(ctx, visitorID)
	}
	return nil, nil
}

func (m *mockAccountService) Order(ctx context.Context, visitorID, orderID string) (domain.Order, error) {
	if m.orderFunc != nil {
		return m.orderFunc(ctx, visitorID, orderID)
	}
	return domain.Order{}, nil
}

// mockCheckoutService implements service.CheckoutService for testing
type mockCheckoutService struct {
	quoteFunc      func(ctx context.Context, visitorID string) (service.CheckoutQuote, error)
	placeOrderFunc func(ctx context.Context, visitorID string, f form.Checkout) (domain.Order, error)
}

func (m *mockCheckoutService) Quote(ctx context.Context, visitorID string) (service.CheckoutQuote, error) {
	if m.quoteFunc != nil {
		return m.quoteFunc(ctx, visitorID)
	}
	return service.CheckoutQuote{}, nil
}

func (m *mockCheckoutService) PlaceOrder(ctx context.Context, visitorID string, f form.Checkout) (domain.Order, error) {
	if m.placeOrderFunc != nil {
		return m.placeOrderFunc(ctx, visitorID, f)
	}
	return domain.Order{}, nil
}

// result is a decoded response envelope.
type result struct {
	Status int
	Data   json.RawMessage
	Error  struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	Notifications []notify.Notification
}

// serve routes one request through a mux registered with pattern, so path
// values resolve as they do in production. The request carries the test
// visitor id and a flash.
func serve(t *testing.T, pattern string, h http.HandlerFunc, method, target, body string) result {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), middleware.VisitorIDContextKey, testVisitor)
	ctx = notify.WithFlash(ctx, notify.NewFlash())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req.WithContext(ctx))

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
		Notifications []notify.Notification `json:"notifications"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), "body must be a JSON envelope")

	res := result{Status: rec.Code, Data: env.Data, Notifications: env.Notifications}
	if env.Error != nil {
		res.Error.Code = env.Error.Code
		res.Error.Message = env.Error.Message
		res.Error.Fields = env.Error.Fields
	}
	return res
}

var (
	_ service.CartService     = (*mockCartService)(nil)
	_ service.SessionService  = (*mockSessionService)(nil)
	_ service.CatalogService  = (*mockCatalogService)(nil)
	_ service.AccountService  = (*mockAccountService)(nil)
	_ service.CheckoutService = (*mockCheckoutService)(nil)
)

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// mustField returns one member of a JSON object.
func mustField(t *testing.T, data []byte, name string) json.RawMessage {
	t.Helper()
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &obj))
	v, ok := obj[name]
	require.True(t, ok, "missing field %q", name)
	return v
}

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/stride/internal"
	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/cache"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/pricing"
	"github.com/dukerupert/stride/internal/state"
	"github.com/dukerupert/stride/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var errNotImplemented = errors.New("not implemented in mock")

type mockProducts struct {
	list     func(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	get      func(ctx context.Context, id string) (domain.Product, error)
	featured func(ctx context.Context) ([]domain.Product, error)
}

func (m *mockProducts) List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	if m.list == nil {
		return domain.ProductPage{}, errNotImplemented
	}
	return m.list(ctx, q)
}

func (m *mockProducts) Get(ctx context.Context, id string) (domain.Product, error) {
	if m.get == nil {
		return domain.Product{}, errNotImplemented
	}
	return m.get(ctx, id)
}

func (m *mockProducts) Featured(ctx context.Context) ([]domain.Product, error) {
	if m.featured == nil {
		return nil, errNotImplemented
	}
	return m.featured(ctx)
}

type mockOrders struct {
	create       func(ctx context.Context, o domain.NewOrder) (domain.Order, error)
	mine         func(ctx context.Context) ([]domain.Order, error)
	get          func(ctx context.Context, id string) (domain.Order, error)
	list         func(ctx context.Context, status domain.OrderStatus) (domain.OrderList, error)
	updateStatus func(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
}

func (m *mockOrders) Create(ctx context.Context, o domain.NewOrder) (domain.Order, error) {
	if m.create == nil {
		return domain.Order{}, errNotImplemented
	}
	return m.create(ctx, o)
}

func (m *mockOrders) Mine(ctx context.Context) ([]domain.Order, error) {
	if m.mine == nil {
		return nil, errNotImplemented
	}
	return m.mine(ctx)
}

func (m *mockOrders) Get(ctx context.Context, id string) (domain.Order, error) {
	if m.get == nil {
		return domain.Order{}, errNotImplemented
	}
	return m.get(ctx, id)
}

func (m *mockOrders) List(ctx context.Context, status domain.OrderStatus) (domain.OrderList, error) {
	if m.list == nil {
		return domain.OrderList{}, errNotImplemented
	}
	return m.list(ctx, status)
}

func (m *mockOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if m.updateStatus == nil {
		return domain.Order{}, errNotImplemented
	}
	return m.updateStatus(ctx, id, status)
}

type mockCustomers struct {
	profile            func(ctx context.Context) (domain.Customer, error)
	updateProfile      func(ctx context.Context, u domain.ProfileUpdate) (domain.Customer, error)
	addToWishlist      func(ctx context.Context, productID string) error
	removeFromWishlist func(ctx context.Context, productID string) error
	addAddress         func(ctx context.Context, addr domain.Address) error
	updateAddress      func(ctx context.Context, id string, addr domain.Address) error
	deleteAddress      func(ctx context.Context, id string) error
}

func (m *mockCustomers) Profile(ctx context.Context) (domain.Customer, error) {
	if m.profile == nil {
		return domain.Customer{}, errNotImplemented
	}
	return m.profile(ctx)
}

func (m *mockCustomers) UpdateProfile(ctx context.Context, u domain.ProfileUpdate) (domain.Customer, error) {
	if m.updateProfile == nil {
		return domain.Customer{}, errNotImplemented
	}
	return m.updateProfile(ctx, u)
}

func (m *mockCustomers) AddToWishlist(ctx context.Context, productID string) error {
	if m.addToWishlist == nil {
		return errNotImplemented
	}
	return m.addToWishlist(ctx, productID)
}

func (m *mockCustomers) RemoveFromWishlist(ctx context.Context, productID string) error {
	if m.removeFromWishlist == nil {
		return errNotImplemented
	}
	return m.removeFromWishlist(ctx, productID)
}

func (m *mockCustomers) AddAddress(ctx context.Context, addr domain.Address) error {
	if m.addAddress == nil {
		return errNotImplemented
	}
	return m.addAddress(ctx, addr)
}

func (m *mockCustomers) UpdateAddress(ctx context.Context, id string, addr domain.Address) error {
	if m.updateAddress == nil {
		return errNotImplemented
	}
	return m.updateAddress(ctx, id, addr)
}

func (m *mockCustomers) DeleteAddress(ctx context.Context, id string) error {
	if m.deleteAddress == nil {
		return errNotImplemented
	}
	return m.deleteAddress(ctx, id)
}

type mockAdminProducts struct {
	create     func(ctx context.Context, f api.ProductForm) (domain.Product, error)
	update     func(ctx context.Context, id string, f api.ProductForm) (domain.Product, error)
	delete     func(ctx context.Context, id string) error
	bulkDelete func(ctx context.Context, ids []string) error
}

func (m *mockAdminProducts) Create(ctx context.Context, f api.ProductForm) (domain.Product, error) {
	if m.create == nil {
		return domain.Product{}, errNotImplemented
	}
	return m.create(ctx, f)
}

func (m *mockAdminProducts) Update(ctx context.Context, id string, f api.ProductForm) (domain.Product, error) {
	if m.update == nil {
		return domain.Product{}, errNotImplemented
	}
	return m.update(ctx, id, f)
}

func (m *mockAdminProducts) Delete(ctx context.Context, id string) error {
	if m.delete == nil {
		return errNotImplemented
	}
	return m.delete(ctx, id)
}

func (m *mockAdminProducts) BulkDelete(ctx context.Context, ids []string) error {
	if m.bulkDelete == nil {
		return errNotImplemented
	}
	return m.bulkDelete(ctx, ids)
}

type mockStats struct {
	dashboard func(ctx context.Context) (domain.DashboardStats, error)
	analytics func(ctx context.Context, period string) (domain.Analytics, error)
}

func (m *mockStats) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	if m.dashboard == nil {
		return domain.DashboardStats{}, errNotImplemented
	}
	return m.dashboard(ctx)
}

func (m *mockStats) Analytics(ctx context.Context, period string) (domain.Analytics, error) {
	if m.analytics == nil {
		return domain.Analytics{}, errNotImplemented
	}
	return m.analytics(ctx, period)
}

type mockAuth struct {
	login    func(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	register func(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
}

func (m *mockAuth) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	if m.login == nil {
		return domain.AuthResult{}, errNotImplemented
	}
	return m.login(ctx, creds)
}

func (m *mockAuth) Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	if m.register == nil {
		return domain.AuthResult{}, errNotImplemented
	}
	return m.register(ctx, reg)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name)
	}
	return out
}

// ============================================================================
// Fixtures
// ============================================================================

type harness struct {
	backend   state.Backend
	auth      *mockAuth
	stores    *Stores
	cache     *cache.Cache
	quoter    *pricing.Quoter
	publisher *recordingPublisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend, err := state.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	quoter, err := pricing.NewQuoterFromConfig(internal.PricingConfig{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShipping:          decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	h := &harness{
		backend:   backend,
		auth:      &mockAuth{},
		cache:     cache.New(time.Minute),
		quoter:    quoter,
		publisher: &recordingPublisher{},
		metrics:   telemetry.NewBusinessMetrics(prometheus.NewRegistry(), ""),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.stores = NewStores(backend, h.auth, h.metrics, h.logger)
	return h
}

// signIn stores an authenticated session for visitorID.
func (h *harness) signIn(t *testing.T, visitorID string, c domain.Customer) {
	t.Helper()
	h.auth.login = func(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
		return domain.AuthResult{Customer: c, Token: "token-" + c.ID}, nil
	}
	sess, err := h.stores.Session(context.Background(), visitorID, nil)
	require.NoError(t, err)
	require.NoError(t, sess.Login(context.Background(), c.Email, "secret1"))
	require.NoError(t, h.stores.SaveSession(context.Background(), visitorID, sess))
}

// withFlash returns a context collecting notifications.
func withFlash() (context.Context, *notify.Flash) {
	f := notify.NewFlash()
	return notify.WithFlash(context.Background(), f), f
}

func messages(f *notify.Flash) []string {
	var out []string
	for _, n := range f.Drain() {
		out = append(out, string(n.Kind)+": "+n.Message)
	}
	return out
}

func price(s string) *domain.Money {
	m := domain.MoneyFromString(s)
	return &m
}

func stock(n int) *int { return &n }

var ada = domain.Customer{ID: "c1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "5551234567"}

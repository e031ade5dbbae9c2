package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/form"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validCheckout = form.Checkout{
	FirstName:  "Ada",
	LastName:   "Lovelace",
	Email:      "ada@example.com",
	Phone:      "5551234567",
	Street:     "1 Main St",
	City:       "Springfield",
	State:      "IL",
	ZipCode:    "62701",
	Country:    "US",
	CardNumber: "4242424242424242",
	CardExpiry: "12/30",
	CardCVC:    "123",
}

func newCheckoutService(h *harness, orders *mockOrders) (CheckoutService, CartService) {
	carts := newCartService(h)
	return NewCheckoutService(h.stores, carts, orders, h.cache, h.publisher, h.metrics, h.logger), carts
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "v1", ada)

	var submitted domain.NewOrder
	orders := &mockOrders{
		create: func(ctx context.Context, o domain.NewOrder) (domain.Order, error) {
			submitted = o
			return domain.Order{ID: "o1", OrderNumber: "ORD-1", Status: domain.OrderPending}, nil
		},
	}
	svc, carts := newCheckoutService(h, orders)

	_, err := carts.Add(context.Background(), "v1", AddItemInput{ProductID: "p1", Size: "9", Color: "black", Quantity: 2})
	require.NoError(t, err)

	ctx, flash := withFlash()
	order, err := svc.PlaceOrder(ctx, "v1", validCheckout)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", order.OrderNumber)

	want := []domain.OrderItem{{
		ProductID: "p1",
		Name:      "Trail Runner",
		Price:     domain.MoneyFromString("60.00"),
		Quantity:  2,
		Size:      "9",
		Color:     "black",
	}}
	if diff := cmp.Diff(want, submitted.Items, cmp.Comparer(func(a, b domain.Money) bool { return a.Equal(b.Decimal) })); diff != "" {
		t.Errorf("order items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, domain.OrderCustomer{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "5551234567"}, submitted.Customer)
	assert.Equal(t, "1 Main St", submitted.ShippingAddress.Street)
	assert.Equal(t, "120.00", submitted.Subtotal.String())
	assert.Equal(t, "9.60", submitted.Tax.String())
	assert.Equal(t, "0.00", submitted.Shipping.String())
	assert.Equal(t, "129.60", submitted.Total.String())
	assert.Equal(t, "card", submitted.PaymentMethod)

	assert.Equal(t, []string{"success: Order placed successfully!"}, messages(flash))
	assert.Contains(t, h.publisher.names(), events.OrderPlaced)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.OrdersPlaced))

	summary, err := carts.Get(context.Background(), "v1")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCheckoutService_PlaceOrderFailureKeepsCart(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "v1", ada)
	orders := &mockOrders{
		create: func(ctx context.Context, o domain.NewOrder) (domain.Order, error) {
			return domain.Order{}, &domain.Error{Code: domain.EUNAVAILABLE, Message: "Payment declined"}
		},
	}
	svc, carts := newCheckoutService(h, orders)
	_, err := carts.Add(context.Background(), "v1", AddItemInput{ProductID: "p2"})
	require.NoError(t, err)

	ctx, flash := withFlash()
	_, err = svc.PlaceOrder(ctx, "v1", validCheckout)
	require.Error(t, err)
	assert.Equal(t, []string{"error: Failed to place order. Please try again."}, messages(flash))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CheckoutFailed.WithLabelValues(domain.EUNAVAILABLE)))

	summary, err := carts.Get(context.Background(), "v1")
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
}

func TestCheckoutService_Preconditions(t *testing.T) {
	h := newHarness(t)
	svc, carts := newCheckoutService(h, &mockOrders{})

	ctx, flash := withFlash()
	_, err := svc.PlaceOrder(ctx, "v1", validCheckout)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, []string{"error: Please login to continue"}, messages(flash))

	h.signIn(t, "v1", ada)
	_, err = svc.PlaceOrder(context.Background(), "v1", validCheckout)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = carts.Add(context.Background(), "v1", AddItemInput{ProductID: "p2"})
	require.NoError(t, err)

	bad := validCheckout
	bad.CardExpiry = "1230"
	bad.ZipCode = "123"
	_, err = svc.PlaceOrder(context.Background(), "v1", bad)
	assert.Equal(t, map[string]string{
		"cardExpiry": "Format must be MM/YY",
		"zipCode":    "ZIP code must be at least 5 digits",
	}, domain.GetValidationFields(err))
}

func TestCheckoutService_Quote(t *testing.T) {
	h := newHarness(t)
	c := ada
	c.Addresses = []domain.Address{{ID: "a1", Street: "1 Main St", IsDefault: true}}
	h.signIn(t, "v1", c)
	svc, carts := newCheckoutService(h, &mockOrders{})

	_, err := svc.Quote(context.Background(), "v1")
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = carts.Add(context.Background(), "v1", AddItemInput{ProductID: "p2", Quantity: 2})
	require.NoError(t, err)

	quote, err := svc.Quote(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "58.20", quote.Cart.Totals.Total.String())
	assert.Equal(t, "Ada", quote.Prefill.FirstName)
	require.NotNil(t, quote.Prefill.Address)
	assert.Equal(t, "a1", quote.Prefill.Address.ID)
}

func TestCheckoutService_DuplicateSubmitIsRejected(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "v1", ada)

	entered := make(chan struct{})
	release := make(chan struct{})
	orders := &mockOrders{
		create: func(ctx context.Context, o domain.NewOrder) (domain.Order, error) {
			close(entered)
			<-release
			return domain.Order{ID: "o1"}, nil
		},
	}
	svc, carts := newCheckoutService(h, orders)
	_, err := carts.Add(context.Background(), "v1", AddItemInput{ProductID: "p2"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.PlaceOrder(context.Background(), "v1", validCheckout)
		assert.NoError(t, err)
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first order never reached the backend")
	}
	_, err = svc.PlaceOrder(context.Background(), "v1", validCheckout)
	assert.ErrorIs(t, err, ErrCheckoutInProgress)

	close(release)
	wg.Wait()
}

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/stride/internal/cache"
	"github.com/dukerupert/stride/internal/cart"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/telemetry"
)

// PaymentMethod is sent with every order. Card details are validated by the
// checkout form and never forwarded.
const PaymentMethod = "card"

// CheckoutPrefill seeds the checkout form from the signed-in customer.
type CheckoutPrefill struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   *domain.Address `json:"address,omitempty"`
}

// CheckoutQuote is the checkout page: the priced cart and the form prefill.
type CheckoutQuote struct {
	Cart    CartSummary     `json:"cart"`
	Prefill CheckoutPrefill `json:"prefill"`
}

// CheckoutService turns a visitor's cart into an order.
type CheckoutService interface {
	// Quote prices the cart for the checkout page.
	Quote(ctx context.Context, visitorID string) (CheckoutQuote, error)

	// PlaceOrder submits the cart as an order and empties the cart.
	PlaceOrder(ctx context.Context, visitorID string, f form.Checkout) (domain.Order, error)
}

type checkoutService struct {
	stores    *Stores
	carts     CartService
	orders    OrdersClient
	cache     *cache.Cache
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger

	inflight sync.Map // visitor id -> struct{}
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(stores *Stores, carts CartService, orders OrdersClient, c *cache.Cache, publisher events.Publisher, metrics *telemetry.BusinessMetrics, logger *slog.Logger) CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		stores:    stores,
		carts:     carts,
		orders:    orders,
		cache:     c,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *checkoutService) Quote(ctx context.Context, visitorID string) (CheckoutQuote, error) {
	n := notify.From(ctx)

	sess, err := s.stores.Session(ctx, visitorID, n)
	if err != nil {
		return CheckoutQuote{}, err
	}
	u, ok := sess.User()
	if !ok || !sess.IsAuthenticated() {
		n.Error(domain.ErrorMessage(ErrLoginRequired))
		return CheckoutQuote{}, ErrLoginRequired
	}

	c, err := s.stores.Cart(ctx, visitorID, n)
	if err != nil {
		return CheckoutQuote{}, err
	}
	if c.IsEmpty() {
		return CheckoutQuote{}, ErrEmptyCart
	}
	summary, err := s.carts.Summary(ctx, c)
	if err != nil {
		return CheckoutQuote{}, err
	}

	prefill := CheckoutPrefill{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
	if addr, ok := u.DefaultAddress(); ok {
		prefill.Address = &addr
	}
	return CheckoutQuote{Cart: summary, Prefill: prefill}, nil
}

func (s *checkoutService) PlaceOrder(ctx context.Context, visitorID string, f form.Checkout) (domain.Order, error) {
	const op = "checkout.place_order"
	n := notify.From(ctx)

	if _, busy := s.inflight.LoadOrStore(visitorID, struct{}{}); busy {
		return domain.Order{}, ErrCheckoutInProgress
	}
	defer s.inflight.Delete(visitorID)

	unlock := s.stores.Lock(visitorID)
	defer unlock()

	sess, err := s.stores.Session(ctx, visitorID, n)
	if err != nil {
		return domain.Order{}, err
	}
	u, ok := sess.User()
	if !ok || !sess.IsAuthenticated() {
		n.Error(domain.ErrorMessage(ErrLoginRequired))
		return domain.Order{}, ErrLoginRequired
	}

	if err := form.Validate(op, f); err != nil {
		return domain.Order{}, err
	}

	c, err := s.stores.Cart(ctx, visitorID, n)
	if err != nil {
		return domain.Order{}, err
	}
	if c.IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}
	summary, err := s.carts.Summary(ctx, c)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.Create(ctx, domain.NewOrder{
		Customer:        f.Customer(),
		ShippingAddress: f.ShippingAddress(),
		Items:           orderItems(summary.Items),
		Subtotal:        summary.Totals.Subtotal,
		Tax:             summary.Totals.Tax,
		Shipping:        summary.Totals.Shipping,
		Total:           summary.Totals.Total,
		PaymentMethod:   PaymentMethod,
	})
	if err != nil {
		s.metrics.CheckoutFailed.WithLabelValues(domain.ErrorCode(err)).Inc()
		s.logger.Error("failed to place order", "visitor_id", visitorID, "error", err)
		n.Error("Failed to place order. Please try again.")
		return domain.Order{}, err
	}

	c.ClearCart()
	if err := s.stores.SaveCart(ctx, visitorID, c); err != nil {
		// The order exists; a stale cart is the lesser problem.
		s.logger.Error("failed to clear cart after order", "visitor_id", visitorID, "order_id", order.ID, "error", err)
	}
	s.cache.Invalidate(cache.OrderCreate, u.ID)

	s.metrics.OrdersPlaced.Inc()
	s.metrics.OrderValue.Observe(summary.Totals.Total.InexactFloat64())
	s.metrics.OrderItemCount.Observe(float64(summary.TotalItems))
	s.metrics.CartCleared.WithLabelValues("checkout").Inc()
	s.publisher.Publish(ctx, events.Event{
		Name:       events.OrderPlaced,
		VisitorID:  visitorID,
		CustomerID: u.ID,
		At:         time.Now().UTC(),
		Data: map[string]any{
			"orderId":     order.ID,
			"orderNumber": order.OrderNumber,
			"total":       summary.Totals.Total.String(),
			"items":       summary.TotalItems,
		},
	})

	n.Success("Order placed successfully!")
	return order, nil
}

// orderItems freezes the cart lines into order line items.
func orderItems(items []cart.Item) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OrderItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     domain.NewMoney(it.Product.UnitPrice()),
			Quantity:  it.Quantity,
			Size:      it.SelectedSize,
			Color:     it.SelectedColor,
		})
	}
	return out
}

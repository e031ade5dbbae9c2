package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/stride/internal/cart"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/pricing"
	"github.com/dukerupert/stride/internal/telemetry"
)

// CartSummary is the cart as shown on the cart page and in the header badge.
type CartSummary struct {
	Items      []cart.Item    `json:"items"`
	TotalItems int            `json:"totalItems"`
	Totals     pricing.Totals `json:"totals"`
}

// AddItemInput is a request to put a product variant in the cart.
type AddItemInput struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

// CartService provides cart operations for a visitor.
type CartService interface {
	// Get returns the visitor's cart with its totals.
	Get(ctx context.Context, visitorID string) (CartSummary, error)

	// Add checks the selection against the live product and adds it.
	Add(ctx context.Context, visitorID string, in AddItemInput) (CartSummary, error)

	// Remove drops every variant of a product.
	Remove(ctx context.Context, visitorID, productID string) (CartSummary, error)

	// RemoveVariant drops one variant.
	RemoveVariant(ctx context.Context, visitorID string, key cart.Key) (CartSummary, error)

	// UpdateQuantity sets the quantity on every variant of a product.
	// Zero or less removes the product.
	UpdateQuantity(ctx context.Context, visitorID, productID string, quantity int) (CartSummary, error)

	// UpdateVariantQuantity sets the quantity of one variant.
	UpdateVariantQuantity(ctx context.Context, visitorID string, key cart.Key, quantity int) (CartSummary, error)

	// Clear empties the cart.
	Clear(ctx context.Context, visitorID string) (CartSummary, error)

	// Summary prices an already loaded cart.
	Summary(ctx context.Context, c *cart.Store) (CartSummary, error)
}

type cartService struct {
	stores    *Stores
	products  ProductsClient
	quoter    *pricing.Quoter
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(stores *Stores, products ProductsClient, quoter *pricing.Quoter, publisher events.Publisher, metrics *telemetry.BusinessMetrics, logger *slog.Logger) CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cartService{
		stores:    stores,
		products:  products,
		quoter:    quoter,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *cartService) Get(ctx context.Context, visitorID string) (CartSummary, error) {
	c, err := s.stores.Cart(ctx, visitorID, notify.From(ctx))
	if err != nil {
		return CartSummary{}, err
	}
	return s.Summary(ctx, c)
}

func (s *cartService) Add(ctx context.Context, visitorID string, in AddItemInput) (CartSummary, error) {
	const op = "cart.add"
	n := notify.From(ctx)

	if in.ProductID == "" {
		return CartSummary{}, domain.NewValidationError(op, "productId", "Product is required")
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	// Stock is checked against the live product, never a cached copy.
	product, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		err = notFound(err, ErrProductNotFound)
		n.Error(domain.MessageOr(err, "Failed to add to cart"))
		return CartSummary{}, err
	}
	if err := checkSelection(product, in); err != nil {
		n.Error(domain.ErrorMessage(err))
		return CartSummary{}, err
	}

	var summary CartSummary
	err = s.mutate(ctx, visitorID, func(c *cart.Store) {
		c.AddItem(product, in.Size, in.Color, in.Quantity)
	}, &summary)
	if err != nil {
		return CartSummary{}, err
	}

	s.metrics.CartItemsAdded.WithLabelValues(string(product.Category)).Add(float64(in.Quantity))
	s.publisher.Publish(ctx, events.Event{
		Name:      events.CartItemAdded,
		VisitorID: visitorID,
		At:        time.Now().UTC(),
		Data: map[string]any{
			"productId": product.ID,
			"size":      in.Size,
			"color":     in.Color,
			"quantity":  in.Quantity,
		},
	})
	return summary, nil
}

// checkSelection enforces the product page rules: a size and color must be
// chosen when the product offers them, and the size must have the stock.
func checkSelection(p domain.Product, in AddItemInput) error {
	if len(p.Sizes) > 0 {
		if in.Size == "" {
			return ErrSizeRequired
		}
		size, ok := p.FindSize(in.Size)
		if !ok || !size.InStock(in.Quantity) {
			return ErrInsufficientStock
		}
	}
	if len(p.Colors) > 0 {
		if in.Color == "" {
			return ErrColorRequired
		}
		if !p.HasColor(in.Color) {
			return domain.Invalid("cart.add", "Please select a color")
		}
	}
	return nil
}

func (s *cartService) Remove(ctx context.Context, visitorID, productID string) (CartSummary, error) {
	var summary CartSummary
	err := s.mutate(ctx, visitorID, func(c *cart.Store) {
		c.RemoveItem(productID)
	}, &summary)
	if err != nil {
		return CartSummary{}, err
	}
	s.metrics.CartRemovals.WithLabelValues("product").Inc()
	return summary, nil
}

func (s *cartService) RemoveVariant(ctx context.Context, visitorID string, key cart.Key) (CartSummary, error) {
	var (
		summary CartSummary
		removed bool
	)
	err := s.mutate(ctx, visitorID, func(c *cart.Store) {
		removed = c.RemoveVariant(key)
	}, &summary)
	if err != nil {
		return CartSummary{}, err
	}
	if !removed {
		return CartSummary{}, ErrCartItemNotFound
	}
	s.metrics.CartRemovals.WithLabelValues("variant").Inc()
	return summary, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, visitorID, productID string, quantity int) (CartSummary, error) {
	var summary CartSummary
	err := s.mutate(ctx, visitorID, func(c *cart.Store) {
		c.UpdateQuantity(productID, quantity)
	}, &summary)
	if err != nil {
		return CartSummary{}, err
	}
	if quantity <= 0 {
		s.metrics.CartRemovals.WithLabelValues("product").Inc()
	}
	return summary, nil
}

func (s *cartService) UpdateVariantQuantity(ctx context.Context, visitorID string, key cart.Key, quantity int) (CartSummary, error) {
	var (
		summary CartSummary
		found   bool
	)
	err := s.mutate(ctx, visitorID, func(c *cart.Store) {
		found = c.UpdateVariantQuantity(key, quantity)
	}, &summary)
	if err != nil {
		return CartSummary{}, err
	}
	if !found {
		return CartSummary{}, ErrCartItemNotFound
	}
	if quantity <= 0 {
		s.metrics.CartRemovals.WithLabelValues("variant").Inc()
	}
	return summary, nil
}

func (s *cartService) Clear(ctx context.Context, visitorID string) (CartSummary, error) {
	var summary CartSummary
	err := s.mutate(ctx, visitorID, func(c *cart.Store) {
		c.ClearCart()
	}, &summary)
	if err != nil {
		return CartSummary{}, err
	}

	s.metrics.CartCleared.WithLabelValues("manual").Inc()
	s.publisher.Publish(ctx, events.Event{
		Name:      events.CartCleared,
		VisitorID: visitorID,
		At:        time.Now().UTC(),
		Data:      map[string]any{"reason": "manual"},
	})
	return summary, nil
}

func (s *cartService) Summary(ctx context.Context, c *cart.Store) (CartSummary, error) {
	totals, err := s.quoter.Quote(ctx, c.TotalPrice())
	if err != nil {
		return CartSummary{}, domain.Internal(err, "cart.summary", "failed to price cart")
	}
	return CartSummary{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		Totals:     totals,
	}, nil
}

// mutate runs fn on the visitor's cart under the visitor lock, writes the
// cart through and prices the result into out.
func (s *cartService) mutate(ctx context.Context, visitorID string, fn func(*cart.Store), out *CartSummary) error {
	unlock := s.stores.Lock(visitorID)
	defer unlock()

	c, err := s.stores.Cart(ctx, visitorID, notify.From(ctx))
	if err != nil {
		return err
	}
	fn(c)
	if err := s.stores.SaveCart(ctx, visitorID, c); err != nil {
		s.logger.Error("failed to save cart", "visitor_id", visitorID, "error", err)
		return err
	}

	summary, err := s.Summary(ctx, c)
	if err != nil {
		return err
	}
	s.metrics.CartValue.Observe(summary.Totals.Subtotal.InexactFloat64())
	*out = summary
	return nil
}

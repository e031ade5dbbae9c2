package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for storefront activity.
type BusinessMetrics struct {
	// Catalog
	ProductViews *prometheus.CounterVec

	// Cart
	CartItemsAdded *prometheus.CounterVec
	CartRemovals   *prometheus.CounterVec
	CartCleared    *prometheus.CounterVec
	CartValue      prometheus.Histogram

	// Checkout & orders
	OrdersPlaced       prometheus.Counter
	OrderValue         prometheus.Histogram
	OrderItemCount     prometheus.Histogram
	CheckoutFailed     *prometheus.CounterVec
	OrderStatusUpdates *prometheus.CounterVec

	// Auth & accounts
	Signups     prometheus.Counter
	Logins      prometheus.Counter
	LoginFailed *prometheus.CounterVec
	Logouts     prometheus.Counter

	// Persisted client state
	StateLoadFailed *prometheus.CounterVec

	// Store backend performance
	BackendLatency *prometheus.HistogramVec
}

// NewBusinessMetrics creates all business metrics and registers them with reg.
func NewBusinessMetrics(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "stride"
	}

	subsystem := "business"
	factory := promauto.With(reg)

	return &BusinessMetrics{
		// =======================================================================
		// Catalog
		// =======================================================================
		ProductViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail views",
			},
			[]string{"category"},
		),

		// =======================================================================
		// Cart
		// =======================================================================
		CartItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total units added to carts",
			},
			[]string{"category"},
		),
		CartRemovals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_removals_total",
				Help:      "Total cart line removals",
			},
			[]string{"scope"}, // scope: product, variant
		),
		CartCleared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total carts emptied",
			},
			[]string{"reason"}, // reason: checkout, manual
		),
		CartValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_dollars",
				Help:      "Cart subtotal after each change",
				Buckets:   []float64{10, 25, 50, 100, 150, 250, 500, 1000},
			},
		),

		// =======================================================================
		// Checkout & Orders
		// =======================================================================
		OrdersPlaced: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_placed_total",
				Help:      "Total orders accepted by the backend",
			},
		),
		OrderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_dollars",
				Help:      "Order total including tax and shipping",
				Buckets:   []float64{25, 50, 100, 150, 250, 500, 1000, 2500},
			},
		),
		OrderItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Units per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 20},
			},
		),
		CheckoutFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failed_total",
				Help:      "Total failed order placements",
			},
			[]string{"reason"}, // reason: error code
		),
		OrderStatusUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_updates_total",
				Help:      "Total admin order status changes",
			},
			[]string{"status"},
		),

		// =======================================================================
		// Auth & Accounts
		// =======================================================================
		Signups: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signups_total",
				Help:      "Total accounts created",
			},
		),
		Logins: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Total successful logins",
			},
		),
		LoginFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "login_failed_total",
				Help:      "Total failed logins and registrations",
			},
			[]string{"reason"},
		),
		Logouts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logouts_total",
				Help:      "Total logouts",
			},
		),

		// =======================================================================
		// Persisted client state
		// =======================================================================
		StateLoadFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "state_load_failed_total",
				Help:      "Stored cart or session blobs that could not be read and were reset",
			},
			[]string{"namespace"},
		),

		// =======================================================================
		// Store backend
		// =======================================================================
		BackendLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "backend_call_duration_seconds",
				Help:      "Store backend call latency",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"group", "operation", "outcome"},
		),
	}
}

// ObserveCall records a store backend call. It satisfies api.Observer.
func (m *BusinessMetrics) ObserveCall(group, op, outcome string, elapsed time.Duration) {
	m.BackendLatency.WithLabelValues(group, op, outcome).Observe(elapsed.Seconds())
}

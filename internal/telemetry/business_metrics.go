package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Product engagement
	ProductViews    *prometheus.CounterVec
	ProductSearches *prometheus.CounterVec

	// Cart
	CartItemsAdd  *prometheus.CounterVec
	CartUpdated   *prometheus.CounterVec
	CartCleared   prometheus.Counter
	CartValue     prometheus.Histogram
	SavedForLater *prometheus.CounterVec

	// Checkout funnel
	CheckoutStarted prometheus.Counter
	CheckoutStep    *prometheus.CounterVec
	CheckoutExited  prometheus.Counter
	StepGateFailed  *prometheus.CounterVec

	// Orders
	OrdersPlaced   *prometheus.CounterVec
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram
	ShippingWaived prometheus.Counter

	// Theme
	ThemeChanges *prometheus.CounterVec

	// Inventory
	LowStockItems prometheus.Gauge
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "kasuwa"
	}

	subsystem := "business"

	m := &BusinessMetrics{
		ProductViews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail views",
			},
			[]string{"product_slug"},
		),
		ProductSearches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_searches_total",
				Help:      "Total product list views with filters",
			},
			[]string{"filter_type"}, // filter_type: category, vendor, none
		),
		CartItemsAdd: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_add_total",
				Help:      "Total add to cart actions",
			},
			[]string{"item_id"},
		),
		CartUpdated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updated_total",
				Help:      "Total cart mutations",
			},
			[]string{"action"}, // action: add, remove, quantity
		),
		CartCleared: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total cart clear operations",
			},
		),
		CartValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value",
				Help:      "Cart subtotal at checkout start, in minor units",
				Buckets:   prometheus.ExponentialBuckets(10000, 4, 10),
			},
		),
		SavedForLater: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "saved_for_later_total",
				Help:      "Total save-for-later actions",
			},
			[]string{"action"}, // action: save, restore, remove
		),
		CheckoutStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_started_total",
				Help:      "Total checkouts begun",
			},
		),
		CheckoutStep: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_step_total",
				Help:      "Total completions of each checkout step",
			},
			[]string{"step"}, // step: delivery, contact, payment, review
		),
		CheckoutExited: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_exited_total",
				Help:      "Total checkouts exited from the first step",
			},
		),
		StepGateFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_gate_failed_total",
				Help:      "Total step advances blocked by validation",
			},
			[]string{"step"},
		),
		OrdersPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_placed_total",
				Help:      "Total orders placed",
			},
			[]string{"delivery_method", "payment_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Order grand total, in minor units",
				Buckets:   prometheus.ExponentialBuckets(10000, 4, 10),
			},
		),
		OrderItemCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of units per order",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
		),
		ShippingWaived: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shipping_waived_total",
				Help:      "Total orders with the delivery fee waived",
			},
		),
		ThemeChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "theme_changes_total",
				Help:      "Total theme mode changes",
			},
			[]string{"mode"},
		),
		LowStockItems: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "low_stock_items",
				Help:      "Items at or below the low stock threshold",
			},
		),
	}

	return m
}

// SetLowStockItems records the current low stock count.
func (m *BusinessMetrics) SetLowStockItems(n int) {
	if m == nil {
		return
	}
	m.LowStockItems.Set(float64(n))
}

// Global instance for easy access from handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace)
	return Business
}

// Package notify publishes storefront events for downstream consumers.
package notify

import (
	"context"
	"time"
)

// Event kinds published by the storefront.
const (
	EventOrderPlaced    = "order.placed"
	EventCheckoutExited = "checkout.exited"
	EventLowStock       = "inventory.low_stock"
	EventPriceDrop      = "inventory.price_drop"
)

// Event is a single published notice.
type Event struct {
	Kind       string         `json:"kind"`
	OccurredAt time.Time      `json:"occurred_at"`
	OrderID    string         `json:"order_id,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// Notifier publishes events. Publishing is best-effort; callers treat
// failures as log-worthy, never as operation failures.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

package domain

import (
	"context"
	"time"
)

// Order-related domain errors.
var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrNoOrders      = &Error{Code: ENOTFOUND, Message: "No orders have been placed"}
)

// PriceBreakdown is the derived cost of a cart under a delivery selection.
// All amounts are in currency minor units.
type PriceBreakdown struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shipping_fee"`
	Tax         int64 `json:"tax"`
	GrandTotal  int64 `json:"grand_total"`
}

// OrderSnapshot is the immutable record of a completed checkout. Once
// written it is never modified; history is append-only.
type OrderSnapshot struct {
	ID       string            `json:"id"`
	Number   string            `json:"number"`
	Items    []CartLineItem    `json:"items"`
	Pricing  PriceBreakdown    `json:"pricing"`
	Delivery DeliverySelection `json:"delivery"`
	Contact  ContactInfo       `json:"contact"`
	Payment  PaymentMethod     `json:"payment"`
	PlacedAt time.Time         `json:"placed_at"`
}

// OrderService reads the durable order history.
type OrderService interface {
	// Latest returns the most recently placed order.
	Latest(ctx context.Context) (*OrderSnapshot, error)

	// History returns all placed orders, oldest first.
	History(ctx context.Context) ([]OrderSnapshot, error)

	// Get retrieves a single order by its identifier.
	Get(ctx context.Context, id string) (*OrderSnapshot, error)
}

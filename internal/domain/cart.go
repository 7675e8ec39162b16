package domain

import "context"

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartEmpty       = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInvalidLineItem = &Error{Code: EINVALID, Message: "Cart line item must have an id and a name"}
)

// CartLineItem is one product entry in the shopping cart.
// Prices are in currency minor units.
type CartLineItem struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	UnitPrice         int64  `json:"unit_price"`
	Quantity          int    `json:"quantity"`
	OriginalUnitPrice int64  `json:"original_unit_price,omitempty"` // strike-through reference price, 0 when absent
	DiscountPercent   int    `json:"discount_percent,omitempty"`
}

// LineSubtotal returns unit price times quantity.
func (i CartLineItem) LineSubtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// CartSummary aggregates the cart contents with totals derived from the
// items. Totals are recomputed on every read, never cached.
type CartSummary struct {
	Items          []CartLineItem `json:"items"`
	TotalItemCount int            `json:"total_item_count"`
	TotalPrice     int64          `json:"total_price"`
}

// CartService is the single owner of the active cart. At most one line item
// exists per product ID; adding an existing ID merges quantities. Quantity
// updates clamp to a floor of 1 - removal is a distinct, explicit operation.
// Mutations persist best-effort and notify subscribers in dispatch order.
type CartService interface {
	// Add appends a new line item, or increments the quantity of the
	// existing entry with the same ID.
	Add(ctx context.Context, item CartLineItem) (*CartSummary, error)

	// Remove deletes the matching entry. Removing an absent ID is a no-op.
	Remove(ctx context.Context, id string) (*CartSummary, error)

	// UpdateQuantity sets the quantity to max(1, quantity) for the matching
	// entry. Unknown IDs are a no-op.
	UpdateQuantity(ctx context.Context, id string, quantity int) (*CartSummary, error)

	// Clear empties the cart.
	Clear(ctx context.Context) error

	// ItemCount returns the quantity of the matching entry, or 0.
	ItemCount(id string) int

	// Summary returns the items with freshly derived totals.
	Summary() *CartSummary

	// Subscribe registers a callback invoked after every mutation.
	// The returned function unsubscribes.
	Subscribe(fn func(CartSummary)) (unsubscribe func())
}

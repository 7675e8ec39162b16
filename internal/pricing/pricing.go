// Package pricing derives order totals. Totals are never stored on the
// cart; callers recompute a breakdown from line items whenever one is
// needed, so a stale figure can never be displayed.
package pricing

import "github.com/okonkwolabs/kasuwa/internal/domain"

// Subtotal sums line totals across items. Quantity times unit price,
// per line, in minor currency units.
func Subtotal(items []domain.CartLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineSubtotal()
	}
	return total
}

// ItemCount sums quantities across items.
func ItemCount(items []domain.CartLineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Derive assembles the full price breakdown from the items and the
// already-computed shipping fee and tax amounts.
func Derive(items []domain.CartLineItem, shippingFee, taxAmount int64) domain.PriceBreakdown {
	subtotal := Subtotal(items)
	return domain.PriceBreakdown{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Tax:         taxAmount,
		GrandTotal:  subtotal + shippingFee + taxAmount,
	}
}

// Summarize builds a cart summary with derived totals.
func Summarize(items []domain.CartLineItem) *domain.CartSummary {
	return &domain.CartSummary{
		Items:          items,
		TotalItemCount: ItemCount(items),
		TotalPrice:     Subtotal(items),
	}
}

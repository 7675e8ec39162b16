package storefront

import (
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/pricing"
	"github.com/okonkwolabs/kasuwa/internal/service"
	"github.com/okonkwolabs/kasuwa/internal/shipping"
	"github.com/okonkwolabs/kasuwa/internal/tax"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	cart     domain.CartService
	prefs    *service.PrefsService
	shipping shipping.Provider
	taxes    tax.Calculator
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler. The shipping provider and tax
// calculator are only consulted for the pre-checkout estimate; the checkout
// wizard computes its own authoritative quote.
func NewCartHandler(cart domain.CartService, prefs *service.PrefsService, ship shipping.Provider, taxes tax.Calculator, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: cart, prefs: prefs, shipping: ship, taxes: taxes, logger: logger}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.cart.Summary())
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item domain.CartLineItem
	if err := readJSON(r, &item); err != nil {
		writeError(w, h.logger, domain.Invalid("cart.add", "Invalid request body"))
		return
	}

	summary, err := h.cart.Add(r.Context(), item)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summary)
}

// UpdateQuantity handles PUT /cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, h.logger, domain.Invalid("cart.update_quantity", "Invalid request body"))
		return
	}

	summary, err := h.cart.UpdateQuantity(r.Context(), r.PathValue("id"), body.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summary)
}

// Remove handles DELETE /cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cart.Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summary)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.cart.Summary())
}

// Estimate handles GET /cart/estimate. It projects a standard logistics
// delivery over the current cart so the cart page can show an expected total
// before the checkout wizard is opened.
func (h *CartHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	summary := h.cart.Summary()

	fee, err := h.shipping.GetFee(r.Context(), shipping.FeeParams{
		Delivery:      domain.DeliverySelection{Method: domain.DeliveryLogistics},
		ItemsSubtotal: summary.TotalPrice,
	})
	if err != nil {
		writeError(w, h.logger, domain.Internal(err, "cart.estimate", "Unable to estimate delivery fee"))
		return
	}

	taxItems := make([]tax.LineItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		taxItems = append(taxItems, tax.LineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineSubtotal(),
		})
	}
	taxResult, err := h.taxes.CalculateTax(r.Context(), tax.TaxParams{
		LineItems: taxItems,
	})
	if err != nil {
		writeError(w, h.logger, domain.Internal(err, "cart.estimate", "Unable to estimate tax"))
		return
	}

	writeJSON(w, h.logger, http.StatusOK, pricing.Derive(summary.Items, fee.Amount, taxResult.TotalTax))
}

// ButtonPosition handles GET /cart/button-position
func (h *CartHandler) ButtonPosition(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.prefs.CartButtonPosition())
}

// SetButtonPosition handles PUT /cart/button-position
func (h *CartHandler) SetButtonPosition(w http.ResponseWriter, r *http.Request) {
	var pos service.CartButtonPosition
	if err := readJSON(r, &pos); err != nil {
		writeError(w, h.logger, domain.Invalid("cart.button_position", "Invalid request body"))
		return
	}
	if err := h.prefs.SetCartButtonPosition(r.Context(), pos); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.prefs.CartButtonPosition())
}

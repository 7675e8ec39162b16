package storefront

import (
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/service"
)

// PromoHandler resolves promo codes against the live cart subtotal.
type PromoHandler struct {
	promos *service.PromoService
	cart   domain.CartService
	logger *slog.Logger
}

// NewPromoHandler creates a new promo handler
func NewPromoHandler(promos *service.PromoService, cart domain.CartService, logger *slog.Logger) *PromoHandler {
	return &PromoHandler{promos: promos, cart: cart, logger: logger}
}

// Lookup handles POST /promo/lookup
func (h *PromoHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, h.logger, domain.Invalid("promo.lookup", "Invalid request body"))
		return
	}

	promo, err := h.promos.Lookup(r.Context(), body.Code, h.cart.Summary().TotalPrice)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, promo)
}

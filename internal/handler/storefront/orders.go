package storefront

import (
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// OrdersHandler reads the order history.
type OrdersHandler struct {
	orders domain.OrderService
	logger *slog.Logger
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(orders domain.OrderService, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, logger: logger}
}

// List handles GET /orders
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	history, err := h.orders.History(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if history == nil {
		history = []domain.OrderSnapshot{}
	}
	writeJSON(w, h.logger, http.StatusOK, history)
}

// Latest handles GET /orders/latest
func (h *OrdersHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.orders.Latest(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, snapshot)
}

// Get handles GET /orders/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, snapshot)
}

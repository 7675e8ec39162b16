package storefront

import (
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/shipping"
)

// CheckoutHandler drives the checkout wizard over JSON.
type CheckoutHandler struct {
	checkout domain.CheckoutService
	stations shipping.StationDirectory
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout domain.CheckoutService, stations shipping.StationDirectory, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, stations: stations, logger: logger}
}

// Begin handles POST /checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkout.Begin(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, state)
}

// Get handles GET /checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkout.Get(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, state)
}

// SetDelivery handles PUT /checkout/delivery
func (h *CheckoutHandler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	var sel domain.DeliverySelection
	if err := readJSON(r, &sel); err != nil {
		writeError(w, h.logger, domain.Invalid("checkout.set_delivery", "Invalid request body"))
		return
	}
	state, err := h.checkout.SetDelivery(r.Context(), sel)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, state)
}

// SetContact handles PUT /checkout/contact
func (h *CheckoutHandler) SetContact(w http.ResponseWriter, r *http.Request) {
	var contact domain.ContactInfo
	if err := readJSON(r, &contact); err != nil {
		writeError(w, h.logger, domain.Invalid("checkout.set_contact", "Invalid request body"))
		return
	}
	state, err := h.checkout.SetContact(r.Context(), contact)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, state)
}

// SetPayment handles PUT /checkout/payment
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Method domain.PaymentMethod `json:"method"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, h.logger, domain.Invalid("checkout.set_payment", "Invalid request body"))
		return
	}
	state, err := h.checkout.SetPayment(r.Context(), body.Method)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, state)
}

// Next handles POST /checkout/next
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkout.Next(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	// A blocked gate is reported in the state, not as an HTTP error.
	writeJSON(w, h.logger, http.StatusOK, state)
}

// Back handles POST /checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkout.Back(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, state)
}

// Quote handles GET /checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.checkout.Quote(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, quote)
}

// PlaceOrder handles POST /checkout/place-order
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TermsAccepted bool `json:"terms_accepted"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, h.logger, domain.Invalid("checkout.place_order", "Invalid request body"))
		return
	}
	snapshot, err := h.checkout.PlaceOrder(r.Context(), body.TermsAccepted)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, snapshot)
}

// Stations handles GET /pickup-stations
func (h *CheckoutHandler) Stations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.Stations(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stations)
}

// Station handles GET /pickup-stations/{id}
func (h *CheckoutHandler) Station(w http.ResponseWriter, r *http.Request) {
	station, err := h.stations.Station(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.NotFound("checkout.station", "pickup station", r.PathValue("id")))
		return
	}
	writeJSON(w, h.logger, http.StatusOK, station)
}

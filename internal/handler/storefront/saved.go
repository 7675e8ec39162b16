package storefront

import (
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/service"
)

// SavedHandler manages per-shop saved-for-later lists.
type SavedHandler struct {
	saved  *service.SavedService
	logger *slog.Logger
}

// NewSavedHandler creates a new saved-for-later handler
func NewSavedHandler(saved *service.SavedService, logger *slog.Logger) *SavedHandler {
	return &SavedHandler{saved: saved, logger: logger}
}

// List handles GET /saved/{shop}
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.saved.List(r.Context(), r.PathValue("shop"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []domain.CartLineItem{}
	}
	writeJSON(w, h.logger, http.StatusOK, items)
}

// Save handles POST /saved/{shop}/{item}
func (h *SavedHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.saved.Save(r.Context(), r.PathValue("shop"), r.PathValue("item")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

// Restore handles POST /saved/{shop}/{item}/restore
func (h *SavedHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if err := h.saved.Restore(r.Context(), r.PathValue("shop"), r.PathValue("item")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

// Remove handles DELETE /saved/{shop}/{item}
func (h *SavedHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.saved.Remove(r.Context(), r.PathValue("shop"), r.PathValue("item")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

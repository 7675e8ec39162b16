package storefront

import (
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// ThemeHandler exposes the theme preference and resolved palette.
type ThemeHandler struct {
	theme  domain.ThemeService
	logger *slog.Logger
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(theme domain.ThemeService, logger *slog.Logger) *ThemeHandler {
	return &ThemeHandler{theme: theme, logger: logger}
}

// themeView is the full theme state returned to clients.
type themeView struct {
	Preference domain.ThemePreference `json:"preference"`
	Resolved   domain.Palette         `json:"resolved"`
	IsDark     bool                   `json:"is_dark"`
}

func (h *ThemeHandler) view() themeView {
	return themeView{
		Preference: h.theme.Preference(),
		Resolved:   h.theme.Resolved(),
		IsDark:     h.theme.IsDark(),
	}
}

// Get handles GET /theme
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.view())
}

// SetMode handles PUT /theme/mode
func (h *ThemeHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode domain.ThemeMode `json:"mode"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, h.logger, domain.Invalid("theme.set_mode", "Invalid request body"))
		return
	}
	if err := h.theme.SetMode(body.Mode); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.view())
}

// UpdatePalette handles PUT /theme/palette
func (h *ThemeHandler) UpdatePalette(w http.ResponseWriter, r *http.Request) {
	var patch domain.PalettePatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, h.logger, domain.Invalid("theme.update_palette", "Invalid request body"))
		return
	}
	if err := h.theme.UpdateCustomPalette(patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.view())
}

// Reset handles POST /theme/reset
func (h *ThemeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.theme.ResetToSystem(); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.view())
}

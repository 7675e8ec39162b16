// Package storefront holds the JSON handlers for the shopper-facing API.
package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// writeJSON encodes v with the given status. Encoding failures are
// logged; headers are already gone by then.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// readJSON decodes the request body into v, rejecting unknown fields.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// errorResponse is the wire shape for failures.
type errorResponse struct {
	Error       string            `json:"error"`
	Code        string            `json:"code,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// writeError maps a domain error to its HTTP status and body.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	status := statusFromCode(code)

	resp := errorResponse{Error: domain.ErrorMessage(err), Code: code}
	if fields := domain.GetValidationFields(err); fields != nil {
		resp.FieldErrors = fields
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, logger, status, resp)
}

func statusFromCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.EGONE:
		return http.StatusGone
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

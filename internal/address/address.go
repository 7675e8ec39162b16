// Package address validates courier delivery destinations.
package address

import (
	"context"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// Validator checks whether a logistics address is deliverable.
// Implementations can call external geocoding APIs; the built-in
// NigeriaValidator works from a fixed state directory.
type Validator interface {
	// Validate checks the address. Even when the address is valid the
	// caller should adopt Normalized, which carries canonical casing.
	Validate(ctx context.Context, addr domain.LogisticsAddress) (*Result, error)
}

// Result is the outcome of address validation.
type Result struct {
	Valid      bool
	Normalized *domain.LogisticsAddress // set when Valid
	Errors     map[string]string        // field name to message, set when not Valid
}

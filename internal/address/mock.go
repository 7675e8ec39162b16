package address

import (
	"context"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// MockValidator is a test implementation of Validator.
type MockValidator struct {
	ValidateFunc func(ctx context.Context, addr domain.LogisticsAddress) (*Result, error)
}

// Validate delegates to the configured function. Without one, every
// address passes unchanged.
func (m *MockValidator) Validate(ctx context.Context, addr domain.LogisticsAddress) (*Result, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, addr)
	}
	normalized := addr
	return &Result{Valid: true, Normalized: &normalized}, nil
}

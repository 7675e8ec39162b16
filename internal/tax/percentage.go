package tax

import (
	"context"
	"fmt"
	"math"
)

// PercentageCalculator applies a single flat rate to the item line
// totals. Amounts round half up to the nearest minor unit.
type PercentageCalculator struct {
	rate float64
}

// NewPercentageCalculator creates a flat-rate calculator.
// The rate is a fraction, e.g. 0.01 for 1%.
func NewPercentageCalculator(rate float64) (*PercentageCalculator, error) {
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("tax rate must be in [0, 1), got %v", rate)
	}
	return &PercentageCalculator{rate: rate}, nil
}

// CalculateTax applies the configured rate to the item subtotal.
func (c *PercentageCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	var base int64
	for _, item := range params.LineItems {
		base += item.LineTotal
	}

	amount := int64(math.Round(float64(base) * c.rate))
	return &TaxResult{TotalTax: amount, Rate: c.rate}, nil
}

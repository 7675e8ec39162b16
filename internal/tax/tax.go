package tax

import "context"

// Calculator defines the interface for tax calculation.
// Implementations: PercentageCalculator, NoTaxCalculator
type Calculator interface {
	// CalculateTax computes tax for order line items. Delivery fees are
	// never part of the taxable base. Returns tax amount in minor
	// currency units.
	CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error)
}

// TaxParams contains all information needed for tax calculation.
type TaxParams struct {
	LineItems []LineItem
	Region    string
}

// LineItem represents a single item being taxed.
type LineItem struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice int64
	LineTotal int64
}

// TaxResult contains the calculated tax amount.
type TaxResult struct {
	TotalTax int64
	Rate     float64
}

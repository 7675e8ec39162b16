package shipping

import "context"

// FlatRateProvider charges a fixed logistics fee, waived once the items
// subtotal rises strictly above the free-delivery threshold. An order
// sitting exactly at the threshold still pays the fee.
type FlatRateProvider struct {
	baseFee   int64
	threshold int64
}

// NewFlatRateProvider creates a flat-rate logistics provider.
// A threshold of zero disables the waiver entirely when baseFee > 0
// and subtotals start at 1.
func NewFlatRateProvider(baseFee, threshold int64) *FlatRateProvider {
	return &FlatRateProvider{baseFee: baseFee, threshold: threshold}
}

func (p *FlatRateProvider) GetFee(ctx context.Context, params FeeParams) (*Fee, error) {
	if params.ItemsSubtotal > p.threshold {
		return &Fee{Amount: 0, Waived: true}, nil
	}
	return &Fee{Amount: p.baseFee}, nil
}

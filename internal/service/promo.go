package service

import (
	"context"
	"strings"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// Promo is a marketplace discount code.
type Promo struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Percent     int    `json:"percent"`
	// MinSubtotal is the smallest cart subtotal, in minor units, the
	// code applies to.
	MinSubtotal int64 `json:"min_subtotal"`
}

// PromoService resolves promo codes against a fixed table. Lookup is
// case-insensitive.
type PromoService struct {
	codes map[string]Promo
}

// NewPromoService creates the promo lookup over the given codes.
func NewPromoService(codes []Promo) *PromoService {
	byCode := make(map[string]Promo, len(codes))
	for _, p := range codes {
		byCode[strings.ToUpper(p.Code)] = p
	}
	return &PromoService{codes: byCode}
}

// DefaultPromos is the built-in promo table.
func DefaultPromos() []Promo {
	return []Promo{
		{Code: "KASUWA10", Description: "10% off your first order", Percent: 10, MinSubtotal: 500000},
		{Code: "MARKETDAY", Description: "5% off market day specials", Percent: 5},
		{Code: "BULK20", Description: "20% off bulk orders", Percent: 20, MinSubtotal: 5000000},
	}
}

// Lookup resolves a code. Unknown codes return ENOTFOUND; a known code
// below its minimum subtotal returns EINVALID.
func (s *PromoService) Lookup(ctx context.Context, code string, subtotal int64) (*Promo, error) {
	const op = "promo.lookup"

	promo, ok := s.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, domain.NotFound(op, "promo code", code)
	}
	if subtotal < promo.MinSubtotal {
		return nil, domain.Invalid(op, "Cart subtotal is below the minimum for this code")
	}
	return &promo, nil
}

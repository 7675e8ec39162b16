package shipping

import (
	"context"
	"errors"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

var (
	// ErrNoDelivery is returned when a quote is requested without a
	// delivery selection.
	ErrNoDelivery = errors.New("delivery selection required")

	// ErrUnknownStation is returned for a pickup station ID that is not
	// in the directory.
	ErrUnknownStation = errors.New("unknown pickup station")
)

// Provider computes the delivery fee for an order.
// Implementations: FlatRateProvider, StationProvider, MethodProvider.
type Provider interface {
	// GetFee returns the delivery fee in minor currency units for the
	// given selection and items subtotal.
	GetFee(ctx context.Context, params FeeParams) (*Fee, error)
}

// FeeParams contains parameters for computing a delivery fee.
type FeeParams struct {
	Delivery      domain.DeliverySelection
	ItemsSubtotal int64
}

// Fee is a computed delivery fee.
type Fee struct {
	Amount int64
	// Waived is set when a qualifying threshold zeroed the fee.
	Waived bool
}

// StationDirectory lists the pickup stations available at checkout.
type StationDirectory interface {
	Stations(ctx context.Context) ([]domain.PickupStation, error)
	Station(ctx context.Context, id string) (*domain.PickupStation, error)
}

// MethodProvider dispatches fee computation by delivery method.
type MethodProvider struct {
	logistics Provider
	pickup    Provider
}

// NewMethodProvider routes logistics quotes to the logistics provider
// and pickup quotes to the pickup provider.
func NewMethodProvider(logistics, pickup Provider) *MethodProvider {
	return &MethodProvider{logistics: logistics, pickup: pickup}
}

func (p *MethodProvider) GetFee(ctx context.Context, params FeeParams) (*Fee, error) {
	switch params.Delivery.Method {
	case domain.DeliveryLogistics:
		return p.logistics.GetFee(ctx, params)
	case domain.DeliveryPickupStation:
		return p.pickup.GetFee(ctx, params)
	default:
		return nil, ErrNoDelivery
	}
}

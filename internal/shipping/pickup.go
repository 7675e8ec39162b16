package shipping

import (
	"context"
	"fmt"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// StationProvider charges the handling fee of the selected pickup station.
// Handling fees are never waived, whatever the order subtotal.
type StationProvider struct {
	stations map[string]domain.PickupStation
	order    []string
}

// NewStationProvider creates a pickup provider over a fixed station
// directory. Listing order follows the order given.
func NewStationProvider(stations []domain.PickupStation) *StationProvider {
	byID := make(map[string]domain.PickupStation, len(stations))
	order := make([]string, 0, len(stations))
	for _, s := range stations {
		byID[s.ID] = s
		order = append(order, s.ID)
	}
	return &StationProvider{stations: byID, order: order}
}

func (p *StationProvider) GetFee(ctx context.Context, params FeeParams) (*Fee, error) {
	station, ok := p.stations[params.Delivery.StationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, params.Delivery.StationID)
	}
	return &Fee{Amount: station.HandlingFee}, nil
}

// Stations lists all pickup stations in directory order.
func (p *StationProvider) Stations(ctx context.Context) ([]domain.PickupStation, error) {
	out := make([]domain.PickupStation, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.stations[id])
	}
	return out, nil
}

// Station looks up a single station by ID.
func (p *StationProvider) Station(ctx context.Context, id string) (*domain.PickupStation, error) {
	station, ok := p.stations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, id)
	}
	return &station, nil
}

// DefaultStations is the built-in pickup station directory.
func DefaultStations() []domain.PickupStation {
	return []domain.PickupStation{
		{ID: "ikeja-city-mall", Name: "Ikeja City Mall Hub", City: "Lagos", HandlingFee: 50000},
		{ID: "yaba-tech-road", Name: "Yaba Tech Road Station", City: "Lagos", HandlingFee: 30000},
		{ID: "wuse-zone-5", Name: "Wuse Zone 5 Station", City: "Abuja", HandlingFee: 40000},
		{ID: "ph-garrison", Name: "Garrison Junction Station", City: "Port Harcourt", HandlingFee: 35000},
	}
}

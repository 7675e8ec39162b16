// Package inventory simulates vendor stock levels. Levels come from a
// seeded generator so every run with the same seed produces the same
// stock, which keeps demos and tests reproducible.
package inventory

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// ErrInsufficientStock is returned when a reservation exceeds the
// available quantity.
var ErrInsufficientStock = fmt.Errorf("insufficient stock")

// Simulator holds per-item stock levels and active price drops behind
// a mutex.
type Simulator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	stock     map[string]int
	discounts map[string]int
	order     []string
}

// PriceDrop reports a discount that started during a refresh.
type PriceDrop struct {
	ItemID  string
	Percent int
}

// NewSimulator seeds initial stock for the given item IDs.
// Initial levels are 3..52 units, drawn deterministically from seed.
func NewSimulator(seed int64, itemIDs []string) *Simulator {
	ids := make([]string, len(itemIDs))
	copy(ids, itemIDs)
	sort.Strings(ids)

	rng := rand.New(rand.NewSource(seed))
	stock := make(map[string]int, len(ids))
	for _, id := range ids {
		stock[id] = 3 + rng.Intn(50)
	}
	return &Simulator{
		rng:       rng,
		stock:     stock,
		discounts: make(map[string]int),
		order:     ids,
	}
}

// Stock returns the current level for an item. Unknown items read as
// zero.
func (s *Simulator) Stock(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[itemID]
}

// Levels returns a snapshot of all stock levels.
func (s *Simulator) Levels() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.stock))
	for id, n := range s.stock {
		out[id] = n
	}
	return out
}

// Reserve deducts quantity units of an item, failing without any
// change when stock is short.
func (s *Simulator) Reserve(ctx context.Context, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	have := s.stock[itemID]
	if have < quantity {
		return fmt.Errorf("%w: %s has %d, want %d", ErrInsufficientStock, itemID, have, quantity)
	}
	s.stock[itemID] = have - quantity
	return nil
}

// Discount returns the active price-drop percent for an item, or 0.
func (s *Simulator) Discount(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discounts[itemID]
}

// Refresh simulates vendor restocks and walk-in sales by jittering
// every level within [-3, +5], floored at zero, and flips price drops
// on and off. Iteration follows the sorted ID order so the drift is
// deterministic for a given seed. Returns the drops that started in
// this pass.
func (s *Simulator) Refresh(ctx context.Context) []PriceDrop {
	s.mu.Lock()
	defer s.mu.Unlock()

	var started []PriceDrop
	for _, id := range s.order {
		delta := s.rng.Intn(9) - 3
		next := s.stock[id] + delta
		if next < 0 {
			next = 0
		}
		s.stock[id] = next

		if _, active := s.discounts[id]; active {
			if s.rng.Intn(4) == 0 {
				delete(s.discounts, id)
			}
		} else if s.rng.Intn(12) == 0 {
			pct := 5 + 5*s.rng.Intn(6)
			s.discounts[id] = pct
			started = append(started, PriceDrop{ItemID: id, Percent: pct})
		}
	}
	return started
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/kv"
	"github.com/okonkwolabs/kasuwa/internal/pricing"
	"github.com/okonkwolabs/kasuwa/internal/telemetry"
)

type cartService struct {
	mu      sync.Mutex
	items   []domain.CartLineItem
	store   kv.Store
	logger  *slog.Logger
	subs    map[int]func(domain.CartSummary)
	nextSub int
}

// Compile-time check to ensure cartService implements domain.CartService.
var _ domain.CartService = (*cartService)(nil)

// NewCartService loads the persisted cart and returns the service that
// owns it. A corrupt record is discarded and the cart starts empty.
func NewCartService(ctx context.Context, store kv.Store, logger *slog.Logger) domain.CartService {
	s := &cartService{
		store:  store,
		logger: logger.With(slog.String("component", "cart_service")),
		subs:   make(map[int]func(domain.CartSummary)),
	}

	var items []domain.CartLineItem
	err := store.Get(ctx, kv.KeyCart, &items)
	switch {
	case err == nil:
		s.items = items
	case errors.Is(err, kv.ErrNotFound):
		// First run, nothing persisted yet.
	case errors.Is(err, kv.ErrCorrupt):
		s.logger.WarnContext(ctx, "persisted cart corrupt, starting empty")
	default:
		s.logger.ErrorContext(ctx, "failed to load cart", slog.String("error", err.Error()))
	}
	return s
}

func (s *cartService) Add(ctx context.Context, item domain.CartLineItem) (*domain.CartSummary, error) {
	if item.ID == "" || item.Name == "" {
		return nil, domain.ErrInvalidLineItem
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	summary := s.summaryLocked()
	s.mu.Unlock()

	s.persist(ctx)
	s.notify(*summary)

	if telemetry.Business != nil {
		telemetry.Business.CartItemsAdd.WithLabelValues(item.ID).Inc()
		telemetry.Business.CartUpdated.WithLabelValues("add").Inc()
	}
	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("item_id", item.ID),
		slog.Int("quantity", item.Quantity),
		slog.Bool("merged", merged))
	return summary, nil
}

func (s *cartService) Remove(ctx context.Context, id string) (*domain.CartSummary, error) {
	s.mu.Lock()
	removed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	summary := s.summaryLocked()
	s.mu.Unlock()

	if !removed {
		// Removing an absent item is a no-op, no persist or notify.
		return summary, nil
	}

	s.persist(ctx)
	s.notify(*summary)

	if telemetry.Business != nil {
		telemetry.Business.CartUpdated.WithLabelValues("remove").Inc()
	}
	s.logger.InfoContext(ctx, "item removed from cart", slog.String("item_id", id))
	return summary, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, id string, quantity int) (*domain.CartSummary, error) {
	// A quantity below one clamps to one. Removal never happens here;
	// it is its own explicit operation.
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			changed = s.items[i].Quantity != quantity
			s.items[i].Quantity = quantity
			break
		}
	}
	summary := s.summaryLocked()
	s.mu.Unlock()

	if !changed {
		return summary, nil
	}

	s.persist(ctx)
	s.notify(*summary)

	if telemetry.Business != nil {
		telemetry.Business.CartUpdated.WithLabelValues("quantity").Inc()
	}
	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("item_id", id),
		slog.Int("quantity", quantity))
	return summary, nil
}

func (s *cartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	summary := s.summaryLocked()
	s.mu.Unlock()

	s.persist(ctx)
	s.notify(*summary)

	if telemetry.Business != nil {
		telemetry.Business.CartCleared.Inc()
	}
	s.logger.InfoContext(ctx, "cart cleared")
	return nil
}

func (s *cartService) ItemCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}

func (s *cartService) Summary() *domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *cartService) Subscribe(fn func(domain.CartSummary)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// summaryLocked derives totals from the items. Caller holds s.mu.
func (s *cartService) summaryLocked() *domain.CartSummary {
	items := make([]domain.CartLineItem, len(s.items))
	copy(items, s.items)
	return pricing.Summarize(items)
}

// persist writes the cart best-effort. A write failure is logged and
// swallowed; the in-memory cart stays authoritative.
func (s *cartService) persist(ctx context.Context) {
	s.mu.Lock()
	items := make([]domain.CartLineItem, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	if err := s.store.Put(ctx, kv.KeyCart, items); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("error", err.Error()),
			slog.Int("items", len(items)))
	}
}

// notify dispatches to subscribers in registration order, outside the
// lock so a subscriber can call back into the service.
func (s *cartService) notify(summary domain.CartSummary) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(domain.CartSummary), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(summary)
	}
}

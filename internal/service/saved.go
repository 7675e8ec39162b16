package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/kv"
	"github.com/okonkwolabs/kasuwa/internal/telemetry"
)

// SavedService keeps per-shop saved-for-later lists. Entries are keyed
// by (shop domain, item ID) so the same SKU saved from two shops stays
// two independent entries.
type SavedService struct {
	mu     sync.Mutex
	store  kv.Store
	cart   domain.CartService
	logger *slog.Logger
}

// NewSavedService creates the saved-for-later service.
func NewSavedService(store kv.Store, cart domain.CartService, logger *slog.Logger) *SavedService {
	return &SavedService{
		store:  store,
		cart:   cart,
		logger: logger.With(slog.String("component", "saved_service")),
	}
}

func (s *SavedService) list(ctx context.Context, shopDomain string) ([]domain.CartLineItem, error) {
	var items []domain.CartLineItem
	err := s.store.Get(ctx, kv.SavedPrefix+shopDomain, &items)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, kv.ErrCorrupt) {
			s.logger.WarnContext(ctx, "saved list corrupt, starting empty",
				slog.String("shop_domain", shopDomain))
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *SavedService) put(ctx context.Context, shopDomain string, items []domain.CartLineItem) error {
	const op = "saved.put"
	if len(items) == 0 {
		if err := s.store.Delete(ctx, kv.SavedPrefix+shopDomain); err != nil {
			return domain.Internal(err, op, "Failed to clear saved list")
		}
		return nil
	}
	if err := s.store.Put(ctx, kv.SavedPrefix+shopDomain, items); err != nil {
		return domain.Internal(err, op, "Failed to write saved list")
	}
	return nil
}

// Save moves a cart line item into the shop's saved list. The item is
// removed from the cart; saving an item already on the list replaces it.
func (s *SavedService) Save(ctx context.Context, shopDomain, itemID string) error {
	const op = "saved.save"
	if shopDomain == "" {
		return domain.Invalid(op, "Shop domain is required")
	}

	summary := s.cart.Summary()
	var found *domain.CartLineItem
	for i := range summary.Items {
		if summary.Items[i].ID == itemID {
			found = &summary.Items[i]
			break
		}
	}
	if found == nil {
		return domain.NotFound(op, "cart item", itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list(ctx, shopDomain)
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if items[i].ID == itemID {
			items[i] = *found
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, *found)
	}
	if err := s.put(ctx, shopDomain, items); err != nil {
		return err
	}

	if _, err := s.cart.Remove(ctx, itemID); err != nil {
		return err
	}
	if telemetry.Business != nil {
		telemetry.Business.SavedForLater.WithLabelValues("save").Inc()
	}
	return nil
}

// List returns the saved items for one shop.
func (s *SavedService) List(ctx context.Context, shopDomain string) ([]domain.CartLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(ctx, shopDomain)
}

// Restore moves a saved item back into the cart, merging quantities if
// the cart already holds that product.
func (s *SavedService) Restore(ctx context.Context, shopDomain, itemID string) error {
	const op = "saved.restore"

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list(ctx, shopDomain)
	if err != nil {
		return err
	}
	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.NotFound(op, "saved item", itemID)
	}

	if _, err := s.cart.Add(ctx, items[idx]); err != nil {
		return err
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := s.put(ctx, shopDomain, items); err != nil {
		return err
	}
	if telemetry.Business != nil {
		telemetry.Business.SavedForLater.WithLabelValues("restore").Inc()
	}
	return nil
}

// Remove drops a saved item without touching the cart. Removing an
// absent entry is a no-op.
func (s *SavedService) Remove(ctx context.Context, shopDomain, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list(ctx, shopDomain)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == itemID {
			items = append(items[:i], items[i+1:]...)
			if err := s.put(ctx, shopDomain, items); err != nil {
				return err
			}
			if telemetry.Business != nil {
				telemetry.Business.SavedForLater.WithLabelValues("remove").Inc()
			}
			return nil
		}
	}
	return nil
}

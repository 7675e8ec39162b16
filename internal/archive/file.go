package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/kv"
)

// FileArchive keeps the order history in the key/value store. The full
// history lives under one key, the latest order under another so the
// common "show my last order" read stays a single record fetch.
type FileArchive struct {
	store  kv.Store
	logger *slog.Logger
}

// NewFileArchive creates a store-backed archive.
func NewFileArchive(store kv.Store, logger *slog.Logger) *FileArchive {
	return &FileArchive{
		store:  store,
		logger: logger.With(slog.String("component", "order_archive")),
	}
}

func (a *FileArchive) history(ctx context.Context) ([]domain.OrderSnapshot, error) {
	var orders []domain.OrderSnapshot
	err := a.store.Get(ctx, kv.KeyOrderHistory, &orders)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, kv.ErrCorrupt) {
			a.logger.WarnContext(ctx, "order history corrupt, starting empty")
			return nil, nil
		}
		return nil, err
	}
	return orders, nil
}

func (a *FileArchive) Append(ctx context.Context, snapshot domain.OrderSnapshot) error {
	const op = "FileArchive.Append"

	orders, err := a.history(ctx)
	if err != nil {
		return &domain.Error{Code: domain.EINTERNAL, Message: "Failed to read order history", Op: op, Err: err}
	}
	for _, existing := range orders {
		if existing.ID == snapshot.ID {
			return &domain.Error{Code: domain.ECONFLICT, Message: fmt.Sprintf("Order %s already archived", snapshot.ID), Op: op}
		}
	}

	orders = append(orders, snapshot)
	if err := a.store.Put(ctx, kv.KeyOrderHistory, orders); err != nil {
		return &domain.Error{Code: domain.EINTERNAL, Message: "Failed to write order history", Op: op, Err: err}
	}
	if err := a.store.Put(ctx, kv.KeyLatestOrder, snapshot); err != nil {
		// History is already durable; a stale latest pointer heals on
		// the next append.
		a.logger.ErrorContext(ctx, "failed to update latest order", slog.String("error", err.Error()))
	}
	return nil
}

func (a *FileArchive) Latest(ctx context.Context) (*domain.OrderSnapshot, error) {
	var snapshot domain.OrderSnapshot
	err := a.store.Get(ctx, kv.KeyLatestOrder, &snapshot)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) || errors.Is(err, kv.ErrCorrupt) {
			return nil, domain.ErrNoOrders
		}
		return nil, err
	}
	return &snapshot, nil
}

func (a *FileArchive) List(ctx context.Context) ([]domain.OrderSnapshot, error) {
	return a.history(ctx)
}

func (a *FileArchive) Get(ctx context.Context, id string) (*domain.OrderSnapshot, error) {
	orders, err := a.history(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

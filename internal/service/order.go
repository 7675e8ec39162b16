package service

import (
	"context"

	"github.com/okonkwolabs/kasuwa/internal/archive"
	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// orderService reads order history straight from the archive. Writes
// only ever happen through checkout.
type orderService struct {
	orders archive.Archive
}

// Compile-time check to ensure orderService implements domain.OrderService.
var _ domain.OrderService = (*orderService)(nil)

// NewOrderService creates the read side of the order history.
func NewOrderService(orders archive.Archive) domain.OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) Latest(ctx context.Context) (*domain.OrderSnapshot, error) {
	return s.orders.Latest(ctx)
}

func (s *orderService) History(ctx context.Context) ([]domain.OrderSnapshot, error) {
	return s.orders.List(ctx)
}

func (s *orderService) Get(ctx context.Context, id string) (*domain.OrderSnapshot, error) {
	return s.orders.Get(ctx, id)
}

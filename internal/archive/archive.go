// Package archive stores placed order snapshots. Snapshots are
// immutable once appended; the archive only ever grows.
package archive

import (
	"context"

	"github.com/okonkwolabs/kasuwa/internal/domain"
)

// Archive persists order snapshots.
// Implementations: FileArchive, postgres.Archive.
type Archive interface {
	// Append stores a snapshot. Returns ECONFLICT for a duplicate ID.
	Append(ctx context.Context, snapshot domain.OrderSnapshot) error

	// Latest returns the most recently placed order, or ErrNoOrders.
	Latest(ctx context.Context) (*domain.OrderSnapshot, error)

	// List returns all snapshots, oldest first.
	List(ctx context.Context) ([]domain.OrderSnapshot, error)

	// Get returns a snapshot by order ID, or ErrOrderNotFound.
	Get(ctx context.Context, id string) (*domain.OrderSnapshot, error)
}

// Package kv is the durable key/value record layer. Stores hold one JSON
// document per key. Durability is best-effort: readers recover from corrupt
// records by discarding them, writers surface errors for the caller to log.
package kv

import "context"

// Record keys used by the stores. Saved-for-later lists are namespaced
// per shop domain under SavedPrefix.
const (
	KeyCart               = "cart"
	KeyCartButtonPosition = "cart_button_position"
	KeyThemeMode          = "theme_mode"
	KeyThemePalette       = "theme_palette"
	KeyLatestOrder        = "orders/latest"
	KeyOrderHistory       = "orders/history"
	SavedPrefix           = "saved/"
)

// Store defines the key/value record store operations.
// Implementations can use the local filesystem or any other backend.
type Store interface {
	// Get decodes the record at key into out. Returns ErrNotFound when the
	// key is absent. A record that cannot be decoded is discarded and
	// reported as ErrCorrupt; a subsequent Get returns ErrNotFound.
	Get(ctx context.Context, key string, out any) error

	// Put encodes v and stores it at key, replacing any existing record.
	Put(ctx context.Context, key string, v any) error

	// Delete removes the record at key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

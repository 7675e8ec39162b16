package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/kv"
)

// CartButtonPosition is the floating cart button's docked corner plus
// pixel offsets from that corner.
type CartButtonPosition struct {
	Corner  string `json:"corner"`
	OffsetX int    `json:"offset_x"`
	OffsetY int    `json:"offset_y"`
}

// Valid corners for the floating cart button.
const (
	CornerBottomRight = "bottom_right"
	CornerBottomLeft  = "bottom_left"
	CornerTopRight    = "top_right"
	CornerTopLeft     = "top_left"
)

// DefaultCartButtonPosition is used when nothing is persisted.
var DefaultCartButtonPosition = CartButtonPosition{Corner: CornerBottomRight, OffsetX: 16, OffsetY: 16}

func validCorner(c string) bool {
	switch c {
	case CornerBottomRight, CornerBottomLeft, CornerTopRight, CornerTopLeft:
		return true
	}
	return false
}

// PrefsService holds small UI preferences that survive restarts.
type PrefsService struct {
	mu       sync.Mutex
	position CartButtonPosition
	store    kv.Store
	logger   *slog.Logger
}

// NewPrefsService loads persisted preferences, falling back to
// defaults on missing or corrupt records.
func NewPrefsService(ctx context.Context, store kv.Store, logger *slog.Logger) *PrefsService {
	s := &PrefsService{
		position: DefaultCartButtonPosition,
		store:    store,
		logger:   logger.With(slog.String("component", "prefs_service")),
	}

	var pos CartButtonPosition
	err := store.Get(ctx, kv.KeyCartButtonPosition, &pos)
	switch {
	case err == nil:
		if validCorner(pos.Corner) {
			s.position = pos
		} else {
			s.logger.WarnContext(ctx, "unknown cart button corner, using default",
				slog.String("corner", pos.Corner))
		}
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		s.logger.WarnContext(ctx, "cart button position corrupt, using default")
	default:
		s.logger.ErrorContext(ctx, "failed to load prefs", slog.String("error", err.Error()))
	}
	return s
}

// SetCartButtonPosition validates and persists the new position.
// Negative offsets clamp to zero.
func (s *PrefsService) SetCartButtonPosition(ctx context.Context, pos CartButtonPosition) error {
	const op = "prefs.set_cart_button_position"

	if !validCorner(pos.Corner) {
		return domain.Invalid(op, "Unknown corner")
	}
	if pos.OffsetX < 0 {
		pos.OffsetX = 0
	}
	if pos.OffsetY < 0 {
		pos.OffsetY = 0
	}

	s.mu.Lock()
	s.position = pos
	s.mu.Unlock()

	if err := s.store.Put(ctx, kv.KeyCartButtonPosition, pos); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart button position",
			slog.String("error", err.Error()))
	}
	return nil
}

// CartButtonPosition returns the current position.
func (s *PrefsService) CartButtonPosition() CartButtonPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/kv"
	"github.com/okonkwolabs/kasuwa/internal/telemetry"
)

type themeService struct {
	mu     sync.Mutex
	pref   domain.ThemePreference
	system domain.SystemScheme
	store  kv.Store
	logger *slog.Logger
}

// Compile-time check to ensure themeService implements domain.ThemeService.
var _ domain.ThemeService = (*themeService)(nil)

// NewThemeService loads the persisted theme preference. A fresh store
// starts in system mode with the light palette as the custom base;
// corrupt records fall back to dark mode.
func NewThemeService(ctx context.Context, store kv.Store, system domain.SystemScheme, logger *slog.Logger) domain.ThemeService {
	s := &themeService{
		pref: domain.ThemePreference{
			Mode:          domain.ThemeSystem,
			CustomPalette: domain.LightPalette,
		},
		system: system,
		store:  store,
		logger: logger.With(slog.String("component", "theme_service")),
	}

	var mode domain.ThemeMode
	if err := store.Get(ctx, kv.KeyThemeMode, &mode); err == nil {
		if domain.ValidThemeMode(mode) {
			s.pref.Mode = mode
		} else {
			s.logger.WarnContext(ctx, "unknown persisted theme mode, using system",
				slog.String("mode", string(mode)))
		}
	} else if errors.Is(err, kv.ErrCorrupt) {
		s.logger.WarnContext(ctx, "persisted theme mode corrupt, falling back to dark")
		s.pref.Mode = domain.ThemeDark
		s.pref.CustomPalette = domain.DarkPalette
	}

	var palette domain.Palette
	if err := store.Get(ctx, kv.KeyThemePalette, &palette); err == nil {
		s.pref.CustomPalette = palette
	} else if errors.Is(err, kv.ErrCorrupt) {
		s.logger.WarnContext(ctx, "persisted palette corrupt, keeping built-in palette")
	}
	return s
}

func (s *themeService) SetMode(mode domain.ThemeMode) error {
	if !domain.ValidThemeMode(mode) {
		return domain.Invalid("theme.set_mode", fmt.Sprintf("Unknown theme mode %q", mode))
	}

	s.mu.Lock()
	s.pref.Mode = mode
	s.mu.Unlock()

	s.persist()
	if telemetry.Business != nil {
		telemetry.Business.ThemeChanges.WithLabelValues(string(mode)).Inc()
	}
	return nil
}

func (s *themeService) UpdateCustomPalette(patch domain.PalettePatch) error {
	s.mu.Lock()
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&s.pref.CustomPalette.Primary, patch.Primary)
	apply(&s.pref.CustomPalette.Background, patch.Background)
	apply(&s.pref.CustomPalette.Foreground, patch.Foreground)
	apply(&s.pref.CustomPalette.Surface, patch.Surface)
	apply(&s.pref.CustomPalette.Border, patch.Border)
	// Editing colors implies wanting to see them.
	s.pref.Mode = domain.ThemeCustom
	s.mu.Unlock()

	s.persist()
	if telemetry.Business != nil {
		telemetry.Business.ThemeChanges.WithLabelValues(string(domain.ThemeCustom)).Inc()
	}
	return nil
}

func (s *themeService) ResetToSystem() error {
	scheme := s.system()

	s.mu.Lock()
	s.pref.Mode = domain.ThemeSystem
	if scheme == domain.ThemeDark {
		s.pref.CustomPalette = domain.DarkPalette
	} else {
		s.pref.CustomPalette = domain.LightPalette
	}
	s.mu.Unlock()

	s.persist()
	if telemetry.Business != nil {
		telemetry.Business.ThemeChanges.WithLabelValues(string(domain.ThemeSystem)).Inc()
	}
	return nil
}

func (s *themeService) Preference() domain.ThemePreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pref
}

func (s *themeService) Resolved() domain.Palette {
	s.mu.Lock()
	pref := s.pref
	s.mu.Unlock()

	switch pref.Mode {
	case domain.ThemeDark:
		return domain.DarkPalette
	case domain.ThemeCustom:
		return pref.CustomPalette
	case domain.ThemeSystem:
		if s.system() == domain.ThemeDark {
			return domain.DarkPalette
		}
		return domain.LightPalette
	default:
		return domain.LightPalette
	}
}

func (s *themeService) IsDark() bool {
	s.mu.Lock()
	pref := s.pref
	s.mu.Unlock()

	switch pref.Mode {
	case domain.ThemeDark:
		return true
	case domain.ThemeLight:
		return false
	case domain.ThemeSystem:
		return s.system() == domain.ThemeDark
	default:
		return domain.IsDarkBackground(pref.CustomPalette.Background)
	}
}

func (s *themeService) persist() {
	s.mu.Lock()
	pref := s.pref
	s.mu.Unlock()

	ctx := context.Background()
	if err := s.store.Put(ctx, kv.KeyThemeMode, pref.Mode); err != nil {
		s.logger.Error("failed to persist theme mode", slog.String("error", err.Error()))
	}
	if err := s.store.Put(ctx, kv.KeyThemePalette, pref.CustomPalette); err != nil {
		s.logger.Error("failed to persist palette", slog.String("error", err.Error()))
	}
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ThemeMode is the active color-scheme strategy.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
	ThemeCustom ThemeMode = "custom"
)

// ValidThemeMode reports whether mode is one of the four known modes.
func ValidThemeMode(mode ThemeMode) bool {
	switch mode {
	case ThemeLight, ThemeDark, ThemeSystem, ThemeCustom:
		return true
	}
	return false
}

// Palette is the fixed set of named color slots, each a hex color string.
type Palette struct {
	Primary    string `json:"primary"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Surface    string `json:"surface"`
	Border     string `json:"border"`
}

// PalettePatch carries partial color updates; nil slots are left unchanged.
type PalettePatch struct {
	Primary    *string `json:"primary,omitempty"`
	Background *string `json:"background,omitempty"`
	Foreground *string `json:"foreground,omitempty"`
	Surface    *string `json:"surface,omitempty"`
	Border     *string `json:"border,omitempty"`
}

// Built-in palettes used for the light and dark modes, and as the snap
// target when resetting to system.
var (
	LightPalette = Palette{
		Primary:    "#e85d27",
		Background: "#ffffff",
		Foreground: "#1a1a1a",
		Surface:    "#f5f5f5",
		Border:     "#e0e0e0",
	}

	DarkPalette = Palette{
		Primary:    "#ff7a45",
		Background: "#121212",
		Foreground: "#f0f0f0",
		Surface:    "#1e1e1e",
		Border:     "#333333",
	}
)

// ThemePreference is the persisted theme selection.
type ThemePreference struct {
	Mode          ThemeMode `json:"mode"`
	CustomPalette Palette   `json:"custom_palette"`
}

// SystemScheme reports the host environment's current light/dark signal.
// It must return ThemeLight or ThemeDark.
type SystemScheme func() ThemeMode

// ThemeService manages the active visual mode and custom palette.
type ThemeService interface {
	// SetMode switches mode. Switching to custom activates the currently
	// held custom palette immediately.
	SetMode(mode ThemeMode) error

	// UpdateCustomPalette merges partial color updates into the custom
	// palette and implicitly switches mode to custom.
	UpdateCustomPalette(patch PalettePatch) error

	// ResetToSystem sets mode to system and snaps the custom palette to
	// whichever built-in palette matches the current system signal.
	ResetToSystem() error

	// Preference returns the current persisted selection.
	Preference() ThemePreference

	// Resolved returns the palette active under the current mode.
	Resolved() Palette

	// IsDark reports whether dark-mode-dependent styling applies.
	IsDark() bool
}

// Luminance computes the perceived luminance of a hex color, normalized to
// [0,1], using 0.299R + 0.587G + 0.114B. Accepts "#rrggbb" or "rrggbb".
func Luminance(hex string) (float64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid hex color %q", hex)
	}

	r, err := strconv.ParseUint(s[0:2], 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	g, err := strconv.ParseUint(s[2:4], 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	b, err := strconv.ParseUint(s[4:6], 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255, nil
}

// IsDarkBackground classifies a background color as dark when its luminance
// is strictly below 0.5. Unparseable colors classify as dark, matching the
// dark default used for malformed persisted state.
func IsDarkBackground(hex string) bool {
	l, err := Luminance(hex)
	if err != nil {
		return true
	}
	return l < 0.5
}

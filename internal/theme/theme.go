// Package theme provides the desktop's colors. With no theme selected the
// terminal's own ANSI palette is used.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize selects the named bubbletint theme. An empty name disables
// theming. An unknown name falls back to the default tint and is reported.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()
	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the active theme, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

func pick(fallback string, fromTint func(t *tint.Tint) color.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	return fromTint(t)
}

// Window border colors
func BorderFocused() color.Color {
	return pick("12", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

func BorderUnfocused() color.Color {
	return pick("8", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func BorderPinned() color.Color {
	return pick("11", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

// Error is used for the close button and failed panels.
func Error() color.Color {
	return pick("9", func(t *tint.Tint) color.Color { return t.BrightRed })
}

func Muted() color.Color {
	return pick("8", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func Accent() color.Color {
	return pick("14", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

// Highlight marks keys in the help overlay.
func Highlight() color.Color {
	return pick("5", func(t *tint.Tint) color.Color { return t.Purple })
}

// Title bar buttons
func ButtonFg() color.Color {
	return pick("0", func(t *tint.Tint) color.Color { return t.Black })
}

func ButtonBg() color.Color {
	return pick("7", func(t *tint.Tint) color.Color { return t.White })
}

// Dock pills
func DockFg() color.Color {
	return pick("15", func(t *tint.Tint) color.Color { return t.BrightWhite })
}

func DockBg() color.Color {
	return pick("4", func(t *tint.Tint) color.Color { return t.Blue })
}

// Toolbar
func ToolbarFg() color.Color {
	return pick("15", func(t *tint.Tint) color.Color { return t.Fg })
}

func ToolbarBg() color.Color {
	return pick("236", func(t *tint.Tint) color.Color { return t.Bg })
}

// LogLevel colors a charm log level tag (ERRO, WARN, INFO, DEBU). Unknown
// tags get nil.
func LogLevel(tag string) color.Color {
	switch tag {
	case "ERRO":
		return Error()
	case "WARN":
		return pick("11", func(t *tint.Tint) color.Color { return t.Yellow })
	case "INFO":
		return pick("10", func(t *tint.Tint) color.Color { return t.Green })
	case "DEBU":
		return Muted()
	}
	return nil
}

package theme

import (
	"testing"

	"charm.land/lipgloss/v2"
)

func TestFallbackPalette(t *testing.T) {
	if err := Initialize(""); err != nil {
		t.Fatal(err)
	}
	if IsEnabled() || Current() != nil {
		t.Fatal("theming should be disabled")
	}

	tests := []struct {
		name string
		got  any
		want string
	}{
		{"focused", BorderFocused(), "12"},
		{"unfocused", BorderUnfocused(), "8"},
		{"pinned", BorderPinned(), "11"},
		{"error", Error(), "9"},
		{"dock", DockBg(), "4"},
		{"toolbar", ToolbarBg(), "236"},
		{"warn", LogLevel("WARN"), "11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != lipgloss.Color(tt.want) {
				t.Errorf("got %v, want ANSI %s", tt.got, tt.want)
			}
		})
	}

	if LogLevel("TRACE") != nil {
		t.Error("unknown level should have no color")
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	t.Cleanup(func() { _ = Initialize("") })

	if err := Initialize("no-such-theme"); err == nil {
		t.Error("expected an error for an unknown theme")
	}
	if !IsEnabled() {
		t.Fatal("unknown theme should still enable theming")
	}
	if cur := Current(); cur != nil && BorderFocused() != cur.BrightCyan {
		t.Error("focused border should come from the tint")
	}
}

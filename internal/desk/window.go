package desk

import (
	"regexp"
	"strings"

	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

// State is a window's position in the normal/minimized/maximized machine.
type State int

const (
	// Normal is the initial state: visible at its own rect.
	Normal State = iota
	// Minimized windows are hidden from the canvas and shown in the dock.
	Minimized
	// Maximized windows fill the container; their own rect is in PrevRect.
	Maximized
)

func (s State) String() string {
	switch s {
	case Minimized:
		return "minimized"
	case Maximized:
		return "maximized"
	default:
		return "normal"
	}
}

// Window is one open window record. The store owns every Window; callers
// receive copies.
type Window struct {
	ID      string
	BaseKey string
	Title   string
	Icon    string
	Z       int

	X      float64
	Y      float64
	Width  float64
	Height float64

	Minimized bool
	Maximized bool
	PrevRect  *geom.Rect

	Props registry.Props

	Pinned  bool
	PinBase int
}

// Rect returns the window's current geometry.
func (w Window) Rect() geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

func (w *Window) setRect(r geom.Rect) {
	w.X, w.Y, w.Width, w.Height = r.X, r.Y, r.Width, r.Height
}

// State reports the window's lifecycle state.
func (w Window) State() State {
	switch {
	case w.Maximized:
		return Maximized
	case w.Minimized:
		return Minimized
	default:
		return Normal
	}
}

// Token returns the window's board token prop. Only string tokens count.
func (w Window) Token() (string, bool) {
	t, ok := w.Props["winToken"].(string)
	return t, ok
}

func (w *Window) clone() Window {
	c := *w
	if w.PrevRect != nil {
		r := *w.PrevRect
		c.PrevRect = &r
	}
	if w.Props != nil {
		c.Props = make(registry.Props, len(w.Props))
		for k, v := range w.Props {
			c.Props[k] = v
		}
	}
	return c
}

// DockItem is one entry of the dock tray.
type DockItem struct {
	ID    string
	Title string
	Icon  string
}

var duplicateSuffix = regexp.MustCompile(`^(.+)-\d{10,}-[0-9a-z]+$`)

// BaseKey strips a duplicate-disambiguation suffix ("-{millis}-{random}")
// from a window id, yielding the panel id it was opened from.
func BaseKey(id string) string {
	if m := duplicateSuffix.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return id
}

// MatchesPanel reports whether a window id belongs to panelID: the id
// itself or any id derived from it with a "-" suffix.
func MatchesPanel(id, panelID string) bool {
	return id == panelID || strings.HasPrefix(id, panelID+"-")
}

// Package toolbar holds the floating toolbar's position. It is independent
// of the window collection and persisted on every change.
package toolbar

import (
	"encoding/json"

	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/state"
)

// Metrics place the toolbar by default.
type Metrics struct {
	HalfWidth float64 `toml:"half_width"`
	Top       float64 `toml:"top"`
}

// DefaultMetrics are pixel-space metrics.
func DefaultMetrics() Metrics { return Metrics{HalfWidth: 240, Top: 12} }

// CellMetrics are terminal-cell metrics.
func CellMetrics() Metrics { return Metrics{HalfWidth: 24, Top: 0} }

// Position is the toolbar's top-left corner.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Default returns the unpersisted position for a viewport width.
func Default(viewportWidth float64, m Metrics) Position {
	return Position{X: viewportWidth/2 - m.HalfWidth, Y: m.Top}
}

// Toolbar tracks the position and an optional drag.
type Toolbar struct {
	kv      state.KV
	metrics Metrics
	pos     Position
	stored  bool
	logger  *log.Logger

	dragging   bool
	dragStart  geom.Point
	dragOrigin Position
}

// Load restores the position from kv, or defaults it for viewportWidth.
func Load(kv state.KV, viewportWidth float64, m Metrics) *Toolbar {
	t := &Toolbar{
		kv:      kv,
		metrics: m,
		pos:     Default(viewportWidth, m),
		logger:  logging.For("toolbar"),
	}
	raw, ok, err := kv.Get(state.KeyToolbarPosition)
	if err != nil {
		t.logger.Warn("failed to read toolbar position", "err", err)
		return t
	}
	if !ok {
		return t
	}
	var p Position
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.logger.Warn("ignoring malformed toolbar position", "value", raw, "err", err)
		return t
	}
	t.pos, t.stored = p, true
	return t
}

// Position returns the current position.
func (t *Toolbar) Position() Position { return t.pos }

// SetViewportWidth re-centers a toolbar that has never been moved.
func (t *Toolbar) SetViewportWidth(w float64) {
	if !t.stored && !t.dragging {
		t.pos = Default(w, t.metrics)
	}
}

// Set moves the toolbar and persists the new position.
func (t *Toolbar) Set(p Position) error {
	t.pos = p
	t.stored = true
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return t.kv.Set(state.KeyToolbarPosition, string(raw))
}

// Dragging reports whether a toolbar drag is in progress.
func (t *Toolbar) Dragging() bool { return t.dragging }

// DragStart records the pointer and toolbar positions a drag starts from.
func (t *Toolbar) DragStart(x, y float64) {
	t.dragging = true
	t.dragStart = geom.Point{X: x, Y: y}
	t.dragOrigin = t.pos
}

// Drag moves the toolbar by the pointer delta since DragStart. There is
// no bounds clamping.
func (t *Toolbar) Drag(x, y float64) Position {
	if !t.dragging {
		return t.pos
	}
	p := Position{
		X: t.dragOrigin.X + x - t.dragStart.X,
		Y: t.dragOrigin.Y + y - t.dragStart.Y,
	}
	if p != t.pos {
		if err := t.Set(p); err != nil {
			t.logger.Warn("failed to persist toolbar position", "err", err)
		}
	}
	return t.pos
}

// DragStop applies the final delta and ends the drag.
func (t *Toolbar) DragStop(x, y float64) Position {
	p := t.Drag(x, y)
	t.dragging = false
	return p
}

// Package placement computes the initial rectangle of newly opened windows:
// a deterministic cascade for ordinary opens, a centered rect for the first
// dashboard window, and the maximized rect used by the window store.
package placement

import "github.com/Gaurav-Gosain/tuidesk/internal/geom"

// Metrics are the geometry constants used by the placement rules.
type Metrics struct {
	OriginX float64 `toml:"origin_x"`
	OriginY float64 `toml:"origin_y"`
	Step    float64 `toml:"step"`
	SpanX   float64 `toml:"span_x"`
	SpanY   float64 `toml:"span_y"`

	DefaultWidth  float64 `toml:"default_width"`
	DefaultHeight float64 `toml:"default_height"`

	MaximizeMarginX float64 `toml:"maximize_margin_x"`
	MaximizeMarginY float64 `toml:"maximize_margin_y"`
	MinWidth        float64 `toml:"min_width"`
	MinHeight       float64 `toml:"min_height"`

	CenterMargin    float64 `toml:"center_margin"`
	CenterCapWidth  float64 `toml:"center_cap_width"`
	CenterCapHeight float64 `toml:"center_cap_height"`
}

// DefaultMetrics returns the pixel-scale metrics of the browser desktop.
func DefaultMetrics() Metrics {
	return Metrics{
		OriginX:         120,
		OriginY:         80,
		Step:            32,
		SpanX:           280,
		SpanY:           220,
		DefaultWidth:    720,
		DefaultHeight:   520,
		MaximizeMarginX: 90,
		MaximizeMarginY: 76,
		MinWidth:        640,
		MinHeight:       400,
		CenterMargin:    24,
		CenterCapWidth:  1100,
		CenterCapHeight: 720,
	}
}

// CellMetrics returns metrics scaled for a terminal cell grid.
func CellMetrics() Metrics {
	return Metrics{
		OriginX:         4,
		OriginY:         2,
		Step:            2,
		SpanX:           24,
		SpanY:           10,
		DefaultWidth:    56,
		DefaultHeight:   16,
		MaximizeMarginX: 4,
		MaximizeMarginY: 4,
		MinWidth:        30,
		MinHeight:       8,
		CenterMargin:    2,
		CenterCapWidth:  100,
		CenterCapHeight: 30,
	}
}

// RestoreFallback is the rect a window returns to when it leaves the
// maximized state without a saved rect.
func (m Metrics) RestoreFallback() geom.Rect {
	return geom.Rect{X: m.OriginX, Y: m.OriginY, Width: m.DefaultWidth, Height: m.DefaultHeight}
}

// Cascade hands out staggered start positions. The counter only resets when
// a new Cascade is created.
type Cascade struct {
	metrics Metrics
	n       int
}

// NewCascade creates a cascade generator starting at offset zero.
func NewCascade(m Metrics) *Cascade {
	return &Cascade{metrics: m}
}

// Next returns the next cascade rect and advances the counter.
func (c *Cascade) Next() geom.Rect {
	offset := float64(c.n) * c.metrics.Step
	c.n++
	return geom.Rect{
		X:      c.metrics.OriginX + mod(offset, c.metrics.SpanX),
		Y:      c.metrics.OriginY + mod(offset, c.metrics.SpanY),
		Width:  c.metrics.DefaultWidth,
		Height: c.metrics.DefaultHeight,
	}
}

// Count returns how many rects the cascade has handed out.
func (c *Cascade) Count() int { return c.n }

// Center returns a rect centered in the container, no larger than the cap
// and never closer than the margin to the container edge. An unknown
// container size yields the restore fallback rect.
func Center(m Metrics, container geom.Size) geom.Rect {
	if container.Empty() {
		return m.RestoreFallback()
	}
	w := max(min(container.Width-2*m.CenterMargin, m.CenterCapWidth), 1)
	h := max(min(container.Height-2*m.CenterMargin, m.CenterCapHeight), 1)
	return geom.Rect{
		X:      max(m.CenterMargin, (container.Width-w)/2),
		Y:      max(m.CenterMargin, (container.Height-h)/2),
		Width:  w,
		Height: h,
	}
}

// Maximized returns the rect a window fills while maximized: the container
// minus the maximize margins, floor-clamped to the minimum usable size and
// centered in whatever room is left.
func Maximized(m Metrics, container geom.Size) geom.Rect {
	w := max(container.Width-m.MaximizeMarginX, m.MinWidth)
	h := max(container.Height-m.MaximizeMarginY, m.MinHeight)
	return geom.Rect{
		X:      max(0, (container.Width-w)/2),
		Y:      max(0, (container.Height-h)/2),
		Width:  w,
		Height: h,
	}
}

func mod(v, span float64) float64 {
	if span <= 0 {
		return 0
	}
	r := v - span*float64(int64(v/span))
	if r < 0 {
		r += span
	}
	return r
}

// Package geom holds the rectangle and size types shared by the placement
// engine, the window store and the drag/resize controller.
package geom

// Rect is a window rectangle in the desktop's shared coordinate space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is the extent of a container or viewport.
type Size struct {
	Width  float64
	Height float64
}

// Point is a position in the shared coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Right returns the x coordinate one past the rect's right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate one past the rect's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Empty reports whether the size has no usable area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ClampInto moves r so it lies inside a container of the given size. A rect
// larger than the container is pinned to the container's top-left corner.
func (r Rect) ClampInto(container Size) Rect {
	r.X = clamp(r.X, 0, container.Width-r.Width)
	r.Y = clamp(r.Y, 0, container.Height-r.Height)
	return r
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

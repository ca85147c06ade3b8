package dragctl

import "github.com/Gaurav-Gosain/tuidesk/internal/geom"

// Corner is the window corner a resize is anchored at.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return "bottom-right"
	}
}

func (c Corner) left() bool { return c == TopLeft || c == BottomLeft }
func (c Corner) top() bool  { return c == TopLeft || c == TopRight }

// CornerAt picks the corner of r nearest to the point, by quadrant.
func CornerAt(r geom.Rect, x, y float64) Corner {
	midX := r.X + r.Width/2
	midY := r.Y + r.Height/2
	if x < midX {
		if y < midY {
			return TopLeft
		}
		return BottomLeft
	}
	if y < midY {
		return TopRight
	}
	return BottomRight
}

// apply resizes origin by the pointer delta. Left and top corners move the
// window's origin so the opposite edge stays put, including when the size
// is floored at min.
func (c Corner) apply(origin geom.Rect, dx, dy float64, min geom.Size) geom.Rect {
	r := origin
	if c.left() {
		r.X = origin.X + dx
		r.Width = origin.Width - dx
	} else {
		r.Width = origin.Width + dx
	}
	if c.top() {
		r.Y = origin.Y + dy
		r.Height = origin.Height - dy
	} else {
		r.Height = origin.Height + dy
	}

	if r.Width < min.Width {
		r.Width = min.Width
		if c.left() {
			r.X = origin.Right() - min.Width
		}
	}
	if r.Height < min.Height {
		r.Height = min.Height
		if c.top() {
			r.Y = origin.Bottom() - min.Height
		}
	}
	return r
}

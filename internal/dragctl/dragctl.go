// Package dragctl turns pointer movement into geometry commits against the
// window store. A session previews geometry locally and only writes to the
// store when it stops.
package dragctl

import (
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
)

var (
	// ErrPointerBusy is returned when a pointer already drives a session.
	ErrPointerBusy = errors.New("pointer already has an active session")
	// ErrWindowBusy is returned when another pointer is manipulating the window.
	ErrWindowBusy = errors.New("window is already being manipulated")
	// ErrDisabled is returned when the window's state forbids the interaction.
	ErrDisabled = errors.New("interaction disabled in current window state")
	// ErrNoSession is returned for moves or stops with no matching start.
	ErrNoSession = errors.New("no active session")
)

// Kind distinguishes drag sessions from resize sessions.
type Kind int

const (
	Drag Kind = iota
	Resize
)

func (k Kind) String() string {
	if k == Resize {
		return "resize"
	}
	return "drag"
}

// Session is one in-progress pointer interaction.
type Session struct {
	Kind     Kind
	WindowID string
	Pointer  int
	Corner   Corner
	Start    geom.Point
	Origin   geom.Rect
	Preview  geom.Rect
}

// Controller tracks sessions for every pointer.
type Controller struct {
	store          *desk.Store
	sessions       map[int]*Session
	minSize        geom.Size
	allowOffscreen bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithMinSize sets the smallest size a resize may produce.
func WithMinSize(s geom.Size) Option {
	return func(c *Controller) { c.minSize = s }
}

// WithAllowOffscreen lets committed geometry leave the container.
func WithAllowOffscreen(allow bool) Option {
	return func(c *Controller) { c.allowOffscreen = allow }
}

// New creates a controller committing into store.
func New(store *desk.Store, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		sessions: make(map[int]*Session),
		minSize:  geom.Size{Width: 160, Height: 100},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAllowOffscreen toggles container clamping for future commits.
func (c *Controller) SetAllowOffscreen(allow bool) { c.allowOffscreen = allow }

// AllowOffscreen reports whether commits may leave the container.
func (c *Controller) AllowOffscreen() bool { return c.allowOffscreen }

// Handle returns the per-window adapter for id.
func (c *Controller) Handle(id string) Handle {
	return Handle{c: c, id: id}
}

// Session returns a copy of the pointer's active session.
func (c *Controller) Session(pointer int) (Session, bool) {
	s, ok := c.sessions[pointer]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Preview returns the in-progress geometry for a window being manipulated.
func (c *Controller) Preview(id string) (geom.Rect, bool) {
	for _, s := range c.sessions {
		if s.WindowID == id {
			return s.Preview, true
		}
	}
	return geom.Rect{}, false
}

// Cancel drops the pointer's session without committing anything.
func (c *Controller) Cancel(pointer int) {
	delete(c.sessions, pointer)
}

// Busy reports whether any session is active.
func (c *Controller) Busy() bool { return len(c.sessions) > 0 }

func (c *Controller) start(kind Kind, id string, pointer int, corner Corner, x, y float64) error {
	if _, busy := c.sessions[pointer]; busy {
		return fmt.Errorf("%w: pointer %d", ErrPointerBusy, pointer)
	}
	for _, s := range c.sessions {
		if s.WindowID == id {
			return fmt.Errorf("%w: %s", ErrWindowBusy, id)
		}
	}
	w, ok := c.store.Window(id)
	if !ok {
		return fmt.Errorf("%w: %s", desk.ErrWindowNotFound, id)
	}
	if !enabled(kind, w) {
		return fmt.Errorf("%w: %s %s while %s", ErrDisabled, kind, id, w.State())
	}
	if err := c.store.BringToFront(id); err != nil {
		return err
	}
	c.sessions[pointer] = &Session{
		Kind:     kind,
		WindowID: id,
		Pointer:  pointer,
		Corner:   corner,
		Start:    geom.Point{X: x, Y: y},
		Origin:   w.Rect(),
		Preview:  w.Rect(),
	}
	return nil
}

func enabled(kind Kind, w desk.Window) bool {
	if kind == Resize {
		return !w.Minimized && !w.Maximized
	}
	return !w.Minimized
}

func (c *Controller) session(kind Kind, id string, pointer int) (*Session, error) {
	s, ok := c.sessions[pointer]
	if !ok || s.Kind != kind || s.WindowID != id {
		return nil, fmt.Errorf("%w: %s %s pointer %d", ErrNoSession, kind, id, pointer)
	}
	return s, nil
}

func (c *Controller) move(s *Session, x, y float64) geom.Rect {
	dx, dy := x-s.Start.X, y-s.Start.Y
	o := s.Origin
	r := o
	switch s.Kind {
	case Drag:
		r.X, r.Y = o.X+dx, o.Y+dy
	case Resize:
		r = s.Corner.apply(o, dx, dy, c.minSize)
	}
	s.Preview = r
	return r
}

func (c *Controller) stop(kind Kind, id string, pointer int, x, y float64) (geom.Rect, error) {
	s, err := c.session(kind, id, pointer)
	if err != nil {
		return geom.Rect{}, err
	}
	r := c.move(s, x, y)
	delete(c.sessions, pointer)

	if container := c.store.Container(); !c.allowOffscreen && !container.Empty() {
		r = r.ClampInto(container)
	}
	if kind == Drag {
		err = c.store.CommitPosition(id, r.X, r.Y)
	} else {
		err = c.store.CommitRect(id, r)
	}
	if err != nil {
		return geom.Rect{}, err
	}
	return r, nil
}

// Handle adapts pointer callbacks for a single window.
type Handle struct {
	c  *Controller
	id string
}

// ID returns the window id the handle drives.
func (h Handle) ID() string { return h.id }

// CanDrag reports whether the window currently accepts drags.
func (h Handle) CanDrag() bool {
	w, ok := h.c.store.Window(h.id)
	return ok && enabled(Drag, w)
}

// CanResize reports whether the window currently accepts resizes.
func (h Handle) CanResize() bool {
	w, ok := h.c.store.Window(h.id)
	return ok && enabled(Resize, w)
}

// DragStart raises the window and begins a move session for pointer.
func (h Handle) DragStart(pointer int, x, y float64) error {
	return h.c.start(Drag, h.id, pointer, BottomRight, x, y)
}

// Drag updates the preview position. The store is not touched.
func (h Handle) Drag(pointer int, x, y float64) (geom.Rect, error) {
	s, err := h.c.session(Drag, h.id, pointer)
	if err != nil {
		return geom.Rect{}, err
	}
	return h.c.move(s, x, y), nil
}

// DragStop commits the final position and ends the session.
func (h Handle) DragStop(pointer int, x, y float64) (geom.Rect, error) {
	return h.c.stop(Drag, h.id, pointer, x, y)
}

// ResizeStart raises the window and begins a resize from corner.
func (h Handle) ResizeStart(pointer int, corner Corner, x, y float64) error {
	return h.c.start(Resize, h.id, pointer, corner, x, y)
}

// Resize updates the preview rect. The store is not touched.
func (h Handle) Resize(pointer int, x, y float64) (geom.Rect, error) {
	s, err := h.c.session(Resize, h.id, pointer)
	if err != nil {
		return geom.Rect{}, err
	}
	return h.c.move(s, x, y), nil
}

// ResizeStop commits the final rect, position included, and ends the session.
func (h Handle) ResizeStop(pointer int, x, y float64) (geom.Rect, error) {
	return h.c.stop(Resize, h.id, pointer, x, y)
}

// Package desk is the window store: the ordered collection of open windows,
// the active-window pointer and the monotonically increasing z counter.
//
// A Store is owned by a single update loop. It performs no locking; every
// mutation runs synchronously inside the host's event handling, so the z
// counter is always read after its own write.
package desk

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"charm.land/log/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/placement"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

var (
	// ErrWindowNotFound is returned for operations on an id with no window.
	ErrWindowNotFound = errors.New("window not found")
	// ErrUnknownPanel is returned when a panel id has no registry entry.
	// The store is left unchanged.
	ErrUnknownPanel = errors.New("unknown panel")
)

// PinBoost is how far a sticky-pinned window is raised above its own z.
const PinBoost = 1000

// Lookuper resolves panel ids to registry entries.
type Lookuper interface {
	Lookup(id string) (registry.Entry, bool)
}

// OpenOptions tune OpenPanelByID. Nil geometry fields (or non-finite
// values) fall back to the placement engine.
type OpenOptions struct {
	AllowDuplicate bool
	X              *float64
	Y              *float64
	Width          *float64
	Height         *float64
	Title          string
	Props          registry.Props
	// Center places the window with the one-shot centered rule instead of
	// the cascade.
	Center bool
}

// Num returns a pointer to v, for OpenOptions geometry fields.
func Num(v float64) *float64 { return &v }

// Store is the window state machine.
type Store struct {
	windows   []*Window
	active    string
	zCounter  int
	panels    Lookuper
	metrics   placement.Metrics
	cascade   *placement.Cascade
	container geom.Size
	logger    *log.Logger
	now       func() time.Time
	token     func() string
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics sets the placement metrics.
func WithMetrics(m placement.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithContainer sets the initial container size.
func WithContainer(size geom.Size) Option {
	return func(s *Store) { s.container = size }
}

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for duplicate ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTokenSource overrides the random part of duplicate ids.
func WithTokenSource(fn func() string) Option {
	return func(s *Store) { s.token = fn }
}

// NewStore creates an empty store resolving panels through panels.
func NewStore(panels Lookuper, opts ...Option) *Store {
	s := &Store{
		panels:  panels,
		metrics: placement.DefaultMetrics(),
		now:     time.Now,
		token:   randomToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.For("desk")
	}
	s.cascade = placement.NewCascade(s.metrics)
	return s
}

func randomToken() string {
	return uuid.NewString()[:8]
}

func (s *Store) find(id string) (int, *Window) {
	for i, w := range s.windows {
		if w.ID == id {
			return i, w
		}
	}
	return -1, nil
}

func (s *Store) nextZ() int {
	s.zCounter++
	return s.zCounter
}

// raise gives w the next z. A pinned window keeps its boost above the new
// base.
func (s *Store) raise(w *Window) {
	if !w.Pinned {
		w.Z = s.nextZ()
		return
	}
	boost := w.Z - w.PinBase
	w.PinBase = s.nextZ()
	w.Z = w.PinBase + boost
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// OpenPanelByID opens a window hosting panel id and returns the window id.
// Without AllowDuplicate an existing window with that id is raised and
// un-minimized instead; a second window is never created. An id with no
// registry entry is logged and ignored.
func (s *Store) OpenPanelByID(id string, opts OpenOptions) (string, error) {
	if !opts.AllowDuplicate {
		if _, w := s.find(id); w != nil {
			w.Minimized = false
			s.raise(w)
			s.active = w.ID
			return w.ID, nil
		}
	}

	base := BaseKey(id)
	entry, ok := s.panels.Lookup(base)
	if !ok {
		s.logger.Warn("ignoring open of unknown panel", "id", id)
		return "", fmt.Errorf("%w: %s", ErrUnknownPanel, id)
	}

	x, hasX := finite(opts.X)
	y, hasY := finite(opts.Y)
	var rect geom.Rect
	switch {
	case hasX && hasY:
		rect = geom.Rect{X: x, Y: y, Width: s.metrics.DefaultWidth, Height: s.metrics.DefaultHeight}
	case opts.Center:
		rect = placement.Center(s.metrics, s.container)
	default:
		rect = s.cascade.Next()
	}
	if hasX {
		rect.X = x
	}
	if hasY {
		rect.Y = y
	}
	if w, ok := finite(opts.Width); ok {
		rect.Width = w
	}
	if h, ok := finite(opts.Height); ok {
		rect.Height = h
	}

	winID := id
	if opts.AllowDuplicate {
		winID = fmt.Sprintf("%s-%d-%s", base, s.now().UnixMilli(), s.token())
	}

	title := entry.Title
	if opts.Title != "" {
		title = opts.Title
	}

	props := make(registry.Props, len(opts.Props))
	for k, v := range opts.Props {
		props[k] = v
	}

	w := &Window{
		ID:      winID,
		BaseKey: base,
		Title:   title,
		Icon:    entry.Icon,
		Z:       s.nextZ(),
		Props:   props,
	}
	w.setRect(rect)

	s.windows = append(s.windows, w)
	s.active = winID
	s.logger.Debug("opened window", "id", winID, "panel", base, "z", w.Z)
	return winID, nil
}

// BringToFront raises id above every other window and makes it active.
func (s *Store) BringToFront(id string) error {
	_, w := s.find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	s.raise(w)
	s.active = id
	return nil
}

// CloseWindow removes id. Closing the active window clears the pointer.
func (s *Store) CloseWindow(id string) error {
	i, w := s.find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	s.windows = append(s.windows[:i], s.windows[i+1:]...)
	if s.active == id {
		s.active = ""
	}
	s.logger.Debug("closed window", "id", id)
	return nil
}

// ToggleMinimize docks or un-docks id. Docking a maximized window first
// restores its rect, so it never goes straight from maximized to minimized.
func (s *Store) ToggleMinimize(id string) error {
	_, w := s.find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	if w.Minimized {
		w.Minimized = false
		return nil
	}
	s.leaveMaximized(w)
	w.Minimized = true
	return nil
}

// ToggleMaximize maximizes id (saving its rect and raising it) or restores
// the saved rect.
func (s *Store) ToggleMaximize(id string) error {
	_, w := s.find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	if w.Maximized {
		s.leaveMaximized(w)
		return nil
	}
	s.enterMaximized(w)
	s.raise(w)
	s.active = id
	return nil
}

func (s *Store) enterMaximized(w *Window) {
	w.Minimized = false
	prev := w.Rect()
	w.PrevRect = &prev
	w.setRect(placement.Maximized(s.metrics, s.container))
	w.Maximized = true
}

func (s *Store) leaveMaximized(w *Window) {
	if !w.Maximized {
		return
	}
	r := s.metrics.RestoreFallback()
	if w.PrevRect != nil {
		r = *w.PrevRect
	}
	w.setRect(r)
	w.PrevRect = nil
	w.Maximized = false
}

// RestoreFromDock un-minimizes id and raises it in one transition.
func (s *Store) RestoreFromDock(id string) error {
	_, w := s.find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	w.Minimized = false
	s.raise(w)
	s.active = id
	return nil
}

// DockAll minimizes every window.
func (s *Store) DockAll() {
	for _, w := range s.windows {
		s.leaveMaximized(w)
		w.Minimized = true
	}
}

// RestoreAll un-minimizes every window.
func (s *Store) RestoreAll() {
	for _, w := range s.windows {
		w.Minimized = false
	}
}

// ResetLayout closes every window and clears the active pointer.
func (s *Store) ResetLayout() {
	s.windows = nil
	s.active = ""
}

// CommitPosition stores a finished drag.
func (s *Store) CommitPosition(id string, x, y float64) error {
	_, w := s.find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	w.X, w.Y = x, y
	return nil
}

// CommitRect stores a finished resize, which may also move the window.
func (s *Store) CommitRect(id string, r geom.Rect) error {
	_, w := s.find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	w.setRect(r)
	return nil
}

// CloseByToken closes every window whose winToken prop equals token and
// returns how many were closed.
func (s *Store) CloseByToken(token string) int {
	kept := s.windows[:0]
	closed := 0
	for _, w := range s.windows {
		if t, ok := w.Token(); ok && t == token {
			closed++
			if s.active == w.ID {
				s.active = ""
			}
			continue
		}
		kept = append(kept, w)
	}
	for i := len(kept); i < len(s.windows); i++ {
		s.windows[i] = nil
	}
	s.windows = kept
	return closed
}

// Pin raises every window of panelID by PinBoost, and strictly above every
// z handed out so far. Each call boosts again.
func (s *Store) Pin(panelID string) int {
	n := 0
	for _, w := range s.windows {
		if !MatchesPanel(w.ID, panelID) {
			continue
		}
		if !w.Pinned {
			w.PinBase = w.Z
		}
		w.Z = max(w.Z+PinBoost, s.zCounter+1)
		w.Pinned = true
		n++
	}
	return n
}

// Unpin lowers every window of panelID by PinBoost, never below the z it
// had before its first pin. A window stays pinned until it is back at
// that base.
func (s *Store) Unpin(panelID string) int {
	n := 0
	for _, w := range s.windows {
		if !MatchesPanel(w.ID, panelID) {
			continue
		}
		if !w.Pinned {
			w.PinBase = w.Z
		}
		w.Z = max(w.PinBase, w.Z-PinBoost)
		w.Pinned = w.Z > w.PinBase
		n++
	}
	return n
}

// FocusNext raises the next visible window after the active one, in
// collection order, wrapping around. delta of -1 walks backwards.
func (s *Store) FocusNext(delta int) {
	var visible []*Window
	current := -1
	for _, w := range s.windows {
		if w.Minimized {
			continue
		}
		if w.ID == s.active {
			current = len(visible)
		}
		visible = append(visible, w)
	}
	if len(visible) == 0 {
		return
	}
	next := 0
	if current >= 0 {
		next = ((current+delta)%len(visible) + len(visible)) % len(visible)
	} else if delta < 0 {
		next = len(visible) - 1
	}
	w := visible[next]
	s.raise(w)
	s.active = w.ID
}

// SetContainer records the container size and refits maximized windows.
func (s *Store) SetContainer(size geom.Size) {
	s.container = size
	for _, w := range s.windows {
		if w.Maximized {
			w.setRect(placement.Maximized(s.metrics, size))
		}
	}
}

// Container returns the current container size.
func (s *Store) Container() geom.Size { return s.container }

// Metrics returns the placement metrics in use.
func (s *Store) Metrics() placement.Metrics { return s.metrics }

// Active returns the active window id, or "" when none is active.
func (s *Store) Active() string { return s.active }

// Len returns the number of open windows.
func (s *Store) Len() int { return len(s.windows) }

// Window returns a copy of the window with id.
func (s *Store) Window(id string) (Window, bool) {
	_, w := s.find(id)
	if w == nil {
		return Window{}, false
	}
	return w.clone(), true
}

// Windows returns copies of all windows in collection (open) order.
func (s *Store) Windows() []Window {
	out := make([]Window, len(s.windows))
	for i, w := range s.windows {
		out[i] = w.clone()
	}
	return out
}

// Stack returns copies of all windows sorted bottom to top by z. Ties keep
// collection order.
func (s *Store) Stack() []Window {
	out := s.Windows()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// DockItems projects the minimized windows into dock entries.
func (s *Store) DockItems() []DockItem {
	var items []DockItem
	for _, w := range s.windows {
		if w.Minimized {
			items = append(items, DockItem{ID: w.ID, Title: w.Title, Icon: w.Icon})
		}
	}
	return items
}

// HitTest returns the topmost visible window containing the point.
func (s *Store) HitTest(x, y float64) (string, bool) {
	stack := s.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		if !w.Minimized && w.Rect().Contains(x, y) {
			return w.ID, true
		}
	}
	return "", false
}

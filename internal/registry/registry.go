// Package registry is the panel registration table. Each entry maps a panel
// id to display metadata and a resolver that lazily produces the panel
// component. Resolution may fail; a failed entry stays registered and
// renders its own failure.
package registry

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
)

// ErrInvalidEntry is returned when a registration is structurally unusable.
var ErrInvalidEntry = errors.New("invalid panel entry")

// Props is the opaque payload a window forwards to its panel.
type Props map[string]any

// Panel is the capability every hosted panel provides. Render must not
// depend on sibling windows; it may return an error or panic, and the host
// contains either to the panel's own window.
type Panel interface {
	Render(props Props, width, height int) (string, error)
}

// PanelFunc adapts a plain function to Panel.
type PanelFunc func(props Props, width, height int) (string, error)

// Render calls f.
func (f PanelFunc) Render(props Props, width, height int) (string, error) {
	return f(props, width, height)
}

// Resolver loads a panel component.
type Resolver func(ctx context.Context) (Panel, error)

// Entry is one registered panel type.
type Entry struct {
	ID       string
	Title    string
	Icon     string
	Resolver Resolver
}

// Status is the resolution state of an entry's component.
type Status int

const (
	// Pending means resolution has not completed.
	Pending Status = iota
	// Loaded means the component is ready to render.
	Loaded
	// Failed means resolution returned an error or panicked.
	Failed
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Component is the tagged result of resolving an entry.
type Component struct {
	Status Status
	Panel  Panel
	Err    error
	Stack  string
}

type slot struct {
	entry     Entry
	component Component
	resolving bool
}

// Registry holds the panel table. Lookups are safe from any goroutine;
// resolution runs off the UI loop and publishes its result under the lock.
type Registry struct {
	mu     sync.RWMutex
	slots  map[string]*slot
	order  []string
	logger *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{slots: make(map[string]*slot)}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.For("registry")
	}
	return r
}

// Register validates and adds an entry.
func (r *Registry) Register(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEntry)
	}
	if e.Resolver == nil {
		return fmt.Errorf("%w: %s has no resolver", ErrInvalidEntry, e.ID)
	}
	if e.Title == "" {
		e.Title = e.ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.slots[e.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidEntry, e.ID)
	}
	r.slots[e.ID] = &slot{entry: e}
	r.order = append(r.order, e.ID)
	return nil
}

// Lookup returns the entry for id. An unknown id is reported with ok=false.
func (r *Registry) Lookup(id string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return Entry{}, false
	}
	return s.entry, true
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.slots[id].entry)
	}
	return out
}

// IDs returns the registered ids sorted alphabetically.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Component returns the current resolution state of id. Unknown ids report
// Pending with ok=false.
func (r *Registry) Component(id string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return Component{}, false
	}
	return s.component, true
}

// NeedsResolve reports whether opening id should start a resolution: the
// entry has never resolved, or its last resolution failed. It marks the
// slot as resolving so concurrent opens start at most one load.
func (r *Registry) NeedsResolve(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok || s.resolving || s.component.Status == Loaded {
		return false
	}
	s.resolving = true
	s.component = Component{Status: Pending}
	return true
}

// Resolve runs the entry's resolver and records the outcome. Panics inside
// the resolver are recovered into a Failed component with a stack trace.
func (r *Registry) Resolve(ctx context.Context, id string) Component {
	entry, ok := r.Lookup(id)
	if !ok {
		return Component{Status: Failed, Err: fmt.Errorf("%w: unknown id %s", ErrInvalidEntry, id)}
	}

	c := resolve(ctx, entry.Resolver)
	if c.Status == Failed {
		r.logger.Warn("panel failed to load", "panel", id, "err", c.Err)
	} else {
		r.logger.Debug("panel loaded", "panel", id)
	}

	r.mu.Lock()
	if s, ok := r.slots[id]; ok {
		s.component = c
		s.resolving = false
	}
	r.mu.Unlock()
	return c
}

func resolve(ctx context.Context, fn Resolver) (c Component) {
	defer func() {
		if rec := recover(); rec != nil {
			c = Component{
				Status: Failed,
				Err:    fmt.Errorf("panel resolver panicked: %v", rec),
				Stack:  string(debug.Stack()),
			}
		}
	}()

	p, err := fn(ctx)
	if err != nil {
		return Component{Status: Failed, Err: err}
	}
	if p == nil {
		return Component{Status: Failed, Err: errors.New("panel resolver returned no component")}
	}
	return Component{Status: Loaded, Panel: p}
}

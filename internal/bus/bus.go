// Package bus is the desktop's typed publish/subscribe service. It replaces
// process-wide broadcast: every desktop instance gets its own Bus, and
// anything holding it can drive windows without a reference to them.
package bus

import (
	"sync"

	"charm.land/log/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
)

// Handler receives a published event.
type Handler func(Event)

type subscription struct {
	id string
	fn Handler
}

// Bus fans events out to the handlers subscribed to their name.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Name][]subscription
	logger *log.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the bus logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bus) { b.logger = l }
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{subs: make(map[Name][]subscription)}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.For("bus")
	}
	return b
}

// Subscribe registers fn for name and returns the function that removes
// it. Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(name Name, fn Handler) func() {
	id := uuid.NewString()

	b.mu.Lock()
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(name, id) })
	}
}

func (b *Bus) unsubscribe(name Name, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[name]
	for i, s := range subs {
		if s.id == id {
			b.subs[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

// Publish delivers ev synchronously to every handler subscribed to its
// name and returns how many received it. Handlers may publish or
// (un)subscribe themselves.
func (b *Bus) Publish(ev Event) int {
	name := ev.EventName()

	b.mu.RLock()
	subs := make([]subscription, len(b.subs[name]))
	copy(subs, b.subs[name])
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.logger.Debug("event dropped, no subscribers", "event", name)
		return 0
	}
	for _, s := range subs {
		s.fn(ev)
	}
	return len(subs)
}

// Subscribers reports how many handlers are subscribed to name.
func (b *Bus) Subscribers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

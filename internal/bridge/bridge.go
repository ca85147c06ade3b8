// Package bridge forwards bus events onto window store operations.
package bridge

import (
	"errors"
	"sync"

	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

// DefaultStudioPanel is the panel id hud-add-widget opens.
const DefaultStudioPanel = "studio"

// Scheduler runs fn on the goroutine that owns the store.
type Scheduler func(fn func())

// Immediate runs fn on the calling goroutine.
func Immediate(fn func()) { fn() }

// Bridge subscribes to the desktop events while mounted.
type Bridge struct {
	bus      *bus.Bus
	store    *desk.Store
	schedule Scheduler
	studio   string
	logger   *log.Logger
	onChange func()

	mu     sync.Mutex
	unsubs []func()
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithScheduler sets how store mutations are dispatched.
func WithScheduler(s Scheduler) Option {
	return func(b *Bridge) { b.schedule = s }
}

// WithStudioPanel overrides the panel opened for hud-add-widget.
func WithStudioPanel(id string) Option {
	return func(b *Bridge) { b.studio = id }
}

// WithLogger sets the bridge logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// OnChange registers a callback run, on the store goroutine, after every
// applied mutation.
func OnChange(fn func()) Option {
	return func(b *Bridge) { b.onChange = fn }
}

// New creates an unmounted bridge between bus and store.
func New(b *bus.Bus, store *desk.Store, opts ...Option) *Bridge {
	br := &Bridge{
		bus:      b,
		store:    store,
		schedule: Immediate,
		studio:   DefaultStudioPanel,
	}
	for _, opt := range opts {
		opt(br)
	}
	if br.logger == nil {
		br.logger = logging.For("bridge")
	}
	return br
}

// Mount subscribes to every desktop event. Mounting twice is a no-op.
func (b *Bridge) Mount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubs != nil {
		return
	}
	b.unsubs = []func(){
		b.bus.Subscribe(bus.OpenPanelEvent, b.onOpenPanel),
		b.bus.Subscribe(bus.BoardCloseByTokenEvent, b.onCloseByToken),
		b.bus.Subscribe(bus.HUDAddWidgetEvent, b.onAddWidget),
		b.bus.Subscribe(bus.StickyPinEvent, b.onStickyPin),
	}
	b.logger.Debug("bridge mounted")
}

// Unmount removes every subscription made by Mount.
func (b *Bridge) Unmount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	b.logger.Debug("bridge unmounted")
}

// Mounted reports whether the bridge is subscribed.
func (b *Bridge) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsubs != nil
}

func (b *Bridge) apply(fn func()) {
	b.schedule(func() {
		fn()
		if b.onChange != nil {
			b.onChange()
		}
	})
}

func (b *Bridge) onOpenPanel(ev bus.Event) {
	e := ev.(bus.OpenPanel)
	opts := desk.OpenOptions{
		AllowDuplicate: e.AllowDuplicate,
		X:              e.X,
		Y:              e.Y,
		Width:          e.Width,
		Height:         e.Height,
		Title:          e.Title,
		Props:          registry.Props(e.Props),
	}
	b.apply(func() {
		if _, err := b.store.OpenPanelByID(e.ID, opts); err != nil && !errors.Is(err, desk.ErrUnknownPanel) {
			b.logger.Warn("open-panel failed", "id", e.ID, "err", err)
		}
	})
}

func (b *Bridge) onCloseByToken(ev bus.Event) {
	token := ev.(bus.BoardCloseByToken).Token
	b.apply(func() {
		n := b.store.CloseByToken(token)
		b.logger.Debug("closed windows by token", "token", token, "count", n)
	})
}

func (b *Bridge) onAddWidget(ev bus.Event) {
	b.bus.Publish(bus.OpenPanel{
		ID:             b.studio,
		AllowDuplicate: true,
		Title:          WidgetTitle(ev.(bus.HUDAddWidget).Title),
	})
}

func (b *Bridge) onStickyPin(ev bus.Event) {
	e := ev.(bus.StickyPin)
	b.apply(func() {
		if e.IsPinned {
			b.store.Pin(e.PanelID)
		} else {
			b.store.Unpin(e.PanelID)
		}
	})
}

// WidgetTitle derives a studio window title from a widget title.
func WidgetTitle(title string) string {
	if title == "" {
		return "Widget"
	}
	return "Widget: " + title
}

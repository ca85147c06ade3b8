// Package app is the desktop host: a bubbletea model that owns one window
// store and wires the registry, bus, bridge, drag controller and toolbar
// around it. One Desk serves one terminal, SSH session or browser tab.
package app

import (
	"context"
	"sync"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/bridge"
	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/control"
	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/dragctl"
	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
	"github.com/Gaurav-Gosain/tuidesk/internal/state"
	"github.com/Gaurav-Gosain/tuidesk/internal/toolbar"
)

// DockHeight is the number of rows reserved for the dock at the bottom.
const DockHeight = 1

// Options configures a Desk.
type Options struct {
	Config   *config.Config
	Registry *registry.Registry
	// Bus is shared with the control socket. Nil creates a private bus.
	Bus *bus.Bus
	// State persists toolbar and desk preferences. Nil keeps them in memory.
	State state.KV
	// Width and Height are the initial viewport size, if known.
	Width, Height int
	Logger        *log.Logger
}

// Desk is the desktop model.
type Desk struct {
	Config   *config.Config
	Keys     *config.KeybindRegistry
	Registry *registry.Registry
	Store    *desk.Store
	Bus      *bus.Bus
	Bridge   *bridge.Bridge
	Drag     *dragctl.Controller
	Toolbar  *toolbar.Toolbar
	State    state.KV
	Logger   *log.Logger

	Width  int
	Height int

	ShowHelp  bool
	ShowLogs  bool
	LogScroll int

	ctx    context.Context
	cancel context.CancelFunc

	queue          *queue
	known          map[string]bool
	renderFailures map[string]string
	pendingDefault bool
	widgets        int

	scene  *lipgloss.Compositor
	status atomic.Pointer[control.StatusData]
}

// New builds a desk and mounts its bridge. Call Close when the session ends.
func New(opts Options) *Desk {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.For("desk")
	}
	b := opts.Bus
	if b == nil {
		b = bus.New(bus.WithLogger(logger))
	}
	kv := opts.State
	if kv == nil {
		kv = state.NewMemory()
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Desk{
		Config:         cfg,
		Keys:           config.NewKeybindRegistry(cfg),
		Registry:       reg,
		Bus:            b,
		State:          kv,
		Logger:         logger,
		Width:          opts.Width,
		Height:         opts.Height,
		ctx:            ctx,
		cancel:         cancel,
		queue:          &queue{},
		known:          make(map[string]bool),
		renderFailures: make(map[string]string),
		pendingDefault: true,
	}

	d.Store = desk.NewStore(reg,
		desk.WithMetrics(cfg.Desk.Placement),
		desk.WithContainer(d.container()),
		desk.WithLogger(logger),
	)
	d.Drag = dragctl.New(d.Store,
		dragctl.WithMinSize(cfg.Desk.MinSize()),
		dragctl.WithAllowOffscreen(state.Bool(kv, state.KeyAllowOffscreen, cfg.Desk.AllowOffscreen)),
	)
	d.Toolbar = toolbar.Load(kv, float64(d.Width), cfg.Desk.Toolbar)
	d.Bridge = bridge.New(b, d.Store,
		bridge.WithScheduler(d.queue.schedule),
		bridge.WithStudioPanel(cfg.Desk.StudioPanel),
		bridge.WithLogger(logger),
	)
	d.Bridge.Mount()
	d.refreshStatus()
	return d
}

// Attach gives the desk a way to wake its program when work is scheduled
// from another goroutine. Pass tea.Program.Send.
func (d *Desk) Attach(send func(tea.Msg)) {
	d.queue.mu.Lock()
	d.queue.send = send
	d.queue.mu.Unlock()
}

// Close unmounts the bridge and cancels pending panel loads.
func (d *Desk) Close() {
	d.Bridge.Unmount()
	d.cancel()
}

// SetConfig swaps in a reloaded configuration. Keybindings and the log
// level take effect immediately; geometry needs a restart.
func (d *Desk) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	d.Config = cfg
	d.Keys = config.NewKeybindRegistry(cfg)
	logging.SetLevel(cfg.Log.ParsedLevel())
}

func (d *Desk) container() geom.Size {
	return geom.Size{Width: float64(d.Width), Height: float64(max(d.Height-DockHeight, 0))}
}

// Status returns the last published desk snapshot. Safe from any goroutine.
func (d *Desk) Status() control.StatusData {
	if s := d.status.Load(); s != nil {
		return *s
	}
	return control.StatusData{}
}

func (d *Desk) refreshStatus() {
	windows := d.Store.Windows()
	s := control.StatusData{
		Active:  d.Store.Active(),
		Panels:  d.Registry.Len(),
		Windows: make([]control.WindowInfo, 0, len(windows)),
	}
	for _, w := range windows {
		s.Windows = append(s.Windows, control.WindowInfo{
			ID:     w.ID,
			Title:  w.Title,
			State:  w.State().String(),
			Z:      w.Z,
			X:      w.X,
			Y:      w.Y,
			Width:  w.Width,
			Height: w.Height,
			Pinned: w.Pinned,
		})
	}
	d.status.Store(&s)
}

// queue holds store mutations scheduled by the bridge until the update loop
// runs them.
type queue struct {
	mu       sync.Mutex
	fns      []func()
	send     func(tea.Msg)
	notified bool
}

// flushMsg wakes the update loop to run scheduled work.
type flushMsg struct{}

func (q *queue) schedule(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	wake := q.send != nil && !q.notified
	if wake {
		q.notified = true
	}
	send := q.send
	q.mu.Unlock()

	// Send blocks until the loop receives, and the loop may be the caller.
	if wake {
		go send(flushMsg{})
	}
}

func (q *queue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := q.fns
	q.fns = nil
	q.notified = false
	return fns
}

package app

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

// TickerMsg drives periodic redraws of live panels and the toolbar clock.
type TickerMsg time.Time

// ResolvedMsg reports that a panel component finished loading.
type ResolvedMsg struct {
	ID     string
	Status registry.Status
}

// ConfigMsg carries a reloaded configuration into the update loop.
type ConfigMsg struct {
	Config *config.Config
}

// InputHandler handles key and mouse messages. It lives in the input
// package, which imports app.
type InputHandler func(msg tea.Msg, d *Desk) (tea.Model, tea.Cmd)

var inputHandler InputHandler

// SetInputHandler registers the input handler. It must be called before
// the program starts.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Init opens the default panel once the viewport size is known and starts
// the clock.
func (d *Desk) Init() tea.Cmd {
	return tea.Batch(TickCmd(), d.sync())
}

// TickCmd schedules the next clock tick.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Update handles one message, then runs scheduled store work and starts
// loading any panel a new window needs.
func (d *Desk) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.Resize(msg.Width, msg.Height)

	case TickerMsg:
		cmd = TickCmd()

	case ResolvedMsg:
		if msg.Status == registry.Failed {
			d.Logger.Debug("panel window shows load failure", "panel", msg.ID)
		}

	case ConfigMsg:
		d.SetConfig(msg.Config)
		d.Logger.Info("configuration reloaded")

	case flushMsg:
		// Scheduled work runs in sync below.

	case tea.KeyPressMsg, tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		if inputHandler != nil {
			_, cmd = inputHandler(msg, d)
		}
	}

	return d, tea.Batch(cmd, d.sync())
}

// Resize updates the viewport, refitting maximized windows and re-centering
// a toolbar that was never moved.
func (d *Desk) Resize(width, height int) {
	d.Width, d.Height = width, height
	d.Store.SetContainer(d.container())
	d.Toolbar.SetViewportWidth(float64(width))
	d.scene = nil
}

// Flush runs scheduled store work immediately and returns the panel loads
// it started.
func (d *Desk) Flush() tea.Cmd {
	return d.sync()
}

func (d *Desk) sync() tea.Cmd {
	for _, fn := range d.queue.drain() {
		fn()
	}

	var cmds []tea.Cmd
	if d.pendingDefault && !d.container().Empty() {
		d.pendingDefault = false
		d.openDefault()
	}

	live := make(map[string]bool, d.Store.Len())
	for _, w := range d.Store.Windows() {
		live[w.ID] = true
		if d.known[w.ID] {
			continue
		}
		d.known[w.ID] = true
		if c := d.resolveCmd(w.BaseKey); c != nil {
			cmds = append(cmds, c)
		}
	}
	for id := range d.known {
		if !live[id] {
			delete(d.known, id)
			delete(d.renderFailures, id)
		}
	}

	d.scene = nil
	d.refreshStatus()
	return tea.Batch(cmds...)
}

func (d *Desk) openDefault() {
	id := d.Config.Desk.DefaultPanel
	if id == "" || d.Registry.Len() == 0 {
		return
	}
	if _, ok := d.Registry.Lookup(id); !ok {
		d.Logger.Warn("default panel is not registered", "id", id)
		return
	}
	if _, err := d.Store.OpenPanelByID(id, desk.OpenOptions{Center: true}); err != nil && !errors.Is(err, desk.ErrUnknownPanel) {
		d.Logger.Warn("failed to open default panel", "id", id, "err", err)
	}
}

// resolveCmd loads a panel's component off the update loop. A failed
// component is only retried when a new window for it is opened.
func (d *Desk) resolveCmd(id string) tea.Cmd {
	if !d.Registry.NeedsResolve(id) {
		return nil
	}
	reg, ctx := d.Registry, d.ctx
	return func() tea.Msg {
		c := reg.Resolve(ctx, id)
		return ResolvedMsg{ID: id, Status: c.Status}
	}
}

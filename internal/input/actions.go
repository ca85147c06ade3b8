package input

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/state"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(d *app.Desk) tea.Cmd

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

func (d *ActionDispatcher) registerHandlers() {
	// Windows
	d.Register("focus_next", func(a *app.Desk) tea.Cmd { a.Store.FocusNext(1); return nil })
	d.Register("focus_prev", func(a *app.Desk) tea.Cmd { a.Store.FocusNext(-1); return nil })
	d.Register("minimize_window", onActive((*desk.Store).ToggleMinimize))
	d.Register("maximize_window", onActive((*desk.Store).ToggleMaximize))
	d.Register("close_window", onActive((*desk.Store).CloseWindow))
	d.Register("move_left", makeNudgeHandler(-2, 0))
	d.Register("move_right", makeNudgeHandler(2, 0))
	d.Register("move_up", makeNudgeHandler(0, -1))
	d.Register("move_down", makeNudgeHandler(0, 1))

	// Desk
	d.Register("dock_all", func(a *app.Desk) tea.Cmd { a.Store.DockAll(); return nil })
	d.Register("restore_all", func(a *app.Desk) tea.Cmd { a.Store.RestoreAll(); return nil })
	d.Register("reset_layout", func(a *app.Desk) tea.Cmd { a.Store.ResetLayout(); return nil })
	d.Register("pin_window", handlePinWindow)
	d.Register("toggle_offscreen", handleToggleOffscreen)

	// Panels
	for i := 1; i <= 9; i++ {
		d.Register(config.LaunchAction(i), makeLaunchHandler(i))
	}
	d.Register("duplicate_window", handleDuplicateWindow)
	d.Register("add_widget", handleAddWidget)

	// System
	d.Register("toggle_logs", func(a *app.Desk) tea.Cmd {
		a.ShowLogs = !a.ShowLogs
		a.ShowHelp = false
		a.LogScroll = 1 << 30
		return nil
	})
	d.Register("toggle_help", func(a *app.Desk) tea.Cmd {
		a.ShowHelp = !a.ShowHelp
		a.ShowLogs = false
		return nil
	})
	d.Register("quit", func(*app.Desk) tea.Cmd { return tea.Quit })
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for a given action
func (d *ActionDispatcher) Dispatch(action string, a *app.Desk) tea.Cmd {
	if handler, ok := d.handlers[action]; ok {
		return handler(a)
	}
	return nil
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

// Global action dispatcher instance
var globalDispatcher = NewActionDispatcher()

// GetDispatcher returns the global action dispatcher
func GetDispatcher() *ActionDispatcher {
	return globalDispatcher
}

// onActive adapts a store operation to act on the focused window.
func onActive(op func(*desk.Store, string) error) ActionHandler {
	return func(a *app.Desk) tea.Cmd {
		if id := a.Store.Active(); id != "" {
			if err := op(a.Store, id); err != nil {
				a.Logger.Debug("window action failed", "id", id, "err", err)
			}
		}
		return nil
	}
}

func makeNudgeHandler(dx, dy float64) ActionHandler {
	return func(a *app.Desk) tea.Cmd {
		w, ok := a.Store.Window(a.Store.Active())
		if !ok || w.Minimized || w.Maximized {
			return nil
		}
		r := w.Rect()
		r.X += dx
		r.Y += dy
		r = clampRect(a, r)
		_ = a.Store.CommitPosition(w.ID, r.X, r.Y)
		return nil
	}
}

func handlePinWindow(a *app.Desk) tea.Cmd {
	w, ok := a.Store.Window(a.Store.Active())
	if !ok {
		return nil
	}
	a.Bus.Publish(bus.StickyPin{PanelID: w.BaseKey, IsPinned: !w.Pinned})
	return nil
}

func handleToggleOffscreen(a *app.Desk) tea.Cmd {
	allow := !a.Drag.AllowOffscreen()
	a.Drag.SetAllowOffscreen(allow)
	if err := state.SetBool(a.State, state.KeyAllowOffscreen, allow); err != nil {
		a.Logger.Warn("failed to persist offscreen preference", "err", err)
	}
	return nil
}

func makeLaunchHandler(n int) ActionHandler {
	return func(a *app.Desk) tea.Cmd {
		entries := a.Registry.Entries()
		if n > len(entries) {
			return nil
		}
		a.Bus.Publish(bus.OpenPanel{ID: entries[n-1].ID})
		return nil
	}
}

func handleDuplicateWindow(a *app.Desk) tea.Cmd {
	w, ok := a.Store.Window(a.Store.Active())
	if !ok {
		return nil
	}
	offset := 2.0
	x, y := w.X+offset, w.Y+offset
	a.Bus.Publish(bus.OpenPanel{
		ID:             w.BaseKey,
		AllowDuplicate: true,
		X:              &x,
		Y:              &y,
		Width:          &w.Width,
		Height:         &w.Height,
		Props:          w.Props,
	})
	return nil
}

var widgetNames = []string{"Chart", "Clock", "Counter", "Gauge", "Kanban", "Quote"}

func handleAddWidget(a *app.Desk) tea.Cmd {
	n := len(a.Store.Windows())
	name := widgetNames[n%len(widgetNames)]
	a.Bus.Publish(bus.HUDAddWidget{Title: fmt.Sprintf("%s %d", name, n+1)})
	return nil
}

// runToolbarAction maps a toolbar button id to its action.
func runToolbarAction(id string, a *app.Desk) tea.Cmd {
	action := strings.TrimPrefix(id, app.ToolbarLayer)
	return GetDispatcher().Dispatch(action, a)
}

// clampRect keeps r inside the desk when offscreen placement is off.
func clampRect(a *app.Desk, r geom.Rect) geom.Rect {
	if a.Drag.AllowOffscreen() {
		return r
	}
	return r.ClampInto(a.Store.Container())
}

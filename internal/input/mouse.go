package input

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/dragctl"
)

// mousePointer is the pointer id of the terminal's single mouse.
const mousePointer = 0

// handleMouseClick routes a press to whatever layer is on top under it.
func handleMouseClick(msg tea.MouseClickMsg, d *app.Desk) tea.Cmd {
	m := msg.Mouse()
	hit := d.HitID(m.X, m.Y)

	switch {
	case hit == app.OverlayLayer:
		return nil

	case hit == app.ToolbarLayer+app.ToolbarGrip:
		d.Toolbar.DragStart(float64(m.X), float64(m.Y))
		return nil

	case strings.HasPrefix(hit, app.ToolbarLayer):
		return runToolbarAction(hit, d)

	case strings.HasPrefix(hit, app.DockLayer):
		id := strings.TrimPrefix(hit, app.DockLayer)
		if err := d.Store.RestoreFromDock(id); err != nil {
			d.Logger.Debug("dock restore failed", "id", id, "err", err)
		}
		return nil

	case strings.HasPrefix(hit, app.WindowLayer):
		return clickWindow(strings.TrimPrefix(hit, app.WindowLayer), m, d)
	}
	return nil
}

func clickWindow(id string, m tea.Mouse, d *app.Desk) tea.Cmd {
	w, ok := d.Store.Window(id)
	if !ok {
		return nil
	}
	r := d.WindowRect(w)
	x, y := float64(m.X), float64(m.Y)
	h := d.Drag.Handle(id)

	switch m.Button {
	case tea.MouseLeft:
		switch app.TitleButtonAt(r, m.X, m.Y) {
		case app.MinimizeButton:
			_ = d.Store.ToggleMinimize(id)
			return nil
		case app.MaximizeButton:
			_ = d.Store.ToggleMaximize(id)
			return nil
		case app.CloseButton:
			_ = d.Store.CloseWindow(id)
			return nil
		}
		if app.OnTitleBar(r, m.X, m.Y) {
			logGesture(d, "drag", id, h.DragStart(mousePointer, x, y))
			return nil
		}

	case tea.MouseRight:
		corner := dragctl.CornerAt(r, x, y)
		logGesture(d, "resize", id, h.ResizeStart(mousePointer, corner, x, y))
		return nil
	}

	_ = d.Store.BringToFront(id)
	return nil
}

func handleMouseMotion(msg tea.MouseMotionMsg, d *app.Desk) tea.Cmd {
	m := msg.Mouse()
	x, y := float64(m.X), float64(m.Y)

	if d.Toolbar.Dragging() {
		d.Toolbar.Drag(x, y)
		return nil
	}
	s, ok := d.Drag.Session(mousePointer)
	if !ok {
		return nil
	}
	h := d.Drag.Handle(s.WindowID)
	var err error
	if s.Kind == dragctl.Resize {
		_, err = h.Resize(mousePointer, x, y)
	} else {
		_, err = h.Drag(mousePointer, x, y)
	}
	if err != nil {
		d.Logger.Debug("gesture move failed", "window", s.WindowID, "err", err)
	}
	return nil
}

func handleMouseRelease(msg tea.MouseReleaseMsg, d *app.Desk) tea.Cmd {
	m := msg.Mouse()
	x, y := float64(m.X), float64(m.Y)

	if d.Toolbar.Dragging() {
		d.Toolbar.DragStop(x, y)
		return nil
	}
	s, ok := d.Drag.Session(mousePointer)
	if !ok {
		return nil
	}
	h := d.Drag.Handle(s.WindowID)
	var err error
	if s.Kind == dragctl.Resize {
		_, err = h.ResizeStop(mousePointer, x, y)
	} else {
		_, err = h.DragStop(mousePointer, x, y)
	}
	if err != nil {
		d.Logger.Debug("gesture commit failed", "window", s.WindowID, "err", err)
	}
	return nil
}

func handleMouseWheel(msg tea.MouseWheelMsg, d *app.Desk) tea.Cmd {
	if !d.ShowLogs {
		return nil
	}
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		d.ScrollLogs(-1)
	case tea.MouseWheelDown:
		d.ScrollLogs(1)
	}
	return nil
}

func logGesture(d *app.Desk, kind, id string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, dragctl.ErrDisabled):
		// Dragging a minimized window or resizing a maximized one.
		_ = d.Store.BringToFront(id)
	default:
		d.Logger.Debug("gesture start failed", "kind", kind, "window", id, "err", err)
	}
}

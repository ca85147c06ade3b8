// Package input turns key presses and mouse gestures into desk operations.
package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
)

// HandleInput is the desk's input handler. Register it with
// app.SetInputHandler before starting a program.
func HandleInput(msg tea.Msg, d *app.Desk) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return d, handleKeyPress(msg, d)
	case tea.MouseClickMsg:
		return d, handleMouseClick(msg, d)
	case tea.MouseMotionMsg:
		return d, handleMouseMotion(msg, d)
	case tea.MouseReleaseMsg:
		return d, handleMouseRelease(msg, d)
	case tea.MouseWheelMsg:
		return d, handleMouseWheel(msg, d)
	}
	return d, nil
}

func handleKeyPress(msg tea.KeyPressMsg, d *app.Desk) tea.Cmd {
	key := msg.String()

	// Overlays swallow navigation keys.
	if d.ShowLogs || d.ShowHelp {
		switch key {
		case "esc", "q":
			d.ShowLogs, d.ShowHelp = false, false
			return nil
		case "j", "down":
			d.ScrollLogs(1)
			return nil
		case "k", "up":
			d.ScrollLogs(-1)
			return nil
		}
	}

	action := d.Keys.GetAction(key)
	if action == "" {
		action = d.Keys.GetAction(msg.Keystroke())
	}
	if action == "" {
		return nil
	}
	return GetDispatcher().Dispatch(action, d)
}

// FilterMouseMotion drops hover motion so the desk only wakes for motion
// that belongs to a drag, resize or toolbar move.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	d, ok := model.(*app.Desk)
	if !ok {
		return msg
	}
	if d.Drag.Busy() || d.Toolbar.Dragging() {
		return msg
	}
	return nil
}

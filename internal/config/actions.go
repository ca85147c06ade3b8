package config

import "fmt"

// ActionDescriptions describes every bindable action.
var ActionDescriptions = map[string]string{
	"focus_next":       "Focus next window",
	"focus_prev":       "Focus previous window",
	"minimize_window":  "Minimize window to dock",
	"maximize_window":  "Maximize or restore window",
	"close_window":     "Close window",
	"move_left":        "Nudge window left",
	"move_right":       "Nudge window right",
	"move_up":          "Nudge window up",
	"move_down":        "Nudge window down",
	"dock_all":         "Dock all windows",
	"restore_all":      "Restore all windows",
	"reset_layout":     "Close every window",
	"pin_window":       "Toggle sticky pin for the focused panel",
	"toggle_offscreen": "Allow windows to leave the screen",
	"duplicate_window": "Open another window of the focused panel",
	"add_widget":       "Add a studio widget",
	"toggle_logs":      "Toggle log viewer",
	"toggle_help":      "Toggle help",
	"quit":             "Quit",
}

func init() {
	for i := 1; i <= 9; i++ {
		ActionDescriptions[LaunchAction(i)] = fmt.Sprintf("Open panel %d", i)
	}
}

// LaunchAction names the action that opens the nth registered panel.
func LaunchAction(n int) string {
	return fmt.Sprintf("launch_%d", n)
}

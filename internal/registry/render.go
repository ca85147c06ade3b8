package registry

import (
	"fmt"
	"runtime/debug"
)

// RenderError is a panel failure caught by the per-window isolation
// boundary.
type RenderError struct {
	Panel string
	Cause any
	Stack string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("panel %s crashed: %v", e.Panel, e.Cause)
}

// SafeRender renders p, converting a panic into a *RenderError so one
// misbehaving panel cannot take down the host or its sibling windows.
func SafeRender(id string, p Panel, props Props, width, height int) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = &RenderError{Panel: id, Cause: rec, Stack: string(debug.Stack())}
		}
	}()
	if p == nil {
		return "", fmt.Errorf("panel %s has no component", id)
	}
	return p.Render(props, width, height)
}

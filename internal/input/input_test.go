package input

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
	"github.com/Gaurav-Gosain/tuidesk/internal/state"
	"github.com/Gaurav-Gosain/tuidesk/internal/toolbar"
)

func newDesk(t *testing.T) (*app.Desk, *state.Memory) {
	t.Helper()
	app.SetInputHandler(HandleInput)

	reg := registry.New()
	for _, id := range []string{"dashboard", "crm", "notes", "studio"} {
		body := id + " body"
		err := reg.Register(registry.Entry{ID: id, Title: strings.ToUpper(id[:1]) + id[1:], Icon: "*",
			Resolver: func(context.Context) (registry.Panel, error) {
				return registry.PanelFunc(func(registry.Props, int, int) (string, error) { return body, nil }), nil
			}})
		if err != nil {
			t.Fatal(err)
		}
	}

	kv := state.NewMemory()
	d := app.New(app.Options{Registry: reg, State: kv, Width: 120, Height: 41})
	t.Cleanup(d.Close)
	update(t, d, nil)
	return d, kv
}

// update feeds msg through the desk and runs the resulting panel loads.
// Ticks and quit are not followed.
func update(t *testing.T, d *app.Desk, msg tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	if msg == nil {
		cmd = d.Flush()
	} else {
		_, cmd = d.Update(msg)
	}
	return drain(t, d, cmd)
}

func drain(t *testing.T, d *app.Desk, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		return nil
	}
	switch m := cmd().(type) {
	case tea.BatchMsg:
		var last tea.Cmd
		for _, c := range m {
			if r := drain(t, d, c); r != nil {
				last = r
			}
		}
		return last
	case app.ResolvedMsg:
		_, next := d.Update(m)
		return drain(t, d, next)
	default:
		return cmd
	}
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func click(x, y int, b tea.MouseButton) tea.MouseClickMsg {
	return tea.MouseClickMsg{X: x, Y: y, Button: b}
}

// find scans row y for the first column hitting id.
func find(t *testing.T, d *app.Desk, id string, y int) int {
	t.Helper()
	for x := range d.Width {
		if d.HitID(x, y) == id {
			return x
		}
	}
	t.Fatalf("layer %q not found on row %d", id, y)
	return -1
}

func TestEveryConfiguredActionHasAHandler(t *testing.T) {
	for action := range config.ActionDescriptions {
		if !GetDispatcher().HasAction(action) {
			t.Errorf("no handler for %s", action)
		}
	}
}

func TestKeyActions(t *testing.T) {
	d, kv := newDesk(t)

	update(t, d, key("2"))
	if d.Store.Active() != "crm" {
		t.Fatalf("launch_2 active = %q", d.Store.Active())
	}

	update(t, d, key("tab"))
	if d.Store.Active() != "dashboard" {
		t.Errorf("focus_next active = %q", d.Store.Active())
	}

	update(t, d, key("p"))
	if w, _ := d.Store.Window("dashboard"); !w.Pinned {
		t.Error("pin_window did not pin the focused panel")
	}
	update(t, d, key("p"))
	if w, _ := d.Store.Window("dashboard"); w.Pinned {
		t.Error("second pin_window did not unpin")
	}

	update(t, d, key("f"))
	if w, _ := d.Store.Window("dashboard"); !w.Maximized {
		t.Error("maximize_window")
	}
	update(t, d, key("m"))
	if w, _ := d.Store.Window("dashboard"); !w.Minimized || w.Maximized {
		t.Errorf("minimize_window state = %s", w.State())
	}

	update(t, d, key("M"))
	if len(d.Store.DockItems()) != 0 {
		t.Error("restore_all left docked windows")
	}
	update(t, d, key("D"))
	if len(d.Store.DockItems()) != 2 {
		t.Error("dock_all")
	}

	update(t, d, key("o"))
	if v, _, _ := kv.Get(state.KeyAllowOffscreen); v != "true" || !d.Drag.AllowOffscreen() {
		t.Errorf("toggle_offscreen stored %q", v)
	}

	update(t, d, key("R"))
	if d.Store.Len() != 0 {
		t.Error("reset_layout left windows")
	}
}

func TestDuplicateAndWidget(t *testing.T) {
	d, _ := newDesk(t)

	update(t, d, key("d"))
	update(t, d, key("w"))

	var dashboards, widgets int
	for _, w := range d.Store.Windows() {
		switch w.BaseKey {
		case "dashboard":
			dashboards++
		case "studio":
			widgets++
			if !strings.HasPrefix(w.Title, "Widget: ") {
				t.Errorf("widget title = %q", w.Title)
			}
		}
	}
	if dashboards != 2 || widgets != 1 {
		t.Errorf("dashboards=%d widgets=%d", dashboards, widgets)
	}
}

func TestNudgeClampsIntoDesk(t *testing.T) {
	d, _ := newDesk(t)
	for range 10 {
		update(t, d, key("h"))
	}
	w, _ := d.Store.Window("dashboard")
	if w.X != 0 || w.Y != 5 {
		t.Errorf("rect after nudging left = %+v", w.Rect())
	}
}

func TestTitleBarDrag(t *testing.T) {
	d, _ := newDesk(t)
	// Dashboard is centered at (10,5) 100x30.
	update(t, d, click(20, 5, tea.MouseLeft))
	update(t, d, tea.MouseMotionMsg{X: 25, Y: 7, Button: tea.MouseLeft})

	if r, ok := d.Drag.Preview("dashboard"); !ok || r.X != 15 || r.Y != 7 {
		t.Fatalf("preview = %+v, %v", r, ok)
	}
	if w, _ := d.Store.Window("dashboard"); w.X != 10 {
		t.Fatal("store touched before release")
	}

	update(t, d, tea.MouseReleaseMsg{X: 30, Y: 8, Button: tea.MouseLeft})
	w, _ := d.Store.Window("dashboard")
	if w.Rect() != (geom.Rect{X: 20, Y: 8, Width: 100, Height: 30}) {
		t.Errorf("committed rect = %+v", w.Rect())
	}
	if d.Drag.Busy() {
		t.Error("session left open")
	}
}

func TestRightDragResizes(t *testing.T) {
	d, _ := newDesk(t)
	update(t, d, click(100, 30, tea.MouseRight))
	update(t, d, tea.MouseMotionMsg{X: 90, Y: 25, Button: tea.MouseRight})
	update(t, d, tea.MouseReleaseMsg{X: 90, Y: 25, Button: tea.MouseRight})

	w, _ := d.Store.Window("dashboard")
	if w.Rect() != (geom.Rect{X: 10, Y: 5, Width: 90, Height: 25}) {
		t.Errorf("resized rect = %+v", w.Rect())
	}
}

// titleClick clicks the title bar of id, offset columns left of its right
// edge.
func titleClick(t *testing.T, d *app.Desk, id string, offset int) {
	t.Helper()
	w, ok := d.Store.Window(id)
	if !ok {
		t.Fatalf("window %s missing", id)
	}
	update(t, d, click(int(w.X+w.Width)-offset, int(w.Y), tea.MouseLeft))
}

func TestTitleButtonsAndDock(t *testing.T) {
	d, _ := newDesk(t)

	// Buttons: minimize, maximize, close, then the corner.
	titleClick(t, d, "dashboard", 9)
	if w, _ := d.Store.Window("dashboard"); !w.Minimized {
		t.Fatal("minimize button")
	}

	x := find(t, d, app.DockLayer+"dashboard", d.Height-1)
	update(t, d, click(x, d.Height-1, tea.MouseLeft))
	if w, _ := d.Store.Window("dashboard"); w.Minimized || d.Store.Active() != "dashboard" {
		t.Fatal("dock click did not restore")
	}

	titleClick(t, d, "dashboard", 6)
	if w, _ := d.Store.Window("dashboard"); !w.Maximized {
		t.Fatal("maximize button")
	}
	titleClick(t, d, "dashboard", 6)
	w, _ := d.Store.Window("dashboard")
	if w.Maximized || w.Rect() != (geom.Rect{X: 10, Y: 5, Width: 100, Height: 30}) {
		t.Fatalf("second maximize click = %+v", w.Rect())
	}

	titleClick(t, d, "dashboard", 3)
	if d.Store.Len() != 0 {
		t.Fatal("close button")
	}
}

func TestToolbarDragPersists(t *testing.T) {
	d, kv := newDesk(t)
	x := find(t, d, app.ToolbarLayer+app.ToolbarGrip, 0)

	update(t, d, click(x, 0, tea.MouseLeft))
	update(t, d, tea.MouseMotionMsg{X: x + 5, Y: 3, Button: tea.MouseLeft})
	update(t, d, tea.MouseReleaseMsg{X: x + 5, Y: 3, Button: tea.MouseLeft})

	want := toolbar.Position{X: 36 + 5, Y: 3}
	if got := d.Toolbar.Position(); got != want {
		t.Fatalf("toolbar = %+v, want %+v", got, want)
	}
	reloaded := toolbar.Load(kv, 120, d.Config.Desk.Toolbar)
	if reloaded.Position() != want {
		t.Errorf("persisted = %+v", reloaded.Position())
	}
}

func TestToolbarButtons(t *testing.T) {
	d, _ := newDesk(t)
	update(t, d, key("3"))

	x := find(t, d, app.ToolbarLayer+"dock_all", 0)
	update(t, d, click(x, 0, tea.MouseLeft))
	if len(d.Store.DockItems()) != 2 {
		t.Errorf("dock button docked %d windows", len(d.Store.DockItems()))
	}

	x = find(t, d, app.ToolbarLayer+"toggle_help", 0)
	update(t, d, click(x, 0, tea.MouseLeft))
	if !d.ShowHelp {
		t.Error("help button")
	}
	update(t, d, key("esc"))
	if d.ShowHelp {
		t.Error("esc did not close help")
	}
}

func TestFilterMouseMotion(t *testing.T) {
	d, _ := newDesk(t)
	hover := tea.MouseMotionMsg{X: 50, Y: 20}

	if FilterMouseMotion(d, hover) != nil {
		t.Error("hover motion passed through")
	}
	if FilterMouseMotion(d, key("q")) == nil {
		t.Error("key press filtered")
	}

	update(t, d, click(20, 5, tea.MouseLeft))
	if FilterMouseMotion(d, hover) == nil {
		t.Error("drag motion filtered")
	}
}

func TestQuit(t *testing.T) {
	d, _ := newDesk(t)
	_, cmd := d.Update(key("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	found := false
	var walk func(c tea.Cmd)
	walk = func(c tea.Cmd) {
		switch m := c().(type) {
		case tea.BatchMsg:
			for _, sub := range m {
				if sub != nil {
					walk(sub)
				}
			}
		case tea.QuitMsg:
			found = true
		}
	}
	walk(cmd)
	if !found {
		t.Error("quit did not produce QuitMsg")
	}
}

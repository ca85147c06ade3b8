package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

func textPanel(text string) registry.Resolver {
	return func(context.Context) (registry.Panel, error) {
		return registry.PanelFunc(func(registry.Props, int, int) (string, error) {
			return text, nil
		}), nil
	}
}

func testRegistry(t *testing.T, extra ...registry.Entry) *registry.Registry {
	t.Helper()
	reg := registry.New()
	entries := append([]registry.Entry{
		{ID: "dashboard", Title: "Dashboard", Icon: "D", Resolver: textPanel("dashboard body")},
		{ID: "notes", Title: "Notes", Icon: "N", Resolver: textPanel("notes body")},
		{ID: "studio", Title: "Studio", Icon: "S", Resolver: textPanel("studio body")},
	}, extra...)
	for _, e := range entries {
		if err := reg.Register(e); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func newDesk(t *testing.T, reg *registry.Registry) *Desk {
	t.Helper()
	d := New(Options{Registry: reg, Width: 120, Height: 41})
	t.Cleanup(d.Close)
	run(t, d, d.Flush())
	return d
}

// run executes cmd and feeds its messages back into the desk, the way a
// program would.
func run(t *testing.T, d *Desk, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			run(t, d, c)
		}
	case nil:
	default:
		_, next := d.Update(msg)
		run(t, d, next)
	}
}

func TestDefaultPanelOpensCentered(t *testing.T) {
	d := newDesk(t, testRegistry(t))

	w, ok := d.Store.Window("dashboard")
	if !ok {
		t.Fatal("default panel not opened")
	}
	want := geom.Rect{X: 10, Y: 5, Width: 100, Height: 30}
	if w.Rect() != want {
		t.Errorf("rect = %+v, want %+v", w.Rect(), want)
	}
	if d.Store.Active() != "dashboard" {
		t.Errorf("active = %q", d.Store.Active())
	}
	if c, _ := d.Registry.Component("dashboard"); c.Status != registry.Loaded {
		t.Errorf("component = %s", c.Status)
	}
}

func TestDefaultPanelWaitsForViewport(t *testing.T) {
	d := New(Options{Registry: testRegistry(t)})
	t.Cleanup(d.Close)

	run(t, d, d.Flush())
	if d.Store.Len() != 0 {
		t.Fatal("opened before the viewport size was known")
	}

	_, cmd := d.Update(tea.WindowSizeMsg{Width: 120, Height: 41})
	run(t, d, cmd)
	if _, ok := d.Store.Window("dashboard"); !ok {
		t.Fatal("default panel not opened after resize")
	}
}

func TestEmptyRegistryShowsDiagnostic(t *testing.T) {
	d := New(Options{Registry: registry.New(), Width: 80, Height: 24})
	t.Cleanup(d.Close)
	run(t, d, d.Flush())

	if d.Store.Len() != 0 {
		t.Errorf("windows mounted with an empty registry")
	}
	if out := ansi.Strip(d.Render()); !strings.Contains(out, "No panels registered") {
		t.Errorf("diagnostic missing:\n%s", out)
	}
}

func TestRenderShowsWindowsDockAndToolbar(t *testing.T) {
	d := newDesk(t, testRegistry(t))
	if _, err := d.Store.OpenPanelByID("notes", desk.OpenOptions{}); err != nil {
		t.Fatal(err)
	}
	_ = d.Store.ToggleMinimize("notes")
	run(t, d, d.Flush())

	out := ansi.Strip(d.Render())
	for _, want := range []string{"Dashboard", "dashboard body", "Notes", "Dock", "Restore"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	if strings.Contains(out, "notes body") {
		t.Error("minimized window content rendered")
	}
	if lines := strings.Split(out, "\n"); len(lines) != 41 {
		t.Errorf("frame has %d lines, want 41", len(lines))
	}
}

func TestPanelFailuresStayInTheirWindow(t *testing.T) {
	reg := testRegistry(t,
		registry.Entry{ID: "boom", Title: "Boom", Resolver: func(context.Context) (registry.Panel, error) {
			return registry.PanelFunc(func(registry.Props, int, int) (string, error) {
				panic("kaboom")
			}), nil
		}},
		registry.Entry{ID: "broken", Title: "Broken", Resolver: func(context.Context) (registry.Panel, error) {
			return nil, errors.New("bundle missing")
		}},
	)
	d := newDesk(t, reg)
	for id, x := range map[string]float64{"boom": 0, "broken": 60} {
		if _, err := d.Store.OpenPanelByID(id, desk.OpenOptions{X: desk.Num(x), Y: desk.Num(20)}); err != nil {
			t.Fatal(err)
		}
	}
	run(t, d, d.Flush())

	out := ansi.Strip(d.Render())
	for _, want := range []string{"Boom crashed", "kaboom", "Broken failed to load", "bundle missing", "dashboard body"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	if d.Store.Len() != 3 {
		t.Errorf("windows = %d, want 3", d.Store.Len())
	}
}

func TestFailedPanelRetriesOnlyOnNewWindow(t *testing.T) {
	calls := 0
	reg := testRegistry(t, registry.Entry{ID: "flaky", Resolver: func(context.Context) (registry.Panel, error) {
		calls++
		return nil, errors.New("offline")
	}})
	d := newDesk(t, reg)

	_, _ = d.Store.OpenPanelByID("flaky", desk.OpenOptions{})
	run(t, d, d.Flush())
	run(t, d, d.Flush())
	if calls != 1 {
		t.Fatalf("resolver ran %d times for one window", calls)
	}

	_, _ = d.Store.OpenPanelByID("flaky", desk.OpenOptions{AllowDuplicate: true})
	run(t, d, d.Flush())
	if calls != 2 {
		t.Errorf("resolver ran %d times after a fresh open, want 2", calls)
	}
}

func TestBusEventsRunOnTheUpdateLoop(t *testing.T) {
	d := newDesk(t, testRegistry(t))
	woken := make(chan tea.Msg, 1)
	d.Attach(func(msg tea.Msg) { woken <- msg })

	go d.Bus.Publish(bus.OpenPanel{ID: "notes", Title: "Scratch"})

	var msg tea.Msg
	select {
	case msg = <-woken:
	case <-time.After(2 * time.Second):
		t.Fatal("desk was not woken")
	}
	if _, ok := d.Store.Window("notes"); ok {
		t.Fatal("store mutated off the update loop")
	}

	_, cmd := d.Update(msg)
	run(t, d, cmd)
	w, ok := d.Store.Window("notes")
	if !ok || w.Title != "Scratch" {
		t.Fatalf("window = %+v, %v", w, ok)
	}
	if got := d.Status(); got.Active != "notes" || len(got.Windows) != 2 {
		t.Errorf("status = %+v", got)
	}
}

func TestAddWidgetThroughBridge(t *testing.T) {
	d := newDesk(t, testRegistry(t))
	d.Bus.Publish(bus.HUDAddWidget{Title: "Clock"})
	run(t, d, d.Flush())

	var titles []string
	for _, w := range d.Store.Windows() {
		if w.BaseKey == "studio" {
			titles = append(titles, w.Title)
		}
	}
	if len(titles) != 1 || titles[0] != "Widget: Clock" {
		t.Errorf("studio windows = %v", titles)
	}
}

func TestResizeRefitsAndRecentersToolbar(t *testing.T) {
	d := newDesk(t, testRegistry(t))
	_ = d.Store.ToggleMaximize("dashboard")

	_, cmd := d.Update(tea.WindowSizeMsg{Width: 200, Height: 61})
	run(t, d, cmd)

	w, _ := d.Store.Window("dashboard")
	if w.Width != 196 || w.Height != 56 {
		t.Errorf("maximized rect = %+v", w.Rect())
	}
	if p := d.Toolbar.Position(); p.X != 76 || p.Y != 0 {
		t.Errorf("toolbar = %+v", p)
	}
}

func TestTitleButtonAt(t *testing.T) {
	r := geom.Rect{X: 10, Y: 5, Width: 40, Height: 10}
	tests := []struct {
		name string
		x, y int
		want TitleButton
	}{
		{"close", 47, 5, CloseButton},
		{"close left edge", 46, 5, CloseButton},
		{"right corner", 49, 5, NoButton},
		{"maximize", 44, 5, MaximizeButton},
		{"minimize", 41, 5, MinimizeButton},
		{"title", 20, 5, NoButton},
		{"body", 47, 6, NoButton},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleButtonAt(r, tt.x, tt.y); got != tt.want {
				t.Errorf("TitleButtonAt(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFrameButtonsLandOnHitColumns(t *testing.T) {
	w := desk.Window{Title: "Notes", Icon: "N", Width: 40, Height: 5}
	top := strings.Split(ansi.Strip(frame(w, "", 40, 5, theme.BorderUnfocused())), "\n")[0]
	cols := []rune(top)
	if len(cols) != 40 {
		t.Fatalf("title bar is %d wide", len(cols))
	}
	if got := string(cols[37]); got != "×" {
		t.Errorf("close glyph at col 37 = %q", got)
	}
	if got := string(cols[34]); got != "□" {
		t.Errorf("maximize glyph at col 34 = %q", got)
	}
	if got := string(cols[31]); got != "−" {
		t.Errorf("minimize glyph at col 31 = %q", got)
	}
}

func TestHitIDFindsTopWindow(t *testing.T) {
	d := newDesk(t, testRegistry(t))
	x, y := 30.0, 10.0
	if _, err := d.Store.OpenPanelByID("notes", desk.OpenOptions{X: &x, Y: &y}); err != nil {
		t.Fatal(err)
	}
	run(t, d, d.Flush())

	if got := d.HitID(35, 12); got != WindowLayer+"notes" {
		t.Errorf("hit = %q, want notes on top", got)
	}
	_ = d.Store.BringToFront("dashboard")
	run(t, d, d.Flush())
	if got := d.HitID(35, 12); got != WindowLayer+"dashboard" {
		t.Errorf("hit = %q after raise", got)
	}
	if got := d.HitID(0, 20); got != "" {
		t.Errorf("empty desk hit = %q", got)
	}
}

package dragctl

import (
	"context"
	"errors"
	"testing"

	"github.com/Gaurav-Gosain/tuidesk/internal/desk"
	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
)

func newStore(t *testing.T) *desk.Store {
	t.Helper()
	reg := registry.New()
	for _, id := range []string{"notes", "crm"} {
		err := reg.Register(registry.Entry{
			ID: id,
			Resolver: func(context.Context) (registry.Panel, error) {
				return registry.PanelFunc(func(registry.Props, int, int) (string, error) { return "", nil }), nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return desk.NewStore(reg, desk.WithContainer(geom.Size{Width: 1920, Height: 1080}))
}

func open(t *testing.T, s *desk.Store, id string, r geom.Rect) {
	t.Helper()
	_, err := s.OpenPanelByID(id, desk.OpenOptions{
		X: desk.Num(r.X), Y: desk.Num(r.Y), Width: desk.Num(r.Width), Height: desk.Num(r.Height),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func rectOf(t *testing.T, s *desk.Store, id string) geom.Rect {
	t.Helper()
	w, ok := s.Window(id)
	if !ok {
		t.Fatalf("window %s missing", id)
	}
	return w.Rect()
}

func TestScenarioDDragCommitsOnRelease(t *testing.T) {
	s := newStore(t)
	open(t, s, "notes", geom.Rect{X: 120, Y: 80, Width: 720, Height: 520})
	c := New(s)
	h := c.Handle("notes")

	if err := h.DragStart(0, 200, 100); err != nil {
		t.Fatal(err)
	}
	preview, err := h.Drag(0, 230, 90)
	if err != nil {
		t.Fatal(err)
	}
	if preview.X != 150 || preview.Y != 70 {
		t.Errorf("preview = %+v", preview)
	}
	if got := rectOf(t, s, "notes"); got.X != 120 || got.Y != 80 {
		t.Errorf("store moved before release: %+v", got)
	}
	if p, ok := c.Preview("notes"); !ok || p != preview {
		t.Errorf("controller preview = %+v %v", p, ok)
	}

	if _, err := h.DragStop(0, 250, 80); err != nil {
		t.Fatal(err)
	}
	want := geom.Rect{X: 170, Y: 60, Width: 720, Height: 520}
	if got := rectOf(t, s, "notes"); got != want {
		t.Errorf("after release = %+v, want %+v", got, want)
	}
	if c.Busy() {
		t.Error("session still active after stop")
	}
}

func TestStartBringsToFront(t *testing.T) {
	s := newStore(t)
	open(t, s, "notes", geom.Rect{X: 0, Y: 0, Width: 300, Height: 200})
	open(t, s, "crm", geom.Rect{X: 50, Y: 50, Width: 300, Height: 200})
	c := New(s)

	if err := c.Handle("notes").ResizeStart(1, BottomRight, 300, 200); err != nil {
		t.Fatal(err)
	}
	notes, _ := s.Window("notes")
	crm, _ := s.Window("crm")
	if notes.Z <= crm.Z || s.Active() != "notes" {
		t.Errorf("notes z %d crm z %d active %q", notes.Z, crm.Z, s.Active())
	}
}

func TestGating(t *testing.T) {
	s := newStore(t)
	open(t, s, "notes", geom.Rect{X: 10, Y: 10, Width: 300, Height: 200})
	c := New(s)
	h := c.Handle("notes")

	_ = s.ToggleMinimize("notes")
	if h.CanDrag() || h.CanResize() {
		t.Error("minimized window should not drag or resize")
	}
	if err := h.DragStart(0, 0, 0); !errors.Is(err, ErrDisabled) {
		t.Errorf("drag minimized err = %v", err)
	}
	if err := h.ResizeStart(0, TopLeft, 0, 0); !errors.Is(err, ErrDisabled) {
		t.Errorf("resize minimized err = %v", err)
	}

	_ = s.ToggleMaximize("notes")
	if !h.CanDrag() || h.CanResize() {
		t.Error("maximized window should drag but not resize")
	}
	if err := h.ResizeStart(0, TopLeft, 0, 0); !errors.Is(err, ErrDisabled) {
		t.Errorf("resize maximized err = %v", err)
	}
	if c.Busy() {
		t.Error("disabled start left a session behind")
	}

	if err := c.Handle("ghost").DragStart(0, 0, 0); !errors.Is(err, desk.ErrWindowNotFound) {
		t.Errorf("unknown window err = %v", err)
	}
}

func TestPointerExclusivity(t *testing.T) {
	s := newStore(t)
	open(t, s, "notes", geom.Rect{X: 10, Y: 10, Width: 300, Height: 200})
	open(t, s, "crm", geom.Rect{X: 400, Y: 10, Width: 300, Height: 200})
	c := New(s)

	if err := c.Handle("notes").DragStart(0, 20, 20); err != nil {
		t.Fatal(err)
	}
	if err := c.Handle("crm").DragStart(0, 410, 20); !errors.Is(err, ErrPointerBusy) {
		t.Errorf("second session on pointer 0 err = %v", err)
	}
	if err := c.Handle("notes").ResizeStart(1, BottomRight, 20, 20); !errors.Is(err, ErrWindowBusy) {
		t.Errorf("second pointer on same window err = %v", err)
	}
	if _, err := c.Handle("crm").Drag(0, 0, 0); !errors.Is(err, ErrNoSession) {
		t.Errorf("drag on other window err = %v", err)
	}

	// Different windows can be dragged in sequence without interference.
	if _, err := c.Handle("notes").DragStop(0, 30, 30); err != nil {
		t.Fatal(err)
	}
	if err := c.Handle("crm").DragStart(0, 410, 20); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Handle("crm").DragStop(0, 420, 40); err != nil {
		t.Fatal(err)
	}
	if got := rectOf(t, s, "notes"); got.X != 20 || got.Y != 20 {
		t.Errorf("notes = %+v", got)
	}
	if got := rectOf(t, s, "crm"); got.X != 410 || got.Y != 30 {
		t.Errorf("crm = %+v", got)
	}
}

func TestResizeCorners(t *testing.T) {
	origin := geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	tests := []struct {
		corner Corner
		dx, dy float64
		want   geom.Rect
	}{
		{BottomRight, 50, 20, geom.Rect{X: 100, Y: 100, Width: 450, Height: 320}},
		{TopLeft, 50, 20, geom.Rect{X: 150, Y: 120, Width: 350, Height: 280}},
		{TopRight, 50, 20, geom.Rect{X: 100, Y: 120, Width: 450, Height: 280}},
		{BottomLeft, -30, 10, geom.Rect{X: 70, Y: 100, Width: 430, Height: 310}},
		{TopLeft, 390, 290, geom.Rect{X: 340, Y: 300, Width: 160, Height: 100}},
		{BottomRight, -1000, -1000, geom.Rect{X: 100, Y: 100, Width: 160, Height: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.corner.String(), func(t *testing.T) {
			s := newStore(t)
			open(t, s, "notes", origin)
			c := New(s, WithAllowOffscreen(true))
			h := c.Handle("notes")

			if err := h.ResizeStart(0, tt.corner, 0, 0); err != nil {
				t.Fatal(err)
			}
			if _, err := h.Resize(0, tt.dx/2, tt.dy/2); err != nil {
				t.Fatal(err)
			}
			if got := rectOf(t, s, "notes"); got != origin {
				t.Errorf("store changed mid-resize: %+v", got)
			}
			got, err := h.ResizeStop(0, tt.dx, tt.dy)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || rectOf(t, s, "notes") != tt.want {
				t.Errorf("rect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCornerAt(t *testing.T) {
	r := geom.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	tests := []struct {
		x, y float64
		want Corner
	}{
		{10, 10, TopLeft},
		{90, 10, TopRight},
		{10, 40, BottomLeft},
		{90, 40, BottomRight},
	}
	for _, tt := range tests {
		if got := CornerAt(r, tt.x, tt.y); got != tt.want {
			t.Errorf("CornerAt(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestOffscreenClamp(t *testing.T) {
	tests := []struct {
		name  string
		allow bool
		want  geom.Rect
	}{
		{"clamped", false, geom.Rect{X: 0, Y: 880, Width: 300, Height: 200}},
		{"offscreen allowed", true, geom.Rect{X: -90, Y: 1010, Width: 300, Height: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			open(t, s, "notes", geom.Rect{X: 10, Y: 10, Width: 300, Height: 200})
			c := New(s)
			c.SetAllowOffscreen(tt.allow)
			h := c.Handle("notes")

			if err := h.DragStart(0, 0, 0); err != nil {
				t.Fatal(err)
			}
			if _, err := h.DragStop(0, -100, 1000); err != nil {
				t.Fatal(err)
			}
			if got := rectOf(t, s, "notes"); got != tt.want {
				t.Errorf("rect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCancelDiscardsPreview(t *testing.T) {
	s := newStore(t)
	open(t, s, "notes", geom.Rect{X: 10, Y: 10, Width: 300, Height: 200})
	c := New(s)
	h := c.Handle("notes")

	_ = h.DragStart(3, 0, 0)
	_, _ = h.Drag(3, 100, 100)
	c.Cancel(3)

	if got := rectOf(t, s, "notes"); got.X != 10 || got.Y != 10 {
		t.Errorf("cancel committed geometry: %+v", got)
	}
	if _, ok := c.Session(3); ok {
		t.Error("session survived cancel")
	}
}

func TestStopAfterCloseReportsMissingWindow(t *testing.T) {
	s := newStore(t)
	open(t, s, "notes", geom.Rect{X: 10, Y: 10, Width: 300, Height: 200})
	c := New(s)
	h := c.Handle("notes")

	_ = h.DragStart(0, 0, 0)
	_ = s.CloseWindow("notes")
	if _, err := h.DragStop(0, 5, 5); !errors.Is(err, desk.ErrWindowNotFound) {
		t.Errorf("err = %v", err)
	}
	if c.Busy() {
		t.Error("session leaked after failed commit")
	}
}

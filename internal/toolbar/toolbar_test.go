package toolbar

import (
	"testing"

	"github.com/Gaurav-Gosain/tuidesk/internal/state"
)

func TestDefaultPosition(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		m     Metrics
		want  Position
	}{
		{"pixels", 1920, DefaultMetrics(), Position{X: 720, Y: 12}},
		{"narrow viewport", 300, DefaultMetrics(), Position{X: -90, Y: 12}},
		{"cells", 120, CellMetrics(), Position{X: 36, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Default(tt.width, tt.m); got != tt.want {
				t.Errorf("Default = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadPersisted(t *testing.T) {
	kv := state.NewMemory()
	_ = kv.Set(state.KeyToolbarPosition, `{"x":5,"y":7}`)

	tb := Load(kv, 1920, DefaultMetrics())
	if got := tb.Position(); got != (Position{X: 5, Y: 7}) {
		t.Errorf("position = %+v", got)
	}
	tb.SetViewportWidth(800)
	if got := tb.Position(); got != (Position{X: 5, Y: 7}) {
		t.Errorf("persisted position moved on resize: %+v", got)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	kv := state.NewMemory()
	_ = kv.Set(state.KeyToolbarPosition, `not json`)
	tb := Load(kv, 1920, DefaultMetrics())
	if got := tb.Position(); got != (Position{X: 720, Y: 12}) {
		t.Errorf("position = %+v", got)
	}
	tb.SetViewportWidth(1000)
	if got := tb.Position(); got != (Position{X: 260, Y: 12}) {
		t.Errorf("after resize = %+v", got)
	}
}

func TestDragIsDeltaBasedAndPersisted(t *testing.T) {
	kv := state.NewMemory()
	tb := Load(kv, 1920, DefaultMetrics())

	tb.DragStart(800, 20)
	if got := tb.Drag(850, 10); got != (Position{X: 770, Y: 2}) {
		t.Errorf("mid drag = %+v", got)
	}
	raw, ok, _ := kv.Get(state.KeyToolbarPosition)
	if !ok || raw != `{"x":770,"y":2}` {
		t.Errorf("persisted mid drag = %q", raw)
	}

	// No clamping: the toolbar may leave the viewport.
	if got := tb.DragStop(-5000, -100); got != (Position{X: -5080, Y: -108}) {
		t.Errorf("after stop = %+v", got)
	}
	if tb.Dragging() {
		t.Error("still dragging")
	}
	if got := tb.Drag(0, 0); got != (Position{X: -5080, Y: -108}) {
		t.Errorf("drag without start moved toolbar: %+v", got)
	}

	reloaded := Load(kv, 1920, DefaultMetrics())
	if reloaded.Position() != tb.Position() {
		t.Errorf("reloaded %+v, want %+v", reloaded.Position(), tb.Position())
	}
}

package control

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
)

func startServer(t *testing.T, b *bus.Bus, status StatusFunc) (*Server, *Client) {
	t.Helper()
	// Unix socket paths are length-limited, so avoid deep temp dirs.
	dir, err := os.MkdirTemp("", "tdc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "c.sock")

	srv := NewServer(path, b, status)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop() })
	return srv, NewClient(path)
}

func TestPublishReachesBus(t *testing.T) {
	b := bus.New()
	got := make(chan bus.OpenPanel, 1)
	b.Subscribe(bus.OpenPanelEvent, func(ev bus.Event) { got <- ev.(bus.OpenPanel) })

	_, client := startServer(t, b, nil)
	n, err := client.Publish(bus.OpenPanel{ID: "notes", AllowDuplicate: true, Title: "Scratch"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if n != 1 {
		t.Errorf("delivered = %d, want 1", n)
	}
	ev := <-got
	if ev.ID != "notes" || !ev.AllowDuplicate || ev.Title != "Scratch" {
		t.Errorf("event = %+v", ev)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	_, client := startServer(t, bus.New(), nil)
	n, err := client.Publish(bus.StickyPin{PanelID: "notes", IsPinned: true})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("delivered = %d", n)
	}
}

func TestStatus(t *testing.T) {
	status := func() StatusData {
		return StatusData{
			Active:  "notes",
			Panels:  3,
			Windows: []WindowInfo{{ID: "notes", Title: "Notes", State: "normal", Z: 2}},
		}
	}
	_, client := startServer(t, bus.New(), status)

	data, err := client.Status()
	if err != nil {
		t.Fatal(err)
	}
	if data.Active != "notes" || data.Panels != 3 || len(data.Windows) != 1 || data.Windows[0].Z != 2 {
		t.Errorf("status = %+v", data)
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	srv := NewServer("", bus.New(), nil)

	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{"unknown command", &Request{Command: "EXPLODE"}, "Unknown command"},
		{"bad envelope", &Request{Command: CommandPublish, Payload: []byte(`"nope"`)}, "Invalid envelope"},
		{"unknown event", &Request{Command: CommandPublish, Payload: []byte(`{"event":"explode"}`)}, "unknown event"},
		{"invalid payload", &Request{Command: CommandPublish, Payload: []byte(`{"event":"open-panel","payload":{}}`)}, "missing id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.handleCommand(tt.req)
			if resp.Status != "ERROR" || !strings.Contains(resp.Error, tt.want) {
				t.Errorf("resp = %+v, want error containing %q", resp, tt.want)
			}
		})
	}
}

func TestClientWithoutServer(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	if _, err := client.Status(); err == nil || !strings.Contains(err.Error(), "is tuidesk running") {
		t.Errorf("err = %v", err)
	}
}

func TestStopRemovesSocket(t *testing.T) {
	srv, client := startServer(t, bus.New(), nil)
	if err := srv.Stop(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(srv.socketPath); !os.IsNotExist(err) {
		t.Errorf("socket still present: %v", err)
	}
	if _, err := client.Status(); err == nil {
		t.Error("status succeeded after stop")
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

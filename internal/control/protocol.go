// Package control exposes a running desktop's event bus over a unix
// socket so other processes (the tuidesk CLI, scripts) can open, close
// and pin windows. Each connection carries one JSON request line and gets
// one JSON response line.
package control

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
)

// CommandType names a control request.
type CommandType string

const (
	CommandPublish CommandType = "PUBLISH"
	CommandStatus  CommandType = "STATUS"
)

// Request is a client request.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the server's reply.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// PublishData reports how many subscribers received a published event.
type PublishData struct {
	Delivered int `json:"delivered"`
}

// WindowInfo describes one window in a status reply.
type WindowInfo struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	State  string  `json:"state"`
	Z      int     `json:"z"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Pinned bool    `json:"pinned,omitempty"`
}

// StatusData is the STATUS reply.
type StatusData struct {
	Active        string       `json:"active"`
	Windows       []WindowInfo `json:"windows"`
	Panels        int          `json:"panels"`
	UptimeSeconds int64        `json:"uptime_seconds"`
}

// SocketPath returns $XDG_RUNTIME_DIR/tuidesk/control.sock.
func SocketPath() (string, error) {
	return xdg.RuntimeFile(filepath.Join("tuidesk", "control.sock"))
}

// NewOKResponse creates a successful response with optional data.
func NewOKResponse(data any) (*Response, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		raw = b
	}
	return &Response{Status: "OK", Data: raw}, nil
}

// NewErrorResponse creates an error response.
func NewErrorResponse(msg string) *Response {
	return &Response{Status: "ERROR", Error: msg}
}

// NewPublishRequest wraps ev in a PUBLISH request.
func NewPublishRequest(ev bus.Event) (*Request, error) {
	env, err := bus.Encode(ev)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return &Request{Command: CommandPublish, Payload: payload}, nil
}

// ParseRequest parses a request line.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

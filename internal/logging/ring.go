package logging

import (
	"bytes"
	"strings"
	"sync"
)

// Ring is an io.Writer that keeps the last N complete lines written to it.
type Ring struct {
	mu      sync.Mutex
	lines   []string
	max     int
	partial bytes.Buffer
}

// NewRing creates a ring holding at most size lines.
func NewRing(size int) *Ring {
	return &Ring{max: max(size, 1)}
}

func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.partial.Write(p)
	for {
		data := r.partial.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(data[:idx]), "\r")
		r.partial.Next(idx + 1)
		r.lines = append(r.lines, line)
		if len(r.lines) > r.max {
			r.lines = r.lines[len(r.lines)-r.max:]
		}
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Package logging owns the root structured logger. Output goes to an
// optional log file and is always teed into an in-memory ring that the
// desktop's log viewer reads, so nothing is ever written over the UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"charm.land/log/v2"
)

// MaxLogMessages bounds the in-memory ring.
const MaxLogMessages = 1000

var (
	mu       sync.Mutex
	ring     = NewRing(MaxLogMessages)
	root     = newRoot(io.Discard, log.InfoLevel)
	file     *os.File
	children = map[string]*log.Logger{}
)

func newRoot(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(io.MultiWriter(w, ring), log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// Setup points the root logger at path (empty disables the file) with the
// given level. Loggers already handed out by For follow the new output and
// level.
func Setup(path string, level log.Level) error {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = io.Discard
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		if file != nil {
			_ = file.Close()
		}
		file = f
		w = f
	}
	out := io.MultiWriter(w, ring)
	root = newRoot(w, level)
	for _, c := range children {
		c.SetOutput(out)
		c.SetLevel(level)
	}
	return nil
}

// SetLevel changes the level of the root and of every logger from For.
func SetLevel(level log.Level) {
	mu.Lock()
	defer mu.Unlock()
	root.SetLevel(level)
	for _, c := range children {
		c.SetLevel(level)
	}
}

// For returns the child logger tagged with prefix. The same prefix always
// yields the same logger.
func For(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := children[prefix]; ok {
		return c
	}
	c := root.WithPrefix(prefix)
	children[prefix] = c
	return c
}

// Messages returns the buffered log lines, oldest first.
func Messages() []string {
	return ring.Lines()
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

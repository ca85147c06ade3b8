package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
)

// Watch reloads path whenever it changes and passes each successfully
// parsed config to onChange. It blocks until ctx is done. The directory is
// watched rather than the file so editors that replace the file on save
// are still seen.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	logger := logging.For("config")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("config change detected", "op", ev.Op.String())
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("failed to reload config", "err", err)
				continue
			}
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "err", err)
		}
	}
}

package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the bursts of events editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// watchConfig reloads the settings whenever the watched file changes.
// The directory is watched because editors often replace the file.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.watchFile)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "file", target, "error", err)
		// Keep serving without hot reload
		<-ctx.Done()
		return nil
	}
	s.logger.Debug("watching config file", "file", target)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, s.reloadSettings)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadSettings swaps in freshly loaded settings. A broken file keeps
// the previous settings.
func (s *Server) reloadSettings() {
	st, err := s.reload()
	if err != nil {
		s.logger.Warn("config reload failed, keeping previous settings", "error", err)
		return
	}
	s.Update(st)
	s.logger.Info("config reloaded", "file", s.watchFile)
}

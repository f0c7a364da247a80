package knowledge

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever its overlay file changes, until the
// context is cancelled. A no-op when the store has no overlay path.
// Edits are debounced so editors that write-then-rename only trigger one
// reload.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger) error {
	if s.path == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch the directory, not the file: many editors replace the file on
	// save, which drops a watch registered on the file itself.
	dir := filepath.Dir(s.path)
	if err := fsw.Add(dir); err != nil {
		return err
	}

	const debounce = 200 * time.Millisecond
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := s.Reload(); err != nil {
				logger.Warn("Knowledge reload failed", "path", s.path, "error", err)
				continue
			}
			logger.Info("Knowledge reloaded", "path", s.path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Knowledge watcher error", "error", err)
		}
	}
}

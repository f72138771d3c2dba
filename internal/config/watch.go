package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"aridcore/internal/logging"
)

// reloadRetryDelay gives an editor that writes in several steps time to finish.
const reloadRetryDelay = 250 * time.Millisecond

// Watch reloads the store whenever the document changes on disk and calls
// onChange with the result of the reload (nil on success). Changes made
// through Set do not trigger onChange. Watch blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	path := filepath.Clean(s.ds.Path())
	// watch the directory: editors and our own writes replace the file by rename
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.handleChange(ctx, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn(logging.Configuration, "Config watcher error.", zap.Error(err))
		}
	}
}

func (s *Store) handleChange(ctx context.Context, onChange func(error)) {
	modified, err := s.ds.Modified()
	if err == nil && !modified {
		return
	}

	err = s.Reload()
	if err != nil {
		select {
		case <-ctx.Done():
			return
		case <-time.After(reloadRetryDelay):
		}
		err = s.Reload()
	}
	if err == nil {
		s.log.Info(logging.Configuration, "Configuration reloaded from disk.", zap.String("path", s.ds.Path()))
	}
	onChange(err)
}

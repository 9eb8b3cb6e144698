// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ManuGH/innoviz/internal/dataset"
	xglog "github.com/ManuGH/innoviz/internal/log"
)

// DefaultDebounce coalesces bursts of file events into one invalidation.
const DefaultDebounce = 500 * time.Millisecond

// Watch invalidates the store whenever a table file in dir changes. It blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context, dir string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the files: atomic replaces swap inodes.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch data dir: %w", err)
	}

	names := make(map[string]struct{}, len(dataset.AllTables))
	for _, t := range dataset.AllTables {
		names[t.ObjectName(s.format)] = struct{}{}
	}

	s.logger.Info().
		Str(xglog.FieldEvent, "store.watcher_started").
		Str("path", dir).
		Msg("watching data directory for changes")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str(xglog.FieldEvent, "store.watcher_stopped").Msg("data watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, tracked := names[filepath.Base(event.Name)]; !tracked {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			s.logger.Debug().
				Str(xglog.FieldEvent, "store.file_changed").
				Str(xglog.FieldObject, filepath.Base(event.Name)).
				Str("op", event.Op.String()).
				Msg("data file changed")

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			s.Invalidate()
			s.logger.Info().
				Str(xglog.FieldEvent, "store.invalidated").
				Str("reason", "file_change").
				Msg("dataset invalidated by file change")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "store.watcher_error").
				Msg("data watcher error")
		}
	}
}

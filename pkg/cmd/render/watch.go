// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher calls a function whenever one of a set of files changes.
// Bursts of events within the debounce interval trigger a single call.
type Watcher struct {
	paths    map[string]struct{}
	interval time.Duration
	logger   *zap.Logger
}

func NewWatcher(paths []string, interval time.Duration, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{paths: map[string]struct{}{}, interval: interval, logger: logger}
	for _, path := range paths {
		if len(path) == 0 || path == stdinPath {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		w.paths[abs] = struct{}{}
	}
	if len(w.paths) == 0 {
		return nil, fmt.Errorf("Expected at least one file to watch")
	}
	return w, nil
}

// Watch blocks until ctx is done. Directories are watched instead of the
// files themselves so that editors replacing files by rename are noticed.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Creating file watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]struct{}{}
	for path := range w.paths {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("Watching '%s': %w", dir, err)
		}
	}

	debounce := newDebouncer(w.interval)
	defer debounce.stop()

	w.logger.Debug("watching files", zap.Int("files", len(w.paths)), zap.Duration("debounce", w.interval))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("File watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			debounce.trigger(onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("File watcher closed")
			}
			w.logger.Debug("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, found := w.paths[abs]
	return found
}

type debouncer struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}

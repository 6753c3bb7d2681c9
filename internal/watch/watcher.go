// Package watch reports changes to the dataset file so the dashboard can reload.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must stay quiet before onChange fires.
// Editors and copy tools often write a file in several steps.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches a single file. The parent directory is watched rather
// than the file itself so that atomic replace-by-rename saves are seen.
type FileWatcher struct {
	fw       *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *slog.Logger

	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	timer   *time.Timer
}

// NewFileWatcher creates a watcher for path. debounce <= 0 uses DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{
		fw:       fw,
		path:     abs,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring. onChange runs on its own goroutine once per burst
// of writes, creates, renames or removals of the file.
func (w *FileWatcher) Watch(onChange func()) error {
	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.logger.Debug("dataset file changed", "path", w.path, "op", event.Op.String())
					w.schedule(onChange)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("file watcher error", "error", err)

			case <-w.done:
				return
			}
		}
	}()
	return nil
}

// schedule (re)arms the debounce timer.
func (w *FileWatcher) schedule(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, onChange)
}

// Stop ends monitoring and releases all resources. A pending callback is
// cancelled. Safe to call multiple times.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

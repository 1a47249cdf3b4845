// Package watch re-runs a callback when watched files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a set of files for changes.
type Watcher struct {
	files    map[string]struct{}
	callback func(path string) error
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a watcher for files. The callback gets the absolute path of
// a changed file once the debounce period has passed without new events.
func New(files []string, callback func(path string) error, debounce time.Duration) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		callback: callback,
		debounce: debounce,
		watcher:  watcher,
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		absPath, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		w.files[absPath] = struct{}{}

		// Watch the directory so editors that replace the file are seen
		dir := filepath.Dir(absPath)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}

	return w, nil
}

// Run delivers change callbacks until ctx is done. Callback errors are
// logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	var debounceCh <-chan time.Time
	pending := make(map[string]struct{})

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			eventPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.files[eventPath]; !watched {
				continue
			}

			slog.Debug("file changed", "path", eventPath, "op", event.Op.String())
			pending[eventPath] = struct{}{}
			debounceTimer.Reset(w.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			debounceCh = nil

			for _, p := range paths {
				if err := w.callback(p); err != nil {
					slog.Error("watch callback failed", "path", p, "error", err)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

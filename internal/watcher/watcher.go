// Package watcher re-runs a conversion whenever the source file changes.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mcncl/json2raml/internal/errors"
)

const changeEvents = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// FileWatcher watches a single file. The parent directory is watched
// rather than the file itself because editors often save by writing a
// new file and renaming it over the old one.
type FileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *log.Logger
}

// New creates a watcher for path. A nil logger discards debug output.
func New(path string, debounce time.Duration, logger *log.Logger) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewWatchError(fmt.Sprintf("failed to resolve path '%s'", path), err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewWatchError("failed to create file watcher", err)
	}

	dir := filepath.Dir(absPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.NewWatchError(fmt.Sprintf("failed to watch directory '%s'", dir), err)
	}
	logger.Printf("watching %s", absPath)

	return &FileWatcher{
		path:     absPath,
		debounce: debounce,
		watcher:  watcher,
		logger:   logger,
	}, nil
}

// Run calls onChange once per burst of changes to the file, after the
// burst has been quiet for the debounce period. It returns nil when ctx is
// cancelled and an error if the underlying watcher fails.
func (w *FileWatcher) Run(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Printf("change detected: %s", event)
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return errors.NewWatchError("file watcher failed", err)
		case <-timer.C:
			onChange()
		}
	}
}

// Close stops watching.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	return filepath.Clean(event.Name) == w.path && event.Op&changeEvents != 0
}

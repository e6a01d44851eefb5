package server

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher observes the served tree recursively and calls onChange after
// a burst of filesystem events has settled. Which file changed is not
// part of the contract; any change triggers the same signal.
type watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func newWatcher(root string, debounce time.Duration, onChange func(), logger *slog.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &watcher{
		fsw:      fsw,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// addRecursive watches dir and every subdirectory, skipping hidden
// directories like .git.
func (w *watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if name := filepath.Base(path); strings.HasPrefix(name, ".") && path != dir {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Chmod carries no content change.
			if event.Op&fsnotify.Chmod != 0 {
				continue
			}

			// New directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fsw.Add(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}

			// Collapse event bursts into one trailing signal.
			if timer != nil {
				timer.Reset(w.debounce)
			} else {
				timer = time.AfterFunc(w.debounce, w.onChange)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

// Close stops the watch and waits for the event loop to drain.
func (w *watcher) Close() {
	_ = w.fsw.Close()
	w.wg.Wait()
}

// Package watch reruns a build whenever files below a directory change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc performs one full build. Its error is logged; watching continues.
type BuildFunc func(ctx context.Context) error

// Run watches dir recursively and calls build after changes settle, until ctx
// is done. Builds never overlap; changes during a build queue one more build.
func Run(ctx context.Context, dir string, debounce time.Duration, build BuildFunc) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve watch dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, abs); err != nil {
		return err
	}

	rebuildReq, trigger := newDebouncer(debounce)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rebuildWorker(ctx, rebuildReq, build)
	}()
	defer wg.Wait()

	slog.Info("Watching for changes", "dir", abs)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopped watching", "dir", abs)
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// newDebouncer returns the request channel and a trigger that fires into it
// once no trigger has happened for d.
func newDebouncer(d time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// rebuildWorker runs builds sequentially. A request arriving mid-build is held
// in the buffered channel and served right after.
func rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}, build BuildFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			slog.Info("Change detected; rebuilding")
			if err := build(ctx); err != nil {
				slog.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func handleEvent(w *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", "dir", path, logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnore reports events on hidden files and editor temporaries.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}

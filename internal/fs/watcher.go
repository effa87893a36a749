package fs

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/crumbbar/internal/debug"
)

const defaultDebounceMs = 200

// Watcher watches directories and reports each changed one once its events
// have been quiet for the debounce interval.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watching map[string]bool
	notify   chan string
	done     chan struct{}
	closeMu  sync.Once
	debounce time.Duration
}

// NewWatcher starts a watcher. debounceMs <= 0 uses 200ms.
func NewWatcher(debounceMs int) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounceMs <= 0 {
		debounceMs = defaultDebounceMs
	}

	dw := &Watcher{
		watcher:  w,
		watching: make(map[string]bool),
		notify:   make(chan string, 10),
		done:     make(chan struct{}),
		debounce: time.Duration(debounceMs) * time.Millisecond,
	}
	go dw.run()
	return dw, nil
}

func (dw *Watcher) run() {
	lastEvent := make(map[string]time.Time)
	ticker := time.NewTicker(dw.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}

			parentDir := filepath.Dir(event.Name)
			dw.mu.Lock()
			switch {
			case dw.watching[parentDir]:
				lastEvent[parentDir] = time.Now()
				debug.Log(debug.WATCH, "%s on %s", event.Op, event.Name)
			case dw.watching[event.Name]:
				// The watched directory itself changed, e.g. it was removed.
				lastEvent[event.Name] = time.Now()
				debug.Log(debug.WATCH, "%s on watched dir %s", event.Op, event.Name)
			}
			dw.mu.Unlock()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "fsnotify error: %v", err)

		case now := <-ticker.C:
			for dir, at := range lastEvent {
				if now.Sub(at) < dw.debounce {
					continue
				}
				select {
				case dw.notify <- dir:
					debug.Log(debug.WATCH, "changed: %s", dir)
				default:
				}
				delete(lastEvent, dir)
			}
		}
	}
}

// Watch adds dir to the watch list.
func (dw *Watcher) Watch(dir string) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.watching[dir] {
		return nil
	}
	if err := dw.watcher.Add(dir); err != nil {
		return err
	}
	dw.watching[dir] = true
	debug.Log(debug.WATCH, "watching %s", dir)
	return nil
}

// Unwatch removes dir from the watch list. Removing a directory that no
// longer exists is not an error.
func (dw *Watcher) Unwatch(dir string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if !dw.watching[dir] {
		return
	}
	if err := dw.watcher.Remove(dir); err != nil {
		debug.Log(debug.WATCH, "unwatch %s: %v", dir, err)
	}
	delete(dw.watching, dir)
}

// Watching reports whether dir is on the watch list.
func (dw *Watcher) Watching(dir string) bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.watching[dir]
}

// Notify returns the channel of changed directories.
func (dw *Watcher) Notify() <-chan string {
	return dw.notify
}

// Close stops the watcher. It is safe to call more than once.
func (dw *Watcher) Close() error {
	var err error
	dw.closeMu.Do(func() {
		close(dw.done)
		err = dw.watcher.Close()
	})
	return err
}

// Watch follows the current directory on disk until ctx is done. Changes
// inside it refresh subscribers; if it disappears the model moves to the
// nearest existing ancestor.
func (l *Local) Watch(ctx context.Context) error {
	w, err := NewWatcher(l.debounceMs)
	if err != nil {
		return err
	}
	defer w.Close()

	l.mu.Lock()
	l.watcher = w
	cwd := l.cwd
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.watcher = nil
		l.mu.Unlock()
	}()

	if err := w.Watch(l.OSPath(cwd)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Notify():
			l.revalidate()
		}
	}
}

// revalidate refreshes subscribers after an external change and recovers
// from the current directory having been removed.
func (l *Local) revalidate() {
	cwd := l.Path()
	if l.isDir(cwd) {
		l.notify(cwd)
		return
	}

	p := l.nearestDir(cwd)
	debug.Log(debug.WATCH, "%q is gone, moving to %q", cwd, p)

	l.mu.Lock()
	w := l.watcher
	stale := l.cwd == cwd
	if stale {
		l.cwd = p
	}
	l.mu.Unlock()
	if !stale {
		// Navigated away meanwhile.
		return
	}
	if w != nil {
		w.Unwatch(l.OSPath(cwd))
		if err := w.Watch(l.OSPath(p)); err != nil {
			debug.Log(debug.WATCH, "watch %q: %v", p, err)
		}
	}
	l.notify(p)
}

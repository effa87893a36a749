// Package fs is the on-disk file-system model behind the breadcrumb bar.
//
// Model paths are forward-slash paths relative to a root directory, with ""
// naming the root. Local keeps the current directory, performs renames and
// deletes, and tells subscribers whenever the view should refresh.
package fs

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/model"
	"github.com/justyntemme/crumbbar/internal/trash"
)

var errDeleteRoot = errors.New("refusing to delete the root directory")

// Options configures a Local model.
type Options struct {
	Root  string // directory on disk shown as Home
	Start string // initial model path, "" for the root

	// Trash receives deleted items. nil removes them permanently.
	Trash *trash.Bin

	// DebounceMs is the watcher debounce interval; <= 0 uses the default.
	DebounceMs int
}

// Local is a FileSystem backed by a directory on disk. It is safe for
// concurrent use.
type Local struct {
	root       string
	bin        *trash.Bin
	debounceMs int

	mu      sync.RWMutex
	cwd     string
	watcher *Watcher

	subMu   sync.Mutex
	subs    map[int]func(string)
	nextSub int
}

var (
	_ model.FileSystem = (*Local)(nil)
	_ model.Stater     = (*Local)(nil)
)

// NewLocal opens root and navigates to opts.Start. A start path that does
// not exist falls back to its nearest existing ancestor.
func NewLocal(opts Options) (*Local, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &model.OpError{Op: "open", Path: "", Err: err}
	}
	if !info.IsDir() {
		return nil, &model.OpError{Op: "open", Path: "", Err: model.ErrNotDir}
	}

	l := &Local{
		root:       root,
		bin:        opts.Trash,
		debounceMs: opts.DebounceMs,
		subs:       make(map[int]func(string)),
	}
	start, err := clean("", opts.Start)
	if err != nil {
		return nil, err
	}
	l.cwd = l.nearestDir(start)
	debug.Log(debug.FS, "model root=%q start=%q", root, l.cwd)
	return l, nil
}

// Root returns the absolute directory the model is rooted at.
func (l *Local) Root() string { return l.root }

// Path returns the current directory.
func (l *Local) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cwd
}

// OSPath converts a model path to a path on disk.
func (l *Local) OSPath(p string) string {
	if p == "" {
		return l.root
	}
	return filepath.Join(l.root, filepath.FromSlash(p))
}

// clean resolves target against cwd. Targets starting with "/" are relative
// to the root. Relative targets may not climb above the root.
func clean(cwd, target string) (string, error) {
	var p string
	if strings.HasPrefix(target, "/") {
		p = strings.TrimPrefix(path.Clean(target), "/")
	} else {
		p = path.Join(cwd, target)
		if p == ".." || strings.HasPrefix(p, "../") {
			return "", &model.OpError{Op: "resolve", Path: target, Err: model.ErrOutsideRoot}
		}
	}
	if p == "." {
		p = ""
	}
	return p, nil
}

// Resolve interprets target relative to the current directory.
func (l *Local) Resolve(target string) (string, error) {
	return clean(l.Path(), target)
}

// Navigate changes the current directory and notifies subscribers.
func (l *Local) Navigate(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := l.Resolve(target)
	if err != nil {
		return err
	}

	info, err := os.Stat(l.OSPath(p))
	if err != nil {
		return &model.OpError{Op: "navigate", Path: p, Err: err}
	}
	if !info.IsDir() {
		return &model.OpError{Op: "navigate", Path: p, Err: model.ErrNotDir}
	}

	l.setCwd(p)
	debug.Log(debug.FS, "navigate %q -> %q", target, p)
	l.notify(p)
	return nil
}

func (l *Local) setCwd(p string) {
	l.mu.Lock()
	old := l.cwd
	l.cwd = p
	w := l.watcher
	l.mu.Unlock()

	if w != nil && old != p {
		w.Unwatch(l.OSPath(old))
		if err := w.Watch(l.OSPath(p)); err != nil {
			debug.Log(debug.WATCH, "watch %q: %v", p, err)
		}
	}
}

// Rename moves the item at source to destination. It refuses to replace an
// existing destination; the caller decides about overwrites. A destination
// that contains source is rejected outright, since replacing it would remove
// the item being moved.
func (l *Local) Rename(ctx context.Context, source, destination string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := clean("", source)
	if err != nil {
		return &model.RenameError{Source: source, Destination: destination, Err: err}
	}
	dst, err := clean("", destination)
	if err != nil {
		return &model.RenameError{Source: src, Destination: destination, Err: err}
	}
	if src == dst {
		return nil
	}
	if model.Contains(dst, src) {
		return &model.RenameError{Source: src, Destination: dst, Err: model.ErrContainsSource}
	}

	if _, err := os.Lstat(l.OSPath(src)); err != nil {
		return &model.RenameError{Source: src, Destination: dst, Err: err}
	}
	if _, err := os.Lstat(l.OSPath(dst)); err == nil {
		return &model.RenameError{Source: src, Destination: dst, Conflict: true}
	} else if !os.IsNotExist(err) {
		return &model.RenameError{Source: src, Destination: dst, Err: err}
	}

	if err := os.Rename(l.OSPath(src), l.OSPath(dst)); err != nil {
		return &model.RenameError{Source: src, Destination: dst, Err: err}
	}
	debug.Log(debug.FS, "rename %q -> %q", src, dst)
	l.notify(l.Path())
	return nil
}

// Exists reports whether p names an existing item. Symlinks are not
// followed.
func (l *Local) Exists(p string) (bool, error) {
	p, err := clean("", p)
	if err != nil {
		return false, err
	}
	if _, err := os.Lstat(l.OSPath(p)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the item at p, through the trash when one is configured.
func (l *Local) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := clean("", p)
	if err != nil {
		return err
	}
	if p == "" {
		return &model.OpError{Op: "delete", Path: p, Err: errDeleteRoot}
	}

	osPath := l.OSPath(p)
	if _, err := os.Lstat(osPath); err != nil {
		return &model.OpError{Op: "delete", Path: p, Err: err}
	}

	if l.bin != nil {
		dest, err := l.bin.Put(osPath)
		if err != nil {
			return &model.OpError{Op: "delete", Path: p, Err: err}
		}
		debug.Log(debug.FS, "trashed %q -> %q", p, dest)
	} else {
		if err := os.RemoveAll(osPath); err != nil {
			return &model.OpError{Op: "delete", Path: p, Err: err}
		}
		debug.Log(debug.FS, "deleted %q", p)
	}
	l.notify(l.Path())
	return nil
}

// Subscribe registers fn for refresh notifications. fn runs on the goroutine
// that caused the refresh and must not block.
func (l *Local) Subscribe(fn func(path string)) (cancel func()) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, id)
			l.subMu.Unlock()
		})
	}
}

func (l *Local) notify(p string) {
	l.subMu.Lock()
	fns := make([]func(string), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.subMu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

func (l *Local) isDir(p string) bool {
	info, err := os.Stat(l.OSPath(p))
	return err == nil && info.IsDir()
}

// nearestDir walks up from p to the closest directory that exists.
func (l *Local) nearestDir(p string) string {
	for p != "" && !l.isDir(p) {
		p = parent(p)
	}
	return p
}

func parent(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}

package fs

import (
	"cmp"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/model"
)

// Entry is one item of a directory listing.
type Entry = model.Info

// Name returns the last element of an entry's model path.
func Name(e Entry) string {
	if i := strings.LastIndexByte(e.Path, '/'); i >= 0 {
		return e.Path[i+1:]
	}
	return e.Path
}

// List returns the direct children of the current directory, directories
// first, then by name.
func (l *Local) List() ([]Entry, error) {
	cwd := l.Path()
	dir := l.OSPath(cwd)
	debug.Log(debug.FS, "list %q", cwd)

	var (
		mu      sync.Mutex
		entries []Entry
	)
	conf := &fastwalk.Config{Follow: true}
	err := fastwalk.Walk(conf, dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if full == dir {
			return nil
		}

		rel := strings.TrimLeft(full[len(dir):], `/\`)
		if strings.ContainsAny(rel, `/\`) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(full, d)
		if err != nil {
			// Broken symlink: describe the link itself.
			if info, err = os.Lstat(full); err != nil {
				return nil
			}
		}

		mu.Lock()
		entries = append(entries, Entry{
			Path:    join(cwd, d.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		})
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, &model.OpError{Op: "list", Path: cwd, Err: err}
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return cmp.Compare(strings.ToLower(Name(a)), strings.ToLower(Name(b)))
	})
	return entries, nil
}

// Stat describes the item at p. Directory sizes are the sum of the regular
// files below them.
func (l *Local) Stat(p string) (model.Info, error) {
	p, err := clean("", p)
	if err != nil {
		return model.Info{}, err
	}
	osPath := l.OSPath(p)
	info, err := os.Lstat(osPath)
	if err != nil {
		return model.Info{}, err
	}

	out := model.Info{Path: p, Size: info.Size(), ModTime: info.ModTime(), IsDir: info.IsDir()}
	if info.IsDir() {
		out.Size = dirSize(osPath)
	}
	return out, nil
}

func dirSize(dir string) int64 {
	var total atomic.Int64
	conf := &fastwalk.Config{Follow: false}
	fastwalk.Walk(conf, dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total.Add(info.Size())
		}
		return nil
	})
	return total.Load()
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

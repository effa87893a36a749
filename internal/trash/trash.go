// Package trash moves files into a freedesktop.org style trash directory
// instead of deleting them.
//
// Layout of a bin:
//
//	files/          trashed items
//	info/           one <name>.trashinfo per item
//
// .trashinfo format:
//
//	[Trash Info]
//	Path=/original/path/to/file
//	DeletionDate=2024-01-15T10:30:45
package trash

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const dateLayout = "2006-01-02T15:04:05"

// Item is an entry of a bin.
type Item struct {
	Name         string    // name inside files/
	OriginalPath string    // absolute path the item was trashed from
	TrashPath    string    // current location
	DeletedAt    time.Time // from the .trashinfo file
}

// Bin is a trash directory.
type Bin struct {
	dir string
	now func() time.Time
}

// New returns a bin rooted at dir. An empty dir selects the platform default.
func New(dir string) *Bin {
	if dir == "" {
		dir = defaultDir()
	}
	return &Bin{dir: dir, now: time.Now}
}

// Dir returns the bin's root directory.
func (b *Bin) Dir() string { return b.dir }

func (b *Bin) filesDir() string { return filepath.Join(b.dir, "files") }
func (b *Bin) infoDir() string  { return filepath.Join(b.dir, "info") }

// Available creates the bin directories if needed and reports whether the
// bin can be used.
func (b *Bin) Available() bool {
	if b.dir == "" {
		return false
	}
	if err := os.MkdirAll(b.filesDir(), 0o700); err != nil {
		return false
	}
	return os.MkdirAll(b.infoDir(), 0o700) == nil
}

// Put moves path into the bin and returns its new location. Name clashes
// inside the bin get a numeric suffix ("report.1.txt").
func (b *Bin) Put(path string) (string, error) {
	if !b.Available() {
		return "", fmt.Errorf("trash %s is not available", b.dir)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", err
	}

	base := filepath.Base(abs)
	name := base
	dest := filepath.Join(b.filesDir(), name)
	for i := 1; ; i++ {
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(base)
		name = fmt.Sprintf("%s.%d%s", strings.TrimSuffix(base, ext), i, ext)
		dest = filepath.Join(b.filesDir(), name)
	}

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		url.PathEscape(abs), b.now().Format(dateLayout))
	infoPath := filepath.Join(b.infoDir(), name+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return "", fmt.Errorf("cannot create trashinfo file: %w", err)
	}

	if err := os.Rename(abs, dest); err != nil {
		os.Remove(infoPath)
		return "", fmt.Errorf("cannot move %s to trash: %w", abs, err)
	}
	return dest, nil
}

// List returns the items in the bin. A missing bin is empty.
func (b *Bin) List() ([]Item, error) {
	entries, err := os.ReadDir(b.filesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		item := Item{Name: e.Name(), TrashPath: filepath.Join(b.filesDir(), e.Name())}
		orig, deleted, err := parseInfo(filepath.Join(b.infoDir(), e.Name()+".trashinfo"))
		if err == nil {
			item.OriginalPath = orig
			item.DeletedAt = deleted
		}
		items = append(items, item)
	}
	return items, nil
}

func parseInfo(path string) (original string, deleted time.Time, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", time.Time{}, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "Path="):
			raw := strings.TrimPrefix(line, "Path=")
			if dec, err := url.PathUnescape(raw); err == nil {
				original = dec
			} else {
				original = raw
			}
		case strings.HasPrefix(line, "DeletionDate="):
			if t, err := time.Parse(dateLayout, strings.TrimPrefix(line, "DeletionDate=")); err == nil {
				deleted = t
			}
		}
	}
	return original, deleted, sc.Err()
}

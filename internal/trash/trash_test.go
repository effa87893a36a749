package trash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut(t *testing.T) {
	bin := New(filepath.Join(t.TempDir(), "Trash"))
	bin.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	src := filepath.Join(t.TempDir(), "my report.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	dest, err := bin.Put(src)
	require.NoError(t, err)
	assert.NoFileExists(t, src)
	assert.FileExists(t, dest)

	info, err := os.ReadFile(filepath.Join(bin.Dir(), "info", "my report.txt.trashinfo"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(info), "[Trash Info]\n"))
	assert.Contains(t, string(info), "DeletionDate=2026-03-04T05:06:07")

	items, err := bin.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, src, items[0].OriginalPath)
	assert.Equal(t, 2026, items[0].DeletedAt.Year())
}

func TestPutNameClash(t *testing.T) {
	bin := New(filepath.Join(t.TempDir(), "Trash"))

	var dests []string
	for i := 0; i < 3; i++ {
		src := filepath.Join(t.TempDir(), "a.txt")
		require.NoError(t, os.WriteFile(src, nil, 0o644))
		dest, err := bin.Put(src)
		require.NoError(t, err)
		dests = append(dests, filepath.Base(dest))
	}
	assert.Equal(t, []string{"a.txt", "a.1.txt", "a.2.txt"}, dests)
}

func TestPutDirectory(t *testing.T) {
	bin := New(filepath.Join(t.TempDir(), "Trash"))
	src := filepath.Join(t.TempDir(), "dir")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))

	dest, err := bin.Put(src)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dest, "nested"))
}

func TestPutMissing(t *testing.T) {
	bin := New(filepath.Join(t.TempDir(), "Trash"))
	_, err := bin.Put(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, os.IsNotExist(err))
}

func TestListEmpty(t *testing.T) {
	items, err := New(filepath.Join(t.TempDir(), "none")).List()
	assert.NoError(t, err)
	assert.Empty(t, items)
}

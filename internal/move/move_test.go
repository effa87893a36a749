package move

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	localfs "github.com/justyntemme/crumbbar/internal/fs"
	"github.com/justyntemme/crumbbar/internal/model"
)

// fakeFS records calls and answers from per-destination scripts.
type fakeFS struct {
	mu       sync.Mutex
	calls    []string
	renames  map[string][]error // destination -> successive results
	deletes  map[string]error
	stat     map[string]model.Info
	renameCh chan string   // optional: signals each rename
	gate     chan struct{} // optional: holds renames until closed
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		renames: make(map[string][]error),
		deletes: make(map[string]error),
	}
}

func (f *fakeFS) Rename(_ context.Context, src, dest string) error {
	f.mu.Lock()
	f.calls = append(f.calls, "rename "+src+" "+dest)
	var err error
	if q := f.renames[dest]; len(q) > 0 {
		err = q[0]
		f.renames[dest] = q[1:]
	}
	ch, gate := f.renameCh, f.gate
	f.mu.Unlock()
	if ch != nil {
		ch <- src
	}
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeFS) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete "+path)
	return f.deletes[path]
}

func (f *fakeFS) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type statFS struct {
	*fakeFS
}

func (s statFS) Stat(path string) (model.Info, error) {
	info, ok := s.stat[path]
	if !ok {
		return model.Info{}, fs.ErrNotExist
	}
	return info, nil
}

type fakeDialogs struct {
	mu     sync.Mutex
	shown  []model.DialogConfig
	answer model.Choice
	err    error
}

func (d *fakeDialogs) Show(_ context.Context, cfg model.DialogConfig) (model.Choice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, cfg)
	return d.answer, d.err
}

func conflict(src, dest string) error {
	return &model.RenameError{Source: src, Destination: dest, Conflict: true}
}

func TestMoveSuccess(t *testing.T) {
	f := newFakeFS()
	dlg := &fakeDialogs{}
	m := New(f, dlg)

	require.NoError(t, m.Move(context.Background(), Request{Item: "x.txt", Source: "a/b/c/x.txt", Destination: "a/b/x.txt"}))
	assert.Equal(t, []string{"rename a/b/c/x.txt a/b/x.txt"}, f.Calls())
	assert.Empty(t, dlg.shown)
}

func TestMoveConflictOverwrite(t *testing.T) {
	f := newFakeFS()
	f.renames["a/b/x.txt"] = []error{conflict("a/b/c/x.txt", "a/b/x.txt"), nil}
	dlg := &fakeDialogs{answer: model.Choice{Label: OverwriteButton}}
	m := New(f, dlg)

	require.NoError(t, m.Move(context.Background(), Request{Item: "x.txt", Source: "a/b/c/x.txt", Destination: "a/b/x.txt"}))
	assert.Equal(t, []string{
		"rename a/b/c/x.txt a/b/x.txt",
		"delete a/b/x.txt",
		"rename a/b/c/x.txt a/b/x.txt",
	}, f.Calls())
	require.Len(t, dlg.shown, 1)
	assert.Equal(t, OverwriteTitle, dlg.shown[0].Title)
	assert.Equal(t, `"a/b/x.txt" already exists, overwrite?`, dlg.shown[0].Body)
	assert.Equal(t, OverwriteButton, dlg.shown[0].Affirmative)
}

func TestMoveConflictDeclined(t *testing.T) {
	for _, answer := range []model.Choice{{Label: CancelButton}, {Dismissed: true}} {
		f := newFakeFS()
		f.renames["a/b/x.txt"] = []error{conflict("a/b/c/x.txt", "a/b/x.txt")}
		m := New(f, &fakeDialogs{answer: answer})

		require.NoError(t, m.Move(context.Background(), Request{Item: "x.txt", Source: "a/b/c/x.txt", Destination: "a/b/x.txt"}))
		assert.Equal(t, []string{"rename a/b/c/x.txt a/b/x.txt"}, f.Calls())
	}
}

func TestMoveDialogErrorSkips(t *testing.T) {
	f := newFakeFS()
	f.renames["d/x"] = []error{conflict("s/x", "d/x")}
	m := New(f, &fakeDialogs{err: context.Canceled})

	require.NoError(t, m.Move(context.Background(), Request{Item: "x", Source: "s/x", Destination: "d/x"}))
	assert.Equal(t, []string{"rename s/x d/x"}, f.Calls())
}

func TestMoveFailurePropagates(t *testing.T) {
	f := newFakeFS()
	boom := &model.RenameError{Source: "s/x", Destination: "d/x", Err: fs.ErrPermission}
	f.renames["d/x"] = []error{boom}
	dlg := &fakeDialogs{}
	m := New(f, dlg)

	err := m.Move(context.Background(), Request{Item: "x", Source: "s/x", Destination: "d/x"})
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Empty(t, dlg.shown)
}

func TestMoveRetryFailureIsNotCaught(t *testing.T) {
	f := newFakeFS()
	// The retry conflicts again; it is reported, not prompted a second time.
	f.renames["d/x"] = []error{conflict("s/x", "d/x"), conflict("s/x", "d/x")}
	dlg := &fakeDialogs{answer: model.Choice{Label: OverwriteButton}}
	m := New(f, dlg)

	err := m.Move(context.Background(), Request{Item: "x", Source: "s/x", Destination: "d/x"})
	assert.True(t, model.IsConflict(err))
	assert.Len(t, dlg.shown, 1)
	assert.Equal(t, []string{"rename s/x d/x", "delete d/x", "rename s/x d/x"}, f.Calls())
}

func TestMoveDeleteFailure(t *testing.T) {
	f := newFakeFS()
	f.renames["d/x"] = []error{conflict("s/x", "d/x")}
	f.deletes["d/x"] = &model.OpError{Op: "delete", Path: "d/x", Err: fs.ErrPermission}
	m := New(f, &fakeDialogs{answer: model.Choice{Label: OverwriteButton}})

	err := m.Move(context.Background(), Request{Item: "x", Source: "s/x", Destination: "d/x"})
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, []string{"rename s/x d/x", "delete d/x"}, f.Calls())
}

func TestMoveAllAggregatesFailures(t *testing.T) {
	f := newFakeFS()
	f.renames["d/bad"] = []error{errors.New("disk full")}
	m := New(f, &fakeDialogs{})

	err := m.MoveAll(context.Background(), []Request{
		{Item: "good", Source: "s/good", Destination: "d/good"},
		{Item: "bad", Source: "s/bad", Destination: "d/bad"},
	})
	require.Error(t, err)

	me, ok := AsMoveError(err)
	require.True(t, ok)
	assert.Equal(t, 2, me.Total)
	require.Len(t, me.Failed, 1)
	assert.Equal(t, "bad", me.Failed[0].Item)
	assert.NotEmpty(t, me.Batch)
	assert.Equal(t, "failed to move 1 of 2 items: bad: disk full", me.Error())
	assert.ElementsMatch(t, []string{"rename s/good d/good", "rename s/bad d/bad"}, f.Calls())
}

func TestMoveAllAllSucceed(t *testing.T) {
	f := newFakeFS()
	m := New(f, &fakeDialogs{})
	assert.NoError(t, m.MoveAll(context.Background(), []Request{
		{Item: "a", Source: "s/a", Destination: "d/a"},
		{Item: "b", Source: "s/b", Destination: "d/b"},
	}))
	assert.NoError(t, m.MoveAll(context.Background(), nil))
}

func TestMoveAllRunsConcurrently(t *testing.T) {
	f := newFakeFS()
	f.renameCh = make(chan string)
	f.gate = make(chan struct{})
	m := New(f, &fakeDialogs{})

	done := make(chan error, 1)
	go func() {
		done <- m.MoveAll(context.Background(), []Request{
			{Item: "a", Source: "s/a", Destination: "d/a"},
			{Item: "b", Source: "s/b", Destination: "d/b"},
		})
	}()

	// Both renames are in flight while the gate is still closed.
	var got []string
	for i := 0; i < 2; i++ {
		select {
		case item := <-f.renameCh:
			got = append(got, item)
		case <-time.After(5 * time.Second):
			t.Fatal("renames did not run concurrently")
		}
	}
	close(f.gate)

	assert.ElementsMatch(t, []string{"s/a", "s/b"}, got)
	assert.NoError(t, <-done)
}

func TestOverwritePromptDetail(t *testing.T) {
	f := statFS{newFakeFS()}
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	f.stat = map[string]model.Info{
		"d/x": {Path: "d/x", Size: 2048, ModTime: now.Add(-2 * time.Hour)},
	}
	m := New(f, &fakeDialogs{})
	m.now = func() time.Time { return now }

	cfg := m.OverwritePrompt("d/x")
	assert.Equal(t, "File • 2.0 KiB • modified 2 hours ago", cfg.Detail)

	cfg = m.OverwritePrompt("d/missing")
	assert.Empty(t, cfg.Detail)
}

func TestOutcomeAndDecisionStrings(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "conflict", Conflict.String())
	assert.Equal(t, "failure", Failure.String())
	assert.Equal(t, "overwrite", Overwrite.String())
	assert.Equal(t, "skip", Skip.String())
}

type existFS struct {
	*fakeFS
	exists bool
}

func (e existFS) Exists(string) (bool, error) { return e.exists, nil }

func TestMoveRejectsDestinationContainingSource(t *testing.T) {
	f := newFakeFS()
	dlg := &fakeDialogs{answer: model.Choice{Label: OverwriteButton}}
	m := New(f, dlg)

	err := m.Move(context.Background(), Request{Item: "c", Source: "a/b/c/c", Destination: "a/b/c"})
	assert.ErrorIs(t, err, model.ErrContainsSource)
	assert.False(t, model.IsConflict(err))
	assert.Empty(t, f.Calls())
	assert.Empty(t, dlg.shown)

	require.NoError(t, m.Move(context.Background(), Request{Item: "x", Source: "d/x", Destination: "d/x"}))
	assert.Empty(t, f.Calls())
}

func TestMoveOverwriteNeedsSource(t *testing.T) {
	f := existFS{fakeFS: newFakeFS()}
	f.renames["d/x"] = []error{conflict("s/x", "d/x")}
	m := New(f, &fakeDialogs{answer: model.Choice{Label: OverwriteButton}})

	err := m.Move(context.Background(), Request{Item: "x", Source: "s/x", Destination: "d/x"})
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, []string{"rename s/x d/x"}, f.Calls(), "destination must not be deleted")
}

// dialogAction runs a side effect while the prompt is open, then answers.
type dialogAction struct {
	before func()
	answer model.Choice
}

func (d dialogAction) Show(context.Context, model.DialogConfig) (model.Choice, error) {
	d.before()
	return d.answer, nil
}

func newLocalTree(t *testing.T, files map[string]string, dirs ...string) (*localfs.Local, string) {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	l, err := localfs.NewLocal(localfs.Options{Root: root, Start: "a/b"})
	require.NoError(t, err)
	return l, root
}

func readFile(t *testing.T, root, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
	require.NoError(t, err)
	return string(data)
}

func TestOverwriteAfterNavigatingAway(t *testing.T) {
	l, root := newLocalTree(t, map[string]string{
		"a/b/x.txt": "source",
		"a/x.txt":   "existing",
	}, "other")
	dlg := dialogAction{
		before: func() { require.NoError(t, l.Navigate(context.Background(), "/other")) },
		answer: model.Choice{Label: OverwriteButton},
	}

	err := New(l, dlg).Move(context.Background(), Request{Item: "x.txt", Source: "a/b/x.txt", Destination: "a/x.txt"})
	require.NoError(t, err)
	assert.Equal(t, "other", l.Path())
	assert.Equal(t, "source", readFile(t, root, "a/x.txt"))
	assert.NoFileExists(t, filepath.Join(root, "a", "b", "x.txt"))
}

func TestOverwriteKeepsDestinationWhenSourceVanished(t *testing.T) {
	l, root := newLocalTree(t, map[string]string{
		"a/b/x.txt": "source",
		"a/x.txt":   "existing",
	})
	dlg := dialogAction{
		before: func() { require.NoError(t, os.Remove(filepath.Join(root, "a", "b", "x.txt"))) },
		answer: model.Choice{Label: OverwriteButton},
	}

	err := New(l, dlg).Move(context.Background(), Request{Item: "x.txt", Source: "a/b/x.txt", Destination: "a/x.txt"})
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "existing", readFile(t, root, "a/x.txt"))
}

func TestOverwriteNeverRemovesContainingDirectory(t *testing.T) {
	l, root := newLocalTree(t, map[string]string{
		"a/b/c/keep.txt": "keep",
	}, "a/b/c/c")
	dlg := &fakeDialogs{answer: model.Choice{Label: OverwriteButton}}

	err := New(l, dlg).Move(context.Background(), Request{Item: "c", Source: "a/b/c/c", Destination: "a/b/c"})
	assert.ErrorIs(t, err, model.ErrContainsSource)
	assert.Empty(t, dlg.shown)
	assert.Equal(t, "keep", readFile(t, root, "a/b/c/keep.txt"))
	assert.DirExists(t, filepath.Join(root, "a", "b", "c", "c"))
}

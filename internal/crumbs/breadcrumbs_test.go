package crumbs

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBreadcrumbs(t *testing.T, cwd string) (*Breadcrumbs, *memFS, *atomic.Int32) {
	t.Helper()
	fs := newMemFS(cwd)
	var invalidations atomic.Int32
	b := New(Options{
		FS:         fs,
		Dialogs:    &scriptedDialogs{},
		Reporter:   &recordingReporter{},
		Invalidate: func() { invalidations.Add(1) },
		Spawn:      inline,
	})
	t.Cleanup(b.Close)
	return b, fs, &invalidations
}

func TestBreadcrumbsInitialRender(t *testing.T) {
	b, _, _ := newBreadcrumbs(t, "a/b/c")
	assert.Equal(t, "a/b/c", b.Bar().Path())
	assert.True(t, b.Bar().Attached(Ellipsis))
	assert.False(t, b.Sync(), "nothing changed since construction")
}

func TestBreadcrumbsFollowNavigation(t *testing.T) {
	b, fs, inv := newBreadcrumbs(t, "a/b/c")

	require.NoError(t, fs.Navigate(context.Background(), "../"))
	assert.Equal(t, int32(1), inv.Load())
	assert.Equal(t, "a/b/c", b.Bar().Path(), "render waits for Sync")

	assert.True(t, b.Sync())
	assert.Equal(t, "a/b", b.Bar().Path())
	assert.False(t, b.Bar().Attached(Ellipsis))
	assert.False(t, b.Sync())
}

func TestBreadcrumbsClickRerenders(t *testing.T) {
	b, _, _ := newBreadcrumbs(t, "a/b/c")

	require.True(t, b.Click(ClickEvent{Button: ButtonPrimary, Target: Home, OnSegment: true}))
	require.True(t, b.Sync())

	nodes := b.Bar().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, Home, nodes[0].Role)
}

func TestBreadcrumbsSyncClearsDetachedHighlight(t *testing.T) {
	b, fs, _ := newBreadcrumbs(t, "a/b/c")
	require.True(t, b.DragEnter(over(Ellipsis)))

	require.NoError(t, fs.Navigate(context.Background(), "/a"))
	require.True(t, b.Sync())
	_, ok := b.Highlighted()
	assert.False(t, ok)
}

func TestBreadcrumbsSyncKeepsAttachedHighlight(t *testing.T) {
	b, fs, _ := newBreadcrumbs(t, "a/b/c")
	require.True(t, b.DragEnter(over(Parent)))

	require.NoError(t, fs.Navigate(context.Background(), "/a/b"))
	require.True(t, b.Sync())
	assert.True(t, b.IsHighlighted(Parent))
}

func TestBreadcrumbsClose(t *testing.T) {
	b, fs, inv := newBreadcrumbs(t, "a")
	b.Close()
	b.Close()

	require.NoError(t, fs.Navigate(context.Background(), "/"))
	assert.Equal(t, int32(0), inv.Load())
	assert.False(t, b.Sync())
}

package crumbs

import (
	"context"
	"sync/atomic"

	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/model"
)

// Breadcrumbs ties a Bar and a Controller to a file-system model. Model
// notifications may arrive on any goroutine; they only mark the bar dirty and
// call Invalidate. The UI goroutine calls Sync before drawing.
type Breadcrumbs struct {
	*Controller

	fs         model.FileSystem
	bar        *Bar
	dirty      atomic.Bool
	invalidate func()
	cancel     func()
}

// Options configures Breadcrumbs.
type Options struct {
	// Context bounds the controller's model calls. Cancel it on shutdown.
	Context  context.Context
	FS       model.FileSystem
	Dialogs  model.Dialogs
	Reporter model.Reporter

	// Invalidate asks the platform for a new frame. Called from any goroutine.
	Invalidate func()

	Spawn Spawner
}

// New builds the bar, subscribes to the model and renders the current path.
func New(opts Options) *Breadcrumbs {
	b := &Breadcrumbs{
		Controller: NewController(ControllerOptions{
			Context:  opts.Context,
			FS:       opts.FS,
			Dialogs:  opts.Dialogs,
			Reporter: opts.Reporter,
			Spawn:    opts.Spawn,
		}),
		fs:         opts.FS,
		bar:        NewBar(),
		invalidate: opts.Invalidate,
	}
	b.bar.Render(opts.FS.Path())
	b.cancel = opts.FS.Subscribe(func(string) { b.Refresh() })
	return b
}

// Refresh schedules a re-render on the next Sync.
func (b *Breadcrumbs) Refresh() {
	b.dirty.Store(true)
	if b.invalidate != nil {
		b.invalidate()
	}
}

// Sync re-renders the bar if the model changed since the last call. It
// reports whether a render happened. A highlight on a segment that is no
// longer attached is cleared.
func (b *Breadcrumbs) Sync() bool {
	if !b.dirty.Swap(false) {
		return false
	}
	p := b.fs.Path()
	b.bar.Render(p)
	if r, ok := b.Highlighted(); ok && !b.bar.Attached(r) {
		b.ClearHighlight()
	}
	debug.Log(debug.UI, "breadcrumbs rendered %q", p)
	return true
}

// Bar returns the rendered bar. Read it from the UI goroutine only.
func (b *Breadcrumbs) Bar() *Bar { return b.bar }

// Close drops the model subscription.
func (b *Breadcrumbs) Close() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

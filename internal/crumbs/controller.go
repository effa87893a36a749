package crumbs

import (
	"context"
	"path"
	"strings"

	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/model"
	"github.com/justyntemme/crumbbar/internal/move"
)

// Error contexts passed to the reporter.
const (
	OpenErrorContext = "Open Error"
	MoveErrorContext = "Move Error"
)

// DropAction is the action a drag proposes or a target accepts.
type DropAction int

const (
	ActionNone DropAction = iota
	ActionCopy
	ActionMove
	ActionLink
)

func (a DropAction) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionMove:
		return "move"
	case ActionLink:
		return "link"
	}
	return "none"
}

// DragEvent is a platform drag event translated for the controller. Target
// is the segment under the pointer (or the drop's target node); OnSegment is
// false when the pointer is over the bar but not over a segment. Accepted is
// written by the Over and Drop handlers.
type DragEvent struct {
	Data      MimeData
	Target    Role
	OnSegment bool
	Proposed  DropAction
	Accepted  DropAction
}

// Button identifies the pointer button of a click.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// ClickEvent is a click on the bar.
type ClickEvent struct {
	Button    Button
	Target    Role
	OnSegment bool
}

// Handlers are the per-kind callbacks the platform layer subscribes to. Each
// returns true when it consumed the event (the platform default must then be
// suppressed).
type Handlers struct {
	Click     func(ev ClickEvent) bool
	DragEnter func(ev *DragEvent) bool
	DragOver  func(ev *DragEvent) bool
	DragLeave func(ev *DragEvent) bool
	Drop      func(ev *DragEvent) bool
}

// Spawner runs f asynchronously. The default starts a goroutine.
type Spawner func(f func())

// Controller owns the drop highlight and turns clicks and drops into model
// calls. Handlers must be invoked from the UI goroutine; the model calls they
// start run through the Spawner.
type Controller struct {
	ctx      context.Context
	fs       model.FileSystem
	reporter model.Reporter
	mover    *move.Mover
	spawn    Spawner

	highlight Role
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// Context bounds navigations and moves; cancelling it releases batches
	// waiting on a dialog. Defaults to context.Background().
	Context  context.Context
	FS       model.FileSystem
	Dialogs  model.Dialogs
	Reporter model.Reporter
	Spawn    Spawner // nil starts goroutines
}

// NewController returns a controller with nothing highlighted.
func NewController(opts ControllerOptions) *Controller {
	spawn := opts.Spawn
	if spawn == nil {
		spawn = func(f func()) { go f() }
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Controller{
		ctx:       ctx,
		fs:        opts.FS,
		reporter:  opts.Reporter,
		mover:     move.New(opts.FS, opts.Dialogs),
		spawn:     spawn,
		highlight: NoRole,
	}
}

// Handlers returns the callbacks to register with the platform.
func (c *Controller) Handlers() Handlers {
	return Handlers{
		Click:     c.Click,
		DragEnter: c.DragEnter,
		DragOver:  c.DragOver,
		DragLeave: c.DragLeave,
		Drop:      c.Drop,
	}
}

// Highlighted returns the segment currently marked as drop target.
func (c *Controller) Highlighted() (Role, bool) {
	return c.highlight, c.highlight != NoRole
}

// IsHighlighted reports whether r is the drop target.
func (c *Controller) IsHighlighted(r Role) bool {
	return c.highlight != NoRole && c.highlight == r
}

func (c *Controller) setHighlight(r Role) {
	if r != c.highlight {
		debug.Log(debug.UI_EVENT, "drop highlight %s -> %s", c.highlight, r)
	}
	c.highlight = r
}

// ClearHighlight removes the drop target mark.
func (c *Controller) ClearHighlight() { c.setHighlight(NoRole) }

// Click navigates to the clicked segment's target. Navigation errors are
// reported; the drag state is left alone.
func (c *Controller) Click(ev ClickEvent) bool {
	if ev.Button != ButtonPrimary || !ev.OnSegment || !ev.Target.Valid() {
		return false
	}
	target := NavTargets[ev.Target]
	debug.Log(debug.UI, "click %s -> %q", ev.Target, target)
	c.spawn(func() {
		if err := c.fs.Navigate(c.ctx, target); err != nil {
			c.reporter.Report(OpenErrorContext, err)
		}
	})
	return true
}

// DragEnter highlights the segment under the pointer unless it is Current.
func (c *Controller) DragEnter(ev *DragEvent) bool {
	if !ev.Data.Has(ContentsMIME) {
		return false
	}
	if !ev.OnSegment || !ev.Target.Valid() || ev.Target == Current {
		return false
	}
	c.setHighlight(ev.Target)
	return true
}

// DragOver moves the highlight to the segment under the pointer and accepts
// the proposed action.
func (c *Controller) DragOver(ev *DragEvent) bool {
	if !ev.Data.Has(ContentsMIME) {
		return false
	}
	ev.Accepted = ev.Proposed
	c.ClearHighlight()
	if ev.OnSegment && ev.Target.Valid() {
		c.setHighlight(ev.Target)
	}
	return true
}

// DragLeave clears the highlight.
func (c *Controller) DragLeave(ev *DragEvent) bool {
	if !ev.Data.Has(ContentsMIME) {
		return false
	}
	c.ClearHighlight()
	return true
}

// Drop moves the dragged items into the directory of the highlighted
// segment. The renames run asynchronously; a batch failure is reported once.
func (c *Controller) Drop(ev *DragEvent) bool {
	if ev.Proposed == ActionNone {
		ev.Accepted = ActionNone
		c.ClearHighlight()
		return true
	}
	if !ev.Data.Has(ContentsMIME) {
		return false
	}
	ev.Accepted = ev.Proposed

	// Only the highlighted segment accepts drops.
	target, ok := c.Highlighted()
	c.ClearHighlight()
	if !ok || !ev.OnSegment || ev.Target != target {
		return true
	}

	dir, err := c.fs.Resolve(NavTargets[target])
	if err != nil {
		c.reporter.Report(MoveErrorContext, err)
		return true
	}

	// Sources are fixed now; the user may navigate while a conflict
	// prompt is open.
	cwd := c.fs.Path()
	names := ev.Data.Items(ContentsMIME)
	reqs := make([]move.Request, 0, len(names))
	for _, name := range names {
		if !validName(name) {
			debug.Log(debug.UI, "drop: ignoring item %q", name)
			continue
		}
		reqs = append(reqs, move.Request{
			Item:        name,
			Source:      path.Join(cwd, name),
			Destination: path.Join(dir, name),
		})
	}
	if len(reqs) == 0 {
		return true
	}
	debug.Log(debug.UI, "drop %d items on %s (%q)", len(reqs), target, dir)

	c.spawn(func() {
		if err := c.mover.MoveAll(c.ctx, reqs); err != nil {
			c.reporter.Report(MoveErrorContext, err)
		}
	})
	return true
}

// validName reports whether name is a single path element.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\x00")
}

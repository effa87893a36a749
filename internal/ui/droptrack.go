package ui

import (
	"image"

	"github.com/justyntemme/crumbbar/internal/crumbs"
	"github.com/justyntemme/crumbbar/internal/debug"
)

// segmentRect is the area a segment occupied in the last frame, in bar
// coordinates.
type segmentRect struct {
	role crumbs.Role
	rect image.Rectangle
}

// hitSegment returns the segment under pt.
func hitSegment(rects []segmentRect, pt image.Point) (crumbs.Role, bool) {
	for _, s := range rects {
		if pt.In(s.rect) {
			return s.role, true
		}
	}
	return crumbs.NoRole, false
}

// dropTracker turns the per-frame drag position into enter, over and leave
// calls on the bar's handlers. Gio reports transfers only at their start and
// end; hover in between is derived from geometry.
type dropTracker struct {
	h crumbs.Handlers

	active bool // a transfer of our MIME type is under way
	inside bool // the pointer is over the bar
	role   crumbs.Role
	onSeg  bool
}

func newDropTracker(h crumbs.Handlers) *dropTracker {
	return &dropTracker{h: h, role: crumbs.NoRole}
}

func (t *dropTracker) event(data crumbs.MimeData, role crumbs.Role, onSeg bool) *crumbs.DragEvent {
	return &crumbs.DragEvent{Data: data, Target: role, OnSegment: onSeg, Proposed: crumbs.ActionMove}
}

// Begin marks the start of a transfer.
func (t *dropTracker) Begin() {
	t.active = true
}

// Move reports the pointer position. inBar says whether it is over the bar;
// role and onSeg describe the segment under it.
func (t *dropTracker) Move(data crumbs.MimeData, inBar bool, role crumbs.Role, onSeg bool) {
	if !t.active {
		return
	}
	switch {
	case inBar && !t.inside:
		t.inside = true
		t.role, t.onSeg = role, onSeg
		debug.Log(debug.UI_EVENT, "drag enter %s", role)
		t.h.DragEnter(t.event(data, role, onSeg))
	case inBar && (role != t.role || onSeg != t.onSeg):
		t.role, t.onSeg = role, onSeg
		t.h.DragOver(t.event(data, role, onSeg))
	case !inBar && t.inside:
		t.leave(data)
	}
}

func (t *dropTracker) leave(data crumbs.MimeData) {
	t.inside = false
	t.role, t.onSeg = crumbs.NoRole, false
	debug.Log(debug.UI_EVENT, "drag leave")
	t.h.DragLeave(t.event(data, crumbs.NoRole, false))
}

// Drop delivers the dropped payload on role and ends the transfer.
func (t *dropTracker) Drop(data crumbs.MimeData, role crumbs.Role) {
	t.h.Drop(t.event(data, role, true))
	t.reset()
}

// End finishes a transfer that did not drop on the bar.
func (t *dropTracker) End() {
	if t.inside {
		t.leave(crumbs.MimeData{crumbs.ContentsMIME: nil})
	}
	t.reset()
}

func (t *dropTracker) reset() {
	t.active = false
	t.inside = false
	t.role, t.onSeg = crumbs.NoRole, false
}

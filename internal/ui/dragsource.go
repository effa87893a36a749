package ui

import (
	"io"
	"strings"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/io/transfer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
)

// pressState tracks one pointer from press to release.
type pressState struct {
	id     pointer.ID
	at     f32.Point // press position, widget coordinates
	offset f32.Point // pointer minus at
	moved  bool      // passed the drag threshold
}

// DragSource is a row that can be clicked or dragged. A drag only starts
// once gesture.Drag's slop is exceeded, so a press that stays put remains a
// click. While dragged the row is a transfer source for Type.
type DragSource struct {
	Type string

	click gesture.Click
	drag  gesture.Drag
	press pressState
}

// Active reports whether the row is being dragged.
func (d *DragSource) Active() bool { return d.press.moved && d.drag.Pressed() }

// Hovered reports whether the pointer is over the row.
func (d *DragSource) Hovered() bool { return d.click.Hovered() }

// Start is where the drag began, in row coordinates.
func (d *DragSource) Start() f32.Point { return d.press.at }

// Pos is the pointer position relative to Start.
func (d *DragSource) Pos() f32.Point { return d.press.offset }

// Serve answers a drop target's data request with the payload built by
// encode. It reports whether a request was served.
func (d *DragSource) Serve(gtx layout.Context, encode func() string) bool {
	served := false
	for {
		ev, ok := gtx.Event(transfer.SourceFilter{Target: d, Type: d.Type})
		if !ok {
			return served
		}
		req, ok := ev.(transfer.RequestEvent)
		if !ok {
			continue
		}
		gtx.Execute(transfer.OfferCmd{
			Tag:  d,
			Type: req.Type,
			Data: io.NopCloser(strings.NewReader(encode())),
		})
		served = true
	}
}

func (d *DragSource) clicked(gtx layout.Context) bool {
	clicked := false
	for {
		e, ok := d.click.Update(gtx.Source)
		if !ok {
			return clicked
		}
		switch e.Kind {
		case gesture.KindClick:
			clicked = clicked || !d.press.moved
		case gesture.KindCancel:
			d.press.moved = false
		}
	}
}

func (d *DragSource) track(gtx layout.Context) {
	for {
		e, ok := d.drag.Update(gtx.Metric, gtx.Source, gesture.Both)
		if !ok {
			return
		}
		switch e.Kind {
		case pointer.Press:
			d.press = pressState{id: e.PointerID, at: e.Position}
		case pointer.Drag:
			if e.PointerID == d.press.id {
				d.press.moved = true
				d.press.offset = e.Position.Sub(d.press.at)
			}
		case pointer.Release, pointer.Cancel:
			d.press.moved = false
		}
	}
}

// Layout draws w, registers the row for input and, while dragging, draws
// ghost under the pointer on top of everything else. It reports a click
// that did not turn into a drag.
func (d *DragSource) Layout(gtx layout.Context, w, ghost layout.Widget) (layout.Dimensions, bool) {
	if !gtx.Enabled() {
		return w(gtx), false
	}
	// Input from the previous frame's hit area comes first.
	clicked := d.clicked(gtx)
	d.track(gtx)

	dims := w(gtx)

	area := clip.Rect{Max: dims.Size}.Push(gtx.Ops)
	d.click.Add(gtx.Ops)
	d.drag.Add(gtx.Ops)
	event.Op(gtx.Ops, d)
	area.Pop()

	if ghost != nil && d.Active() {
		macro := op.Record(gtx.Ops)
		op.Offset(d.press.offset.Round()).Add(gtx.Ops)
		ghost(gtx)
		op.Defer(gtx.Ops, macro.Stop())
	}
	return dims, clicked
}

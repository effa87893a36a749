package ui

import (
	"image"
	"image/color"
	"io"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/io/transfer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/justyntemme/crumbbar/internal/crumbs"
	"github.com/justyntemme/crumbbar/internal/debug"
)

// segmentWidgets holds the per-segment widget state. Like the segments
// themselves, these are created once and reused across renders.
type segmentWidgets struct {
	menuTag [len(crumbs.Roles)]int // secondary and tertiary presses
	dropTag [len(crumbs.Roles)]int // transfer target
}

type placedNode struct {
	node crumbs.Node
	call op.CallOp
	dims layout.Dimensions
}

// processDrops reads transfer events for all segments. Data is applied
// before cancellation because Gio cancels every target once a drop is done.
func (r *Renderer) processDrops(gtx layout.Context) {
	var (
		dropped   crumbs.MimeData
		dropRole  = crumbs.NoRole
		cancelled bool
	)
	for _, role := range crumbs.Roles {
		for {
			ev, ok := gtx.Event(transfer.TargetFilter{Target: &r.seg.dropTag[role], Type: crumbs.ContentsMIME})
			if !ok {
				break
			}
			switch e := ev.(type) {
			case transfer.InitiateEvent:
				r.tracker.Begin()
			case transfer.DataEvent:
				rc := e.Open()
				data, err := io.ReadAll(rc)
				rc.Close()
				if err != nil {
					debug.Log(debug.UI, "drop on %s: read payload: %v", role, err)
					continue
				}
				dropped = crumbs.MimeData{e.Type: crumbs.DecodePayload(string(data))}
				dropRole = role
			case transfer.CancelEvent:
				cancelled = true
			}
		}
	}

	if dropped != nil {
		r.tracker.Drop(dropped, dropRole)
	}
	if cancelled {
		r.tracker.End()
	}
}

// processClicks forwards segment clicks to the controller.
func (r *Renderer) processClicks(gtx layout.Context) {
	h := r.crumbs.Handlers()
	for _, role := range crumbs.Roles {
		if r.segBtns[role].Clicked(gtx) {
			h.Click(crumbs.ClickEvent{Button: crumbs.ButtonPrimary, Target: role, OnSegment: true})
		}
		for {
			ev, ok := gtx.Event(pointer.Filter{Target: &r.seg.menuTag[role], Kinds: pointer.Press})
			if !ok {
				break
			}
			e, ok := ev.(pointer.Event)
			if !ok {
				continue
			}
			switch {
			case e.Buttons.Contain(pointer.ButtonSecondary):
				h.Click(crumbs.ClickEvent{Button: crumbs.ButtonSecondary, Target: role, OnSegment: true})
			case e.Buttons.Contain(pointer.ButtonTertiary):
				h.Click(crumbs.ClickEvent{Button: crumbs.ButtonTertiary, Target: role, OnSegment: true})
			}
		}
	}
}

// layoutBreadcrumb renders the attached nodes left to right and records the
// segment rectangles for drag hit-testing.
func (r *Renderer) layoutBreadcrumb(gtx layout.Context) layout.Dimensions {
	r.processDrops(gtx)
	r.processClicks(gtx)

	bar := r.crumbs.Bar()
	nodes := bar.Nodes()

	gtx.Constraints.Min = image.Point{}
	placed := make([]placedNode, 0, len(nodes))
	height := 0
	for _, n := range nodes {
		macro := op.Record(gtx.Ops)
		var dims layout.Dimensions
		if n.Kind == crumbs.NodeSeparator {
			dims = r.layoutSeparator(gtx)
		} else {
			dims = r.layoutSegment(gtx, bar.Segment(n.Role))
		}
		placed = append(placed, placedNode{node: n, call: macro.Stop(), dims: dims})
		height = max(height, dims.Size.Y)
	}

	r.segRects = r.segRects[:0]
	x := 0
	for _, p := range placed {
		off := image.Pt(x, (height-p.dims.Size.Y)/2)
		stack := op.Offset(off).Push(gtx.Ops)
		p.call.Add(gtx.Ops)

		if p.node.Kind == crumbs.NodeSegment {
			role := p.node.Role
			rect := image.Rectangle{Min: off, Max: off.Add(p.dims.Size)}
			r.segRects = append(r.segRects, segmentRect{role: role, rect: rect})

			// PassOp keeps the Clickable underneath reachable.
			pass := pointer.PassOp{}.Push(gtx.Ops)
			area := clip.Rect{Max: p.dims.Size}.Push(gtx.Ops)
			event.Op(gtx.Ops, &r.seg.dropTag[role])
			event.Op(gtx.Ops, &r.seg.menuTag[role])
			area.Pop()
			pass.Pop()
		}
		stack.Pop()
		x += p.dims.Size.X
	}

	return layout.Dimensions{Size: image.Pt(x, height)}
}

func (r *Renderer) layoutSeparator(gtx layout.Context) layout.Dimensions {
	lbl := material.Body2(r.Theme, " "+r.separator+" ")
	lbl.Color = colGray
	lbl.MaxLines = 1
	return lbl.Layout(gtx)
}

func (r *Renderer) layoutSegment(gtx layout.Context, seg crumbs.Segment) layout.Dimensions {
	highlighted := r.crumbs.IsHighlighted(seg.Role)
	isCurrent := seg.Role == crumbs.Current

	return material.Clickable(gtx, &r.segBtns[seg.Role], func(gtx layout.Context) layout.Dimensions {
		macro := op.Record(gtx.Ops)
		dims := layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(6), Right: unit.Dp(6)}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				children := make([]layout.FlexChild, 0, 3)
				if seg.Role == crumbs.Home {
					children = append(children,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							size := gtx.Dp(18)
							drawHomeIcon(gtx.Ops, size, colAccent)
							return layout.Dimensions{Size: image.Pt(size, size)}
						}),
						layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
					)
				}
				children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					lbl := material.Body2(r.Theme, seg.Label)
					lbl.MaxLines = 1
					if isCurrent {
						lbl.Font.Weight = font.Bold
						lbl.Color = colText
					} else {
						lbl.Color = colAccent
					}
					return lbl.Layout(gtx)
				}))
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
			})
		call := macro.Stop()

		var bg color.NRGBA
		switch {
		case highlighted:
			bg = colDropTarget
		case r.segBtns[seg.Role].Hovered():
			bg = colHover
		}
		if bg.A > 0 {
			paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(4)).Op(gtx.Ops))
		}
		call.Add(gtx.Ops)
		return dims
	})
}

// hoveredTooltip returns the tooltip of the segment under the mouse.
func (r *Renderer) hoveredTooltip() string {
	bar := r.crumbs.Bar()
	for _, s := range r.segRects {
		if r.segBtns[s.role].Hovered() {
			return bar.Segment(s.role).Tooltip
		}
	}
	return ""
}

// drawHomeIcon draws a house: a triangular roof over a square base.
func drawHomeIcon(ops *op.Ops, size int, c color.NRGBA) {
	s := float32(size)

	var path clip.Path
	path.Begin(ops)
	path.MoveTo(f32.Pt(s*0.5, s*0.18))
	path.LineTo(f32.Pt(s*0.15, s*0.48))
	path.LineTo(f32.Pt(s*0.85, s*0.48))
	path.Close()
	paint.FillShape(ops, c, clip.Outline{Path: path.End()}.Op())

	path.Begin(ops)
	path.MoveTo(f32.Pt(s*0.25, s*0.48))
	path.LineTo(f32.Pt(s*0.25, s*0.82))
	path.LineTo(f32.Pt(s*0.75, s*0.82))
	path.LineTo(f32.Pt(s*0.75, s*0.48))
	path.Close()
	paint.FillShape(ops, c, clip.Outline{Path: path.End()}.Op())
}

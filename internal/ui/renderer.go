// Package ui draws the breadcrumb bar with Gio and connects it to the
// platform: pointer clicks, drag-and-drop transfers, modal dialogs and error
// toasts. The bar's behavior lives in internal/crumbs; this package only
// translates events and paints state.
package ui

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/crumbbar/internal/crumbs"
)

const tooltipHeight = unit.Dp(18)

// Options configures a Renderer.
type Options struct {
	Dark       bool
	Separator  string
	ShowFiles  bool
	Invalidate func() // safe to call from any goroutine
}

// Renderer owns all widget state of the window.
type Renderer struct {
	Theme *material.Theme

	crumbs  *crumbs.Breadcrumbs
	dialogs *DialogService
	files   *FilePanel
	tracker *dropTracker
	open    func(name string)

	separator  string
	showFiles  bool
	invalidate func()

	segBtns   [len(crumbs.Roles)]widget.Clickable
	seg       segmentWidgets
	segRects  []segmentRect
	barOrigin image.Point
	barRect   image.Rectangle

	dlgAffirm   widget.Clickable
	dlgCancel   widget.Clickable
	dlgBackdrop widget.Clickable
	dlgCard     int

	toasts toaster
}

// NewRenderer creates a renderer. Bind must be called before the first frame.
func NewRenderer(opts Options) *Renderer {
	if opts.Dark {
		applyDarkMode()
	}
	sep := opts.Separator
	if sep == "" {
		sep = "›"
	}
	th := material.NewTheme()
	th.Palette.Fg = colText
	th.Palette.Bg = colBackground
	th.Palette.ContrastBg = colAccent

	r := &Renderer{
		Theme:      th,
		files:      NewFilePanel(),
		separator:  sep,
		showFiles:  opts.ShowFiles,
		invalidate: opts.Invalidate,
	}
	r.dialogs = NewDialogService(r.requestFrame)
	return r
}

func (r *Renderer) requestFrame() {
	if r.invalidate != nil {
		r.invalidate()
	}
}

// Dialogs returns the dialog service drawn by this renderer.
func (r *Renderer) Dialogs() *DialogService { return r.dialogs }

// Files returns the drag source panel.
func (r *Renderer) Files() *FilePanel { return r.files }

// Bind attaches the breadcrumbs to draw. open is called with the name of a
// directory clicked in the file panel.
func (r *Renderer) Bind(b *crumbs.Breadcrumbs, open func(name string)) {
	r.crumbs = b
	r.tracker = newDropTracker(b.Handlers())
	r.open = open
}

// Layout draws one frame.
func (r *Renderer) Layout(gtx layout.Context) layout.Dimensions {
	r.crumbs.Sync()

	size := gtx.Constraints.Max
	paint.Fill(gtx.Ops, colBackground)
	pad := gtx.Dp(8)

	// Breadcrumb bar
	r.barOrigin = image.Pt(pad, pad)
	stack := op.Offset(r.barOrigin).Push(gtx.Ops)
	bgtx := gtx
	bgtx.Constraints = layout.Constraints{Max: image.Pt(size.X-2*pad, size.Y)}
	barDims := r.layoutBreadcrumb(bgtx)
	stack.Pop()
	y := r.barOrigin.Y + barDims.Size.Y
	r.barRect = image.Rect(0, 0, size.X, y+pad/2)

	// Tooltip of the hovered segment
	stack = op.Offset(image.Pt(pad+gtx.Dp(6), y)).Push(gtx.Ops)
	if tip := r.hoveredTooltip(); tip != "" {
		lbl := material.Caption(r.Theme, tip)
		lbl.Color = colGray
		lbl.MaxLines = 1
		lbl.Layout(bgtx)
	}
	stack.Pop()
	y += gtx.Dp(tooltipHeight) + pad/2

	paint.FillShape(gtx.Ops, colBarBorder, clip.Rect{Min: image.Pt(0, y), Max: image.Pt(size.X, y+1)}.Op())
	y++

	if r.showFiles {
		origin := image.Pt(0, y)
		stack = op.Offset(origin).Push(gtx.Ops)
		fgtx := gtx
		fgtx.Constraints = layout.Exact(image.Pt(size.X, max(size.Y-y, 0)))
		r.layoutFiles(fgtx, origin, r.open)
		stack.Pop()
		r.trackDrag(gtx)
	}

	r.layoutDialog(gtx)
	r.layoutToasts(gtx)
	return layout.Dimensions{Size: size}
}

// trackDrag feeds the pointer position of an in-progress drag to the drop
// tracker.
func (r *Renderer) trackDrag(gtx layout.Context) {
	pos, names, ok := r.files.DragCursor()
	if !ok {
		return
	}
	r.tracker.Begin()
	data := crumbs.MimeData{crumbs.ContentsMIME: names}
	role, onSeg := hitSegment(r.segRects, pos.Sub(r.barOrigin))
	r.tracker.Move(data, pos.In(r.barRect), role, onSeg)
	// Keep tracking while the pointer is grabbed.
	gtx.Execute(op.InvalidateCmd{})
}

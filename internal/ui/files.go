package ui

import (
	"image"
	"sync"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/dustin/go-humanize"

	"github.com/justyntemme/crumbbar/internal/crumbs"
	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/fs"
	"github.com/justyntemme/crumbbar/internal/model"
)

const rowHeight = unit.Dp(28)

// fileRow is one draggable entry of the file panel.
type fileRow struct {
	info model.Info
	name string
	drag DragSource
}

// FilePanel lists the current directory and lets its items be dragged onto
// the breadcrumb bar. Entries are replaced from any goroutine; everything
// else runs on the UI goroutine.
type FilePanel struct {
	mu      sync.Mutex
	pending []model.Info
	fresh   bool

	list layout.List
	rows []*fileRow

	// Window-space press point of the row being dragged.
	dragRow  *fileRow
	pressWin f32.Point
}

// NewFilePanel returns an empty panel.
func NewFilePanel() *FilePanel {
	return &FilePanel{list: layout.List{Axis: layout.Vertical}}
}

// SetEntries replaces the listed items.
func (p *FilePanel) SetEntries(entries []model.Info) {
	p.mu.Lock()
	p.pending = entries
	p.fresh = true
	p.mu.Unlock()
}

// sync swaps in pending entries, keeping the drag state of rows that
// survive by name.
func (p *FilePanel) sync() {
	p.mu.Lock()
	entries, fresh := p.pending, p.fresh
	p.fresh = false
	p.mu.Unlock()
	if !fresh {
		return
	}

	old := make(map[string]*fileRow, len(p.rows))
	for _, row := range p.rows {
		old[row.name] = row
	}
	rows := make([]*fileRow, 0, len(entries))
	for _, e := range entries {
		name := fs.Name(e)
		row, ok := old[name]
		if !ok {
			row = &fileRow{name: name}
			row.drag.Type = crumbs.ContentsMIME
		}
		row.info = e
		rows = append(rows, row)
	}
	p.rows = rows
	if p.dragRow != nil && old[p.dragRow.name] == nil {
		p.dragRow = nil
	}
}

// DragCursor returns the window-space pointer position while a row is being
// dragged, with the names it carries.
func (p *FilePanel) DragCursor() (pos image.Point, names []string, ok bool) {
	if p.dragRow == nil || !p.dragRow.drag.Active() {
		return image.Point{}, nil, false
	}
	return p.pressWin.Add(p.dragRow.drag.Pos()).Round(), []string{p.dragRow.name}, true
}

// layoutFiles draws the panel at origin (window coordinates). open is called
// for clicks on directories.
func (r *Renderer) layoutFiles(gtx layout.Context, origin image.Point, open func(name string)) layout.Dimensions {
	p := r.files
	p.sync()
	if p.dragRow != nil && !p.dragRow.drag.Active() {
		p.dragRow = nil
	}

	rowH := gtx.Dp(rowHeight)
	if len(p.rows) == 0 {
		lbl := material.Body2(r.Theme, "Empty folder")
		lbl.Color = colGray
		return layout.UniformInset(unit.Dp(12)).Layout(gtx, lbl.Layout)
	}

	return p.list.Layout(gtx, len(p.rows), func(gtx layout.Context, i int) layout.Dimensions {
		row := p.rows[i]
		gtx.Constraints.Min.Y = rowH
		gtx.Constraints.Max.Y = rowH
		gtx.Constraints.Min.X = gtx.Constraints.Max.X

		if row.drag.Serve(gtx, func() string { return crumbs.EncodePayload([]string{row.name}) }) {
			debug.Log(debug.UI, "offered %q", row.name)
		}

		dims, clicked := row.drag.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions { return r.layoutFileRow(gtx, row) },
			func(gtx layout.Context) layout.Dimensions {
				size := image.Pt(gtx.Dp(220), rowH)
				paint.FillShape(gtx.Ops, colDragShadow, clip.UniformRRect(image.Rectangle{Max: size}, gtx.Dp(4)).Op(gtx.Ops))
				return layout.Inset{Top: unit.Dp(6), Left: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					lbl := material.Body2(r.Theme, row.name)
					lbl.Color = colText
					lbl.MaxLines = 1
					return lbl.Layout(gtx)
				})
			})

		if row.drag.Active() && p.dragRow != row {
			// Rows are fixed height, so the row's top follows from the
			// list position.
			top := (i-p.list.Position.First)*rowH - p.list.Position.Offset
			p.dragRow = row
			p.pressWin = f32.Pt(float32(origin.X), float32(origin.Y+top)).Add(row.drag.Start())
		}
		if clicked && row.info.IsDir && open != nil {
			open(row.name)
		}
		return dims
	})
}

func (r *Renderer) layoutFileRow(gtx layout.Context, row *fileRow) layout.Dimensions {
	if row.drag.Hovered() {
		paint.FillShape(gtx.Ops, colHover, clip.Rect{Max: gtx.Constraints.Min}.Op())
	}
	return layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				name := row.name
				col := colText
				if row.info.IsDir {
					name += "/"
					col = colDirIcon
				}
				lbl := material.Body2(r.Theme, name)
				lbl.Color = col
				lbl.MaxLines = 1
				return lbl.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if row.info.IsDir {
					return layout.Dimensions{}
				}
				lbl := material.Caption(r.Theme, humanize.IBytes(uint64(row.info.Size)))
				lbl.Color = colGray
				return lbl.Layout(gtx)
			}),
		)
	})
}

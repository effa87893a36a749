package ui

import (
	"context"
	"image"
	"sync"

	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/model"
)

const defaultCancelLabel = "CANCEL"

type dialogRequest struct {
	cfg   model.DialogConfig
	reply chan model.Choice
}

// DialogService queues modal dialogs requested from any goroutine. The UI
// goroutine shows the head of the queue and answers it; Show blocks until
// then or until its context ends.
type DialogService struct {
	mu         sync.Mutex
	queue      []*dialogRequest
	invalidate func()
}

var _ model.Dialogs = (*DialogService)(nil)

// NewDialogService returns an empty queue. invalidate is called whenever the
// head of the queue changes.
func NewDialogService(invalidate func()) *DialogService {
	if invalidate == nil {
		invalidate = func() {}
	}
	return &DialogService{invalidate: invalidate}
}

// Show queues cfg and waits for the answer. If ctx ends first the dialog is
// withdrawn and the choice is Dismissed.
func (s *DialogService) Show(ctx context.Context, cfg model.DialogConfig) (model.Choice, error) {
	if cfg.Cancel == "" {
		cfg.Cancel = defaultCancelLabel
	}
	req := &dialogRequest{cfg: cfg, reply: make(chan model.Choice, 1)}

	s.mu.Lock()
	s.queue = append(s.queue, req)
	s.mu.Unlock()
	debug.Log(debug.UI, "dialog queued: %q", cfg.Title)
	s.invalidate()

	select {
	case c := <-req.reply:
		return c, nil
	case <-ctx.Done():
		s.withdraw(req)
		return model.Choice{Dismissed: true}, ctx.Err()
	}
}

func (s *DialogService) withdraw(req *dialogRequest) {
	s.mu.Lock()
	for i, r := range s.queue {
		if r == req {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.invalidate()
}

// Current returns the dialog to display, if any.
func (s *DialogService) Current() (model.DialogConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return model.DialogConfig{}, false
	}
	return s.queue[0].cfg, true
}

// Pending returns the number of queued dialogs.
func (s *DialogService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Answer resolves the displayed dialog with c.
func (s *DialogService) Answer(c model.Choice) {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	req := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()

	debug.Log(debug.UI, "dialog %q answered: label=%q dismissed=%v", req.cfg.Title, c.Label, c.Dismissed)
	req.reply <- c
	s.invalidate()
}

// layoutDialog draws the head of the dialog queue over the window.
func (r *Renderer) layoutDialog(gtx layout.Context) layout.Dimensions {
	cfg, ok := r.dialogs.Current()
	if !ok {
		return layout.Dimensions{}
	}

	switch {
	case r.dlgAffirm.Clicked(gtx):
		r.dialogs.Answer(model.Choice{Label: cfg.Affirmative})
		return layout.Dimensions{}
	case r.dlgCancel.Clicked(gtx):
		r.dialogs.Answer(model.Choice{Label: cfg.Cancel})
		return layout.Dimensions{}
	case r.dlgBackdrop.Clicked(gtx):
		r.dialogs.Answer(model.Choice{Dismissed: true})
		return layout.Dimensions{}
	}

	return r.modalBackdrop(gtx, 420, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			children := []layout.FlexChild{
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					h6 := material.H6(r.Theme, cfg.Title)
					h6.Color = colText
					return h6.Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					lbl := material.Body1(r.Theme, cfg.Body)
					lbl.Color = colText
					return lbl.Layout(gtx)
				}),
			}
			if cfg.Detail != "" {
				children = append(children,
					layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						lbl := material.Body2(r.Theme, cfg.Detail)
						lbl.Color = colGray
						return lbl.Layout(gtx)
					}),
				)
			}
			children = append(children,
				layout.Rigid(layout.Spacer{Height: unit.Dp(20)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceStart}.Layout(gtx,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							btn := material.Button(r.Theme, &r.dlgCancel, cfg.Cancel)
							btn.Background = colBarBorder
							btn.Color = colText
							return btn.Layout(gtx)
						}),
						layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							btn := material.Button(r.Theme, &r.dlgAffirm, cfg.Affirmative)
							btn.Background = colDangerBtn
							btn.Color = colDangerBtnText
							return btn.Layout(gtx)
						}),
					)
				}),
			)
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
		})
	})
}

// modalBackdrop dims the window and centers a card of the given width.
// Clicking the backdrop outside the card dismisses the dialog.
func (r *Renderer) modalBackdrop(gtx layout.Context, width unit.Dp, content layout.Widget) layout.Dimensions {
	size := gtx.Constraints.Max

	r.dlgBackdrop.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		paint.FillShape(gtx.Ops, colBackdrop, clip.Rect{Max: size}.Op())
		return layout.Dimensions{Size: size}
	})

	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X = gtx.Dp(width)
		gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(width))
		gtx.Constraints.Min.Y = 0

		macro := op.Record(gtx.Ops)
		dims := content(gtx)
		call := macro.Stop()

		radius := gtx.Dp(8)
		shadow := image.Rectangle{Min: image.Pt(-2, 2), Max: dims.Size.Add(image.Pt(2, 6))}
		paint.FillShape(gtx.Ops, colShadow, clip.UniformRRect(shadow, radius).Op(gtx.Ops))
		card := clip.UniformRRect(image.Rectangle{Max: dims.Size}, radius).Push(gtx.Ops)
		paint.Fill(gtx.Ops, colDialogBg)
		// The card swallows presses so they don't reach the backdrop.
		event.Op(gtx.Ops, &r.dlgCard)
		card.Pop()
		call.Add(gtx.Ops)
		return dims
	})
}

package ui

import (
	"image"
	"image/color"
	"sync"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/justyntemme/crumbbar/internal/debug"
)

// ToastType is the severity of a toast.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastError
)

const (
	toastLifetime = 5 * time.Second
	maxToasts     = 3
)

type notice struct {
	message string
	kind    ToastType
	expires time.Time
}

// toaster keeps the newest few notices until they expire. Notices are pushed
// from any goroutine.
type toaster struct {
	mu      sync.Mutex
	notices []notice
	now     func() time.Time
}

func (t *toaster) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *toaster) push(message string, kind ToastType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notices = append(t.notices, notice{message: message, kind: kind, expires: t.clock().Add(toastLifetime)})
	if n := len(t.notices); n > maxToasts {
		t.notices = append(t.notices[:0], t.notices[n-maxToasts:]...)
	}
}

// live drops expired notices and returns the rest, oldest first.
func (t *toaster) live() []notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	kept := t.notices[:0]
	for _, n := range t.notices {
		if now.Before(n.expires) {
			kept = append(kept, n)
		}
	}
	t.notices = kept
	return append([]notice(nil), kept...)
}

// ShowToast displays message for a few seconds. Safe to call from any
// goroutine.
func (r *Renderer) ShowToast(message string, kind ToastType) {
	r.toasts.push(message, kind)
	r.requestFrame()
}

// ShowError shows an error toast.
func (r *Renderer) ShowError(message string) {
	r.ShowToast(message, ToastError)
}

// Report implements model.Reporter: the error is logged and shown as an
// error toast titled with context. Safe to call from any goroutine.
func (r *Renderer) Report(context string, err error) {
	debug.Logger().Error().Str("context", context).Err(err).Msg("operation failed")
	r.ShowError(context + ": " + err.Error())
}

func toastColors(kind ToastType) (bg, fg color.NRGBA) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	switch kind {
	case ToastError:
		return color.NRGBA{R: 200, G: 50, B: 50, A: 240}, white
	case ToastWarning:
		return color.NRGBA{R: 220, G: 160, B: 40, A: 240}, color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	}
	return color.NRGBA{R: 60, G: 60, B: 60, A: 240}, white
}

// layoutToasts stacks the live notices at the bottom center, newest lowest,
// and schedules a frame for the next expiry.
func (r *Renderer) layoutToasts(gtx layout.Context) layout.Dimensions {
	notices := r.toasts.live()
	if len(notices) == 0 {
		return layout.Dimensions{}
	}
	next := notices[0].expires
	for _, n := range notices[1:] {
		if n.expires.Before(next) {
			next = n.expires
		}
	}
	gtx.Execute(op.InvalidateCmd{At: next})

	children := make([]layout.FlexChild, 0, 2*len(notices))
	for i, n := range notices {
		n := n
		if i > 0 {
			children = append(children, layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout))
		}
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.layoutNotice(gtx, n)
		}))
	}

	return layout.S.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(560))
			gtx.Constraints.Min = image.Point{}
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx, children...)
		})
	})
}

func (r *Renderer) layoutNotice(gtx layout.Context, n notice) layout.Dimensions {
	bg, fg := toastColors(n.kind)

	macro := op.Record(gtx.Ops)
	dims := layout.Inset{Top: unit.Dp(10), Bottom: unit.Dp(10), Left: unit.Dp(16), Right: unit.Dp(16)}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			lbl := material.Body1(r.Theme, n.message)
			lbl.Color = fg
			lbl.MaxLines = 4
			return lbl.Layout(gtx)
		})
	call := macro.Stop()

	paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(8)).Op(gtx.Ops))
	call.Add(gtx.Ops)
	return dims
}

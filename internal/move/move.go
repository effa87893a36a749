// Package move runs the rename requests produced by a breadcrumb drop.
//
// Each request is an explicit two-step operation: attempt the rename, and on
// a conflict ask the user whether to overwrite. Overwrite deletes the
// existing item and retries exactly once. Requests of one batch run
// concurrently and their failures are joined into a single *MoveError.
package move

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/justyntemme/crumbbar/internal/debug"
	"github.com/justyntemme/crumbbar/internal/model"
)

// Outcome is the result of a single rename attempt.
type Outcome int

const (
	Success Outcome = iota
	Conflict
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Conflict:
		return "conflict"
	default:
		return "failure"
	}
}

// Decision is the user's answer to a conflict prompt.
type Decision int

const (
	Skip Decision = iota
	Overwrite
)

func (d Decision) String() string {
	if d == Overwrite {
		return "overwrite"
	}
	return "skip"
}

// Dialog texts for the overwrite prompt.
const (
	OverwriteTitle  = "Overwrite file?"
	OverwriteButton = "OVERWRITE"
	CancelButton    = "CANCEL"
)

// Request moves the item at Source to Destination. Both are full model
// paths fixed when the drop happens; Item is the name shown to the user.
type Request struct {
	Item        string
	Source      string
	Destination string
}

// FileSystem is the part of the model the move flow needs.
type FileSystem interface {
	Rename(ctx context.Context, source, destination string) error
	Delete(ctx context.Context, path string) error
}

// Mover executes requests against a file system, asking dlg about conflicts.
type Mover struct {
	fs  FileSystem
	dlg model.Dialogs
	now func() time.Time
}

// New returns a Mover.
func New(fs FileSystem, dlg model.Dialogs) *Mover {
	return &Mover{fs: fs, dlg: dlg, now: time.Now}
}

// attempt issues one rename and classifies the result.
func (m *Mover) attempt(ctx context.Context, req Request) (Outcome, error) {
	err := m.fs.Rename(ctx, req.Source, req.Destination)
	switch {
	case err == nil:
		return Success, nil
	case model.IsConflict(err):
		return Conflict, err
	default:
		return Failure, err
	}
}

// OverwritePrompt builds the dialog shown when destination already exists.
func (m *Mover) OverwritePrompt(destination string) model.DialogConfig {
	cfg := model.DialogConfig{
		Title:       OverwriteTitle,
		Body:        fmt.Sprintf("%q already exists, overwrite?", destination),
		Affirmative: OverwriteButton,
		Cancel:      CancelButton,
	}
	if st, ok := m.fs.(model.Stater); ok {
		if info, err := st.Stat(destination); err == nil {
			cfg.Detail = describe(info, m.now())
		}
	}
	return cfg
}

func describe(info model.Info, now time.Time) string {
	kind := "File"
	if info.IsDir {
		kind = "Folder"
	}
	return fmt.Sprintf("%s • %s • modified %s", kind,
		humanize.IBytes(uint64(max(info.Size, 0))),
		humanize.RelTime(info.ModTime, now, "ago", "from now"))
}

// resolveConflict asks the user what to do about an existing destination.
// A dialog error counts as Skip; there is nothing left to recover.
func (m *Mover) resolveConflict(ctx context.Context, req Request) Decision {
	cfg := m.OverwritePrompt(req.Destination)
	choice, err := m.dlg.Show(ctx, cfg)
	if err != nil {
		debug.Log(debug.MOVE, "overwrite prompt for %s failed: %v", req.Destination, err)
		return Skip
	}
	if choice.Affirmed(cfg) {
		return Overwrite
	}
	return Skip
}

// Move runs the full flow for one request. It returns nil on success and
// when the user declined to overwrite. A destination that contains the
// source fails before anything is touched.
func (m *Mover) Move(ctx context.Context, req Request) error {
	if req.Source == req.Destination {
		return nil
	}
	if model.Contains(req.Destination, req.Source) {
		debug.Log(debug.MOVE, "rename %s -> %s: destination contains source", req.Source, req.Destination)
		return &model.RenameError{Source: req.Source, Destination: req.Destination, Err: model.ErrContainsSource}
	}

	outcome, err := m.attempt(ctx, req)
	debug.Log(debug.MOVE, "rename %s -> %s: %s", req.Source, req.Destination, outcome)
	switch outcome {
	case Success:
		return nil
	case Failure:
		return err
	}

	decision := m.resolveConflict(ctx, req)
	debug.Log(debug.MOVE, "conflict on %s: %s", req.Destination, decision)
	if decision == Skip {
		return nil
	}

	// The dialog may have been open for a while; the source can be gone.
	if err := m.checkSource(req); err != nil {
		return fmt.Errorf("overwrite %s: %w", req.Destination, err)
	}
	if err := m.fs.Delete(ctx, req.Destination); err != nil {
		return fmt.Errorf("overwrite %s: %w", req.Destination, err)
	}
	return m.fs.Rename(ctx, req.Source, req.Destination)
}

// Exister is implemented by models that can cheaply tell whether a path
// exists.
type Exister interface {
	Exists(path string) (bool, error)
}

// checkSource verifies the item still exists when the model can tell.
func (m *Mover) checkSource(req Request) error {
	ex, ok := m.fs.(Exister)
	if !ok {
		return nil
	}
	found, err := ex.Exists(req.Source)
	if err == nil && !found {
		err = iofs.ErrNotExist
	}
	if err != nil {
		return &model.RenameError{Source: req.Source, Destination: req.Destination, Err: err}
	}
	return nil
}

// ItemError is the failure of one request in a batch.
type ItemError struct {
	Request
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Item, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// MoveError aggregates the failed requests of one batch.
type MoveError struct {
	Batch  string
	Total  int
	Failed []*ItemError
}

func (e *MoveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to move %d of %d items", len(e.Failed), e.Total)
	for i, f := range e.Failed {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f.Error())
	}
	return b.String()
}

func (e *MoveError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}

// MoveAll starts every request in order, waits for all of them, and returns
// a *MoveError if any failed. Successful requests are never rolled back.
func (m *Mover) MoveAll(ctx context.Context, reqs []Request) error {
	batch := uuid.NewString()
	debug.Log(debug.MOVE, "batch %s: %d items", batch, len(reqs))

	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = m.Move(ctx, req)
		}()
	}
	wg.Wait()

	var failed []*ItemError
	for i, err := range errs {
		if err != nil {
			failed = append(failed, &ItemError{Request: reqs[i], Err: err})
		}
	}
	if len(failed) == 0 {
		debug.Log(debug.MOVE, "batch %s: done", batch)
		return nil
	}
	debug.Log(debug.MOVE, "batch %s: %d failed", batch, len(failed))
	return &MoveError{Batch: batch, Total: len(reqs), Failed: failed}
}

// AsMoveError unwraps err into a *MoveError.
func AsMoveError(err error) (*MoveError, bool) {
	var me *MoveError
	ok := errors.As(err, &me)
	return me, ok
}

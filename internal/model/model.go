// Package model declares the collaborators the breadcrumb bar talks to:
// the file-system model, the dialog service and the error reporter.
// The types here are shared between the bar, the move flow and the
// concrete implementations in internal/fs and internal/ui.
package model

import (
	"context"
	"time"
)

// FileSystem is the browsing model. Paths are forward-slash strings relative
// to the model root; "" is the root itself.
type FileSystem interface {
	// Path returns the current directory.
	Path() string

	// Resolve interprets target relative to the current directory using the
	// same rules as Navigate ("/" is the root, "../" the parent, "" the
	// current directory) and returns the clean model path.
	Resolve(target string) (string, error)

	// Navigate changes the current directory. Relative targets are resolved
	// against the current directory.
	Navigate(ctx context.Context, target string) error

	// Rename moves the item at source to destination. Both are full model
	// paths, so the result does not depend on the current directory. A
	// destination that already exists yields a *RenameError with Conflict
	// set; a destination that contains source fails with ErrContainsSource.
	Rename(ctx context.Context, source, destination string) error

	// Delete removes the item at path.
	Delete(ctx context.Context, path string) error

	// Subscribe registers fn to be called with the current path whenever the
	// model refreshes. The returned func removes the subscription.
	Subscribe(fn func(path string)) (cancel func())
}

// Info describes an existing item. It is only used to enrich prompts.
type Info struct {
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Stater is implemented by models that can describe an item.
type Stater interface {
	Stat(path string) (Info, error)
}

// DialogConfig describes a modal dialog with a cancel button and one
// affirmative button.
type DialogConfig struct {
	Title       string
	Body        string
	Detail      string // optional secondary line
	Affirmative string
	Cancel      string // defaults to "CANCEL"
}

// Choice is the outcome of a dialog. Dismissed is set when the dialog was
// closed without picking a button; Label is empty in that case.
type Choice struct {
	Label     string
	Dismissed bool
}

// Affirmed reports whether the affirmative button of cfg was chosen.
func (c Choice) Affirmed(cfg DialogConfig) bool {
	return !c.Dismissed && c.Label == cfg.Affirmative
}

// Dialogs shows modal dialogs. Show blocks until the user answers.
type Dialogs interface {
	Show(ctx context.Context, cfg DialogConfig) (Choice, error)
}

// Reporter surfaces errors to the user. It must not block.
type Reporter interface {
	Report(context string, err error)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(context string, err error)

// Report calls f(context, err).
func (f ReporterFunc) Report(context string, err error) { f(context, err) }

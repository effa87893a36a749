package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExists is matched by errors.Is for rename conflicts.
	ErrExists = errors.New("destination already exists")

	// ErrOutsideRoot is returned when a target resolves above the model root.
	ErrOutsideRoot = errors.New("path is outside the root directory")

	// ErrContainsSource is returned when a move would replace a directory
	// that holds the item being moved.
	ErrContainsSource = errors.New("destination contains the item being moved")

	// ErrNotDir is returned when navigating to something that is not a directory.
	ErrNotDir = errors.New("not a directory")
)

// OpError records a failed navigation or delete.
type OpError struct {
	Op   string // "navigate", "delete", "list"
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s /: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// RenameError records a failed rename. Conflict is set when the only problem
// is that Destination already exists.
type RenameError struct {
	Source      string
	Destination string
	Conflict    bool
	Err         error
}

func (e *RenameError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("rename %s -> %s: %v", e.Source, e.Destination, ErrExists)
	}
	return fmt.Sprintf("rename %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *RenameError) Unwrap() error {
	if e.Conflict && e.Err == nil {
		return ErrExists
	}
	return e.Err
}

// Is lets errors.Is(err, ErrExists) match conflicts even when Err carries
// the underlying cause.
func (e *RenameError) Is(target error) bool {
	return e.Conflict && target == ErrExists
}

// Contains reports whether dir is p or one of its ancestors. The root ""
// contains every path.
func Contains(dir, p string) bool {
	return dir == "" || p == dir || strings.HasPrefix(p, dir+"/")
}

// IsConflict reports whether err is a rename conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrExists)
}

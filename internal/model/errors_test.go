package model

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConflict(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"conflict", &RenameError{Source: "x", Destination: "a/x", Conflict: true}, true},
		{"conflict with cause", &RenameError{Source: "x", Destination: "a/x", Conflict: true, Err: fs.ErrExist}, true},
		{"wrapped conflict", fmt.Errorf("move: %w", &RenameError{Conflict: true}), true},
		{"plain failure", &RenameError{Source: "x", Destination: "a/x", Err: fs.ErrPermission}, false},
		{"unrelated", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsConflict(tc.err))
		})
	}
}

func TestRenameErrorUnwrapsCause(t *testing.T) {
	err := &RenameError{Source: "x", Destination: "a/x", Err: fs.ErrPermission}
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "rename x -> a/x: permission denied", err.Error())
}

func TestOpError(t *testing.T) {
	err := &OpError{Op: "navigate", Path: "", Err: ErrNotDir}
	assert.Equal(t, "navigate /: not a directory", err.Error())
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestChoiceAffirmed(t *testing.T) {
	cfg := DialogConfig{Affirmative: "OVERWRITE"}
	assert.True(t, Choice{Label: "OVERWRITE"}.Affirmed(cfg))
	assert.False(t, Choice{Label: "CANCEL"}.Affirmed(cfg))
	assert.False(t, Choice{Dismissed: true}.Affirmed(cfg))
}

func TestContains(t *testing.T) {
	testCases := []struct {
		dir, p string
		want   bool
	}{
		{"", "a/b", true},
		{"a/b", "a/b", true},
		{"a/b", "a/b/c", true},
		{"a/b", "a/bc", false},
		{"a/b/c", "a/b", false},
		{"x", "a/x", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Contains(tc.dir, tc.p), "%q contains %q", tc.dir, tc.p)
	}
}

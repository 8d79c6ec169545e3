package domain

import (
	"errors"
	"fmt"

	m "patchup.dev/pkg/patchup/internal/model"
)

// ErrMalformedDiff reports input that does not conform to unified-diff
// structure. It is returned (wrapped with line context) before any file
// is touched.
var ErrMalformedDiff = errors.New("malformed diff")

// ApplyErrorKind classifies why applying a patch set was aborted.
type ApplyErrorKind int

const (
	// ApplyMissingFile means an edit target vanished between parse and apply.
	ApplyMissingFile ApplyErrorKind = iota
	// ApplyOutOfRange means a line number fell outside the file's bounds,
	// i.e. the local tree diverged from the diff's baseline.
	ApplyOutOfRange
	// ApplyIOFailure wraps an underlying storage or permission failure.
	ApplyIOFailure
)

func (k ApplyErrorKind) String() string {
	switch k {
	case ApplyMissingFile:
		return "missing file"
	case ApplyOutOfRange:
		return "line out of range"
	default:
		return "i/o failure"
	}
}

// ApplyError reports the first unrecoverable failure while mutating the
// tree. Files already patched before it are left as-is.
type ApplyError struct {
	Kind ApplyErrorKind
	Path m.Path
	Line int
	Err  error
}

func (e *ApplyError) Error() string {
	switch e.Kind {
	case ApplyOutOfRange:
		return fmt.Sprintf("%s: line %d out of range", e.Path, e.Line)
	case ApplyMissingFile:
		return fmt.Sprintf("%s: file missing", e.Path)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is matches ApplyErrors by kind.
func (e *ApplyError) Is(target error) bool {
	t, ok := target.(*ApplyError)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

func newMissingFileError(path m.Path) *ApplyError {
	return &ApplyError{Kind: ApplyMissingFile, Path: path}
}

func newOutOfRangeError(path m.Path, line int) *ApplyError {
	return &ApplyError{Kind: ApplyOutOfRange, Path: path, Line: line}
}

func newIOError(path m.Path, err error) *ApplyError {
	return &ApplyError{Kind: ApplyIOFailure, Path: path, Err: err}
}

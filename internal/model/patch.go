// Package model defines the data structures shared by the patch engine
// and the update workflow.
package model

// Path represents a file system path.
type Path string

// LineKind classifies one line of a hunk body.
type LineKind int

const (
	// LineContext is a line present in both versions of the file.
	LineContext LineKind = iota
	// LineAdded is a line present only in the resulting file.
	LineAdded
	// LineRemoved is a line present only in the original file.
	LineRemoved
)

func (k LineKind) String() string {
	switch k {
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "context"
	}
}

// ChangeKind classifies the file-level effect of a FilePatch.
type ChangeKind int

const (
	// ChangeModified edits an existing file in place.
	ChangeModified ChangeKind = iota
	// ChangeAdded creates a new file.
	ChangeAdded
	// ChangeRemoved deletes a file outright; hunks are ignored.
	ChangeRemoved
	// ChangeRenamed moves a file, optionally editing its content too.
	ChangeRenamed
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// DiffLine is one line of a hunk body. Text keeps the trailing line
// terminator exactly as it must appear on disk. SourceLine is the 1-based
// line number in the original file (0 for added lines); TargetLine is the
// 1-based line number in the resulting file (0 for removed lines).
type DiffLine struct {
	Kind       LineKind
	Text       string
	SourceLine int
	TargetLine int
}

// Hunk is a contiguous edit region with its declared range header values.
type Hunk struct {
	SourceStart int
	SourceCount int
	TargetStart int
	TargetCount int
	Lines       []DiffLine
}

// FilePatch holds every change to a single file extracted from a diff.
type FilePatch struct {
	SourcePath Path
	TargetPath Path
	Kind       ChangeKind
	Hunks      []Hunk
}

// Path returns the path the patch effectively addresses on disk: the
// source path for removals, the target path for everything else.
func (p FilePatch) Path() Path {
	if p.Kind == ChangeRemoved {
		return p.SourcePath
	}

	return p.TargetPath
}

// PatchSet is an ordered sequence of independent per-file patches. The
// order only determines apply/log order, not correctness.
type PatchSet []FilePatch

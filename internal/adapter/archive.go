package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	m "patchup.dev/pkg/patchup/internal/model"
)

// PatchArchive persists fetched diff text for later inspection or offline
// re-application. Archiving is an audit aid, not required for a correct
// apply.
type PatchArchive interface {
	// Save stores diff text for the from/to transition and returns the
	// artifact path.
	Save(from, to, diff string) (m.Path, error)
}

// LocalPatchArchive writes diff artifacts under a directory, creating it
// on demand. Artifacts are named `<from>_<to>.diff`.
type LocalPatchArchive struct {
	dir m.Path
}

// NewLocalPatchArchive constructs an archive rooted at dir.
func NewLocalPatchArchive(dir m.Path) *LocalPatchArchive {
	return &LocalPatchArchive{dir: dir}
}

// Save stores the diff text and returns its path.
func (a *LocalPatchArchive) Save(from, to, diff string) (m.Path, error) {
	if err := os.MkdirAll(string(a.dir), 0o755); err != nil {
		return "", fmt.Errorf("create patch dir: %w", err)
	}

	path := filepath.Join(string(a.dir), fmt.Sprintf("%s_%s.diff", from, to))
	if err := os.WriteFile(path, []byte(diff), 0o644); err != nil {
		return "", fmt.Errorf("write diff artifact: %w", err)
	}

	return m.Path(path), nil
}

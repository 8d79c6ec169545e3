package domain

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"patchup.dev/pkg/patchup/internal/adapter"
	"patchup.dev/pkg/patchup/internal/controller"
	m "patchup.dev/pkg/patchup/internal/model"
)

// Applier performs the filesystem mutations described by a patch set.
// Files are processed strictly in patch-set order; the first unrecoverable
// error aborts the whole operation with no rollback of files already
// patched, so callers must treat a failed apply as non-atomic and re-fetch
// the diff to retry.
type Applier interface {
	Apply(ctx context.Context, root m.Path, set m.PatchSet) error
}

type applier struct {
	fs adapter.TreeFS
	ui controller.UI
}

// NewApplier constructs an Applier backed by the provided filesystem
// adapter, reporting per-file progress through ui.
func NewApplier(fs adapter.TreeFS, ui controller.UI) Applier {
	return &applier{fs: fs, ui: ui}
}

// Apply mutates the tree under root according to set. It assumes
// exclusive access to the tree for the duration of the call.
func (a *applier) Apply(ctx context.Context, root m.Path, set m.PatchSet) error {
	a.ui.DisplayApplyStart(ctx, len(set))

	for _, patch := range set {
		if err := ctx.Err(); err != nil {
			return err
		}

		slog.Info("patching file", "path", patch.Path(), "kind", patch.Kind.String())

		if err := a.applyFile(patch, root); err != nil {
			slog.Error("apply aborted", "path", patch.Path(), "error", err)
			return err
		}

		a.ui.DisplayFilePatched(ctx, patch.Path(), patch.Kind)
	}

	return nil
}

// applyFile runs the per-file procedure: removal, rename, creation, then
// content edit. The step order matters; later steps address the file by
// its possibly renamed target path.
func (a *applier) applyFile(patch m.FilePatch, root m.Path) error {
	targetPath := a.resolve(root, patch.TargetPath)

	if patch.Kind == m.ChangeRemoved {
		return a.removeFile(a.resolve(root, patch.SourcePath), patch.SourcePath)
	}

	if patch.Kind == m.ChangeRenamed {
		if err := a.renameFile(a.resolve(root, patch.SourcePath), targetPath, patch); err != nil {
			return err
		}
	}

	exists, err := a.fs.Exists(targetPath)
	if err != nil {
		return newIOError(patch.TargetPath, err)
	}

	if !exists {
		if patch.Kind == m.ChangeRenamed && len(patch.Hunks) == 0 {
			// Tolerated: a pure rename with neither side on disk has
			// nothing to move and nothing to edit.
			slog.Warn("file already absent, skipping rename", "path", patch.TargetPath)
			return nil
		}

		if patch.Kind != m.ChangeAdded {
			return newMissingFileError(patch.TargetPath)
		}

		if err := a.createEmptyFile(targetPath, patch.TargetPath); err != nil {
			return err
		}
	}

	if len(patch.Hunks) == 0 {
		return nil
	}

	return a.editFile(targetPath, patch)
}

func (a *applier) removeFile(path, rel m.Path) error {
	exists, err := a.fs.Exists(path)
	if err != nil {
		return newIOError(rel, err)
	}

	if !exists {
		// Tolerated: the tree may already be clean from a prior run.
		slog.Warn("file already absent, skipping removal", "path", rel)
		return nil
	}

	if err := a.fs.Remove(path); err != nil {
		return newIOError(rel, err)
	}

	slog.Info("removed file", "path", rel)

	return nil
}

func (a *applier) renameFile(from, to m.Path, patch m.FilePatch) error {
	exists, err := a.fs.Exists(from)
	if err != nil {
		return newIOError(patch.SourcePath, err)
	}

	if !exists {
		// Tolerated: a prior partial run may have renamed it already.
		slog.Warn("file already absent, skipping rename", "path", patch.SourcePath)
		return nil
	}

	if err := a.fs.MkdirAll(m.Path(filepath.Dir(string(to))), 0o755); err != nil {
		return newIOError(patch.TargetPath, err)
	}

	if err := a.fs.Rename(from, to); err != nil {
		return newIOError(patch.TargetPath, err)
	}

	slog.Info("renamed file", "from", patch.SourcePath, "to", patch.TargetPath)

	return nil
}

func (a *applier) createEmptyFile(path, rel m.Path) error {
	if err := a.fs.MkdirAll(m.Path(filepath.Dir(string(path))), 0o755); err != nil {
		return newIOError(rel, err)
	}

	if err := a.fs.WriteFile(path, nil, 0o644); err != nil {
		return newIOError(rel, err)
	}

	slog.Info("created new file", "path", rel)

	return nil
}

// editFile loads the file's line sequence and applies every hunk's line
// operations: all removals first, in reverse order of their source line
// numbers, then all additions in forward order of their target line
// numbers. Reverse-then-forward is mandatory; processing removals from
// the front would shift positions of not-yet-processed removals, and
// symmetrically for additions.
func (a *applier) editFile(path m.Path, patch m.FilePatch) error {
	content, err := a.fs.ReadFile(path)
	if err != nil {
		return newIOError(patch.TargetPath, err)
	}

	lines := splitKeepEnds(string(content))

	for i := len(patch.Hunks) - 1; i >= 0; i-- {
		hunk := patch.Hunks[i]
		for j := len(hunk.Lines) - 1; j >= 0; j-- {
			line := hunk.Lines[j]
			if line.Kind != m.LineRemoved {
				continue
			}

			idx := line.SourceLine - 1
			if idx < 0 || idx >= len(lines) {
				return newOutOfRangeError(patch.TargetPath, line.SourceLine)
			}

			slog.Debug("removing line", "path", patch.TargetPath, "line", line.SourceLine)
			lines = append(lines[:idx], lines[idx+1:]...)
		}
	}

	for _, hunk := range patch.Hunks {
		for _, line := range hunk.Lines {
			if line.Kind != m.LineAdded {
				continue
			}

			idx := line.TargetLine - 1
			if idx < 0 || idx > len(lines) {
				return newOutOfRangeError(patch.TargetPath, line.TargetLine)
			}

			slog.Debug("adding line", "path", patch.TargetPath, "line", line.TargetLine)
			lines = append(lines[:idx], append([]string{line.Text}, lines[idx:]...)...)
		}
	}

	if err := a.fs.WriteFile(path, []byte(strings.Join(lines, "")), 0o644); err != nil {
		return newIOError(patch.TargetPath, err)
	}

	return nil
}

func (a *applier) resolve(root, rel m.Path) m.Path {
	return a.fs.JoinPath(string(root), string(rel))
}

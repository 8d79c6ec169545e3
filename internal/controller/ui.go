// Package controller provides output adapters for displaying update
// progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "patchup.dev/pkg/patchup/internal/model"
)

// UI defines the interface for displaying update progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	DisplayCheck(ctx context.Context, result m.CheckResult)
	DisplayChangelog(ctx context.Context, changelog string)
	DisplayApplyStart(ctx context.Context, fileCount int)
	DisplayFilePatched(ctx context.Context, path m.Path, kind m.ChangeKind)
	DisplayUpdateResult(ctx context.Context, result m.UpdateResult)
}

// NewUI picks the TUI when stdout is an interactive terminal and the
// plain printer otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NopUI discards every display call. It backs quiet commands and tests.
type NopUI struct{}

// Start initializes the UI.
func (NopUI) Start(context.Context) error { return nil }

// Close finalizes the UI.
func (NopUI) Close(context.Context) {}

// DisplayCheck discards the check result.
func (NopUI) DisplayCheck(context.Context, m.CheckResult) {}

// DisplayChangelog discards the changelog.
func (NopUI) DisplayChangelog(context.Context, string) {}

// DisplayApplyStart discards the apply start notice.
func (NopUI) DisplayApplyStart(context.Context, int) {}

// DisplayFilePatched discards the per-file progress line.
func (NopUI) DisplayFilePatched(context.Context, m.Path, m.ChangeKind) {}

// DisplayUpdateResult discards the update summary.
func (NopUI) DisplayUpdateResult(context.Context, m.UpdateResult) {}

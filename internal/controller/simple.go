package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "patchup.dev/pkg/patchup/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayCheck prints the version comparison as a table.
func (s *SimpleUI) DisplayCheck(ctx context.Context, result m.CheckResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s", renderCheckTable(result))

	if result.UpdateAvailable {
		s.printf("New version available: %s\n", result.LatestVersion)
	} else {
		s.printf("Already up to date.\n")
	}
}

func renderCheckTable(result m.CheckResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Repository", "Current", "Latest"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})
	table.Append([]string{result.Repo, result.CurrentVersion, result.LatestVersion})
	table.Render()

	return tableBuffer.String()
}

// DisplayChangelog prints the assembled changelog verbatim.
func (s *SimpleUI) DisplayChangelog(ctx context.Context, changelog string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if changelog == "" {
		return
	}

	s.printf("%s\n", changelog)
}

// DisplayApplyStart shows how many files the patch set touches.
func (s *SimpleUI) DisplayApplyStart(ctx context.Context, fileCount int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Applying patch set (%d file(s))\n", fileCount)
}

// DisplayFilePatched shows one completed per-file mutation.
func (s *SimpleUI) DisplayFilePatched(ctx context.Context, path m.Path, kind m.ChangeKind) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s\n", kind, path)
}

// DisplayUpdateResult prints the final update summary.
func (s *SimpleUI) DisplayUpdateResult(ctx context.Context, result m.UpdateResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	if result.DryRun {
		s.printf("Dry run: %s -> %s diff fetched, not applied.\n",
			result.CurrentVersion, result.LatestVersion)

		if result.ArchivedDiff != "" {
			s.printf("Diff archived at %s\n", result.ArchivedDiff)
		}

		return
	}

	if !result.Applied {
		s.printf("Nothing to update: %s is current.\n", result.CurrentVersion)
		return
	}

	s.printf("Updated %s -> %s (%d file(s) patched)\n",
		result.CurrentVersion, result.LatestVersion, len(result.PatchedFiles))

	if result.ArchivedDiff != "" {
		s.printf("Diff archived at %s\n", result.ArchivedDiff)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

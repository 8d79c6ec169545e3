package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "patchup.dev/pkg/patchup/internal/model"
)

var (
	tuiTitleStyle   = lipgloss.NewStyle().Bold(true)
	tuiSpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	tuiKindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(9)
	tuiOkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	tuiHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background; subsequent
// Display calls feed it messages.
func (p *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.program = tea.NewProgram(newUpdateModel(), tea.WithOutput(p.output))

	go func() {
		_, _ = p.program.Run()
	}()

	return nil
}

// Close tells the program to quit and waits for its final frame.
func (p *TUI) Close(ctx context.Context) {
	if p.program == nil {
		return
	}

	p.program.Send(tuiDoneMsg{})
	p.program.Wait()
	p.program = nil

	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayCheck shows the version comparison.
func (p *TUI) DisplayCheck(ctx context.Context, result m.CheckResult) {
	p.send(ctx, tuiCheckMsg{result: result})
}

// DisplayChangelog shows the assembled changelog with styled headings.
func (p *TUI) DisplayChangelog(ctx context.Context, changelog string) {
	p.send(ctx, tuiChangelogMsg{changelog: changelog})
}

// DisplayApplyStart switches the view into apply mode.
func (p *TUI) DisplayApplyStart(ctx context.Context, fileCount int) {
	p.send(ctx, tuiApplyStartMsg{fileCount: fileCount})
}

// DisplayFilePatched appends one completed file to the patch log.
func (p *TUI) DisplayFilePatched(ctx context.Context, path m.Path, kind m.ChangeKind) {
	p.send(ctx, tuiFilePatchedMsg{path: path, kind: kind})
}

// DisplayUpdateResult shows the final summary.
func (p *TUI) DisplayUpdateResult(ctx context.Context, result m.UpdateResult) {
	p.send(ctx, tuiResultMsg{result: result})
}

func (p *TUI) send(ctx context.Context, msg tea.Msg) {
	if p.program == nil || ctx.Err() != nil {
		return
	}

	p.program.Send(msg)
}

type tuiCheckMsg struct{ result m.CheckResult }

type tuiChangelogMsg struct{ changelog string }

type tuiApplyStartMsg struct{ fileCount int }

type tuiFilePatchedMsg struct {
	path m.Path
	kind m.ChangeKind
}

type tuiResultMsg struct{ result m.UpdateResult }

type tuiDoneMsg struct{}

// updateModel is the Bubble Tea model rendering the update flow.
type updateModel struct {
	spinner   spinner.Model
	check     *m.CheckResult
	changelog string
	applying  bool
	fileCount int
	patched   []string
	summary   string
	quitting  bool
}

func newUpdateModel() updateModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tuiSpinnerStyle

	return updateModel{spinner: sp}
}

func (um updateModel) Init() tea.Cmd {
	return um.spinner.Tick
}

func (um updateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			um.quitting = true
			return um, tea.Quit
		}

		return um, nil

	case tuiCheckMsg:
		um.check = &msg.result
		return um, nil

	case tuiChangelogMsg:
		um.changelog = msg.changelog
		return um, nil

	case tuiApplyStartMsg:
		um.applying = true
		um.fileCount = msg.fileCount

		return um, nil

	case tuiFilePatchedMsg:
		line := tuiKindStyle.Render(msg.kind.String()) + string(msg.path)
		um.patched = append(um.patched, line)

		return um, nil

	case tuiResultMsg:
		um.applying = false
		um.summary = formatResultSummary(msg.result)

		return um, nil

	case tuiDoneMsg:
		um.quitting = true
		return um, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		um.spinner, cmd = um.spinner.Update(msg)

		return um, cmd
	}

	return um, nil
}

func (um updateModel) View() string {
	var view string

	view += tuiTitleStyle.Render("patchup") + "\n"

	if um.check != nil {
		view += fmt.Sprintf("  %s: %s -> %s\n",
			um.check.Repo, um.check.CurrentVersion, um.check.LatestVersion)
	}

	if um.changelog != "" {
		view += "\n" + StyleChangelog(um.changelog) + "\n"
	}

	if um.applying {
		view += fmt.Sprintf("\n%s applying %d file(s)\n", um.spinner.View(), um.fileCount)
	}

	for _, line := range um.patched {
		view += "  " + line + "\n"
	}

	if um.summary != "" {
		view += "\n" + tuiOkStyle.Render(um.summary) + "\n"
	}

	return view
}

func formatResultSummary(result m.UpdateResult) string {
	if result.DryRun {
		return fmt.Sprintf("dry run: %s -> %s diff fetched, not applied",
			result.CurrentVersion, result.LatestVersion)
	}

	if !result.Applied {
		return fmt.Sprintf("nothing to update: %s is current", result.CurrentVersion)
	}

	return fmt.Sprintf("updated %s -> %s (%d file(s) patched)",
		result.CurrentVersion, result.LatestVersion, len(result.PatchedFiles))
}

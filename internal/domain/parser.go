package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	m "patchup.dev/pkg/patchup/internal/model"
)

// PathRewrite normalizes a diff path before it is stored on a FilePatch.
// The release feed's packaging convention wraps resources in an archive
// directory; callers inject the strip rule instead of the parser assuming
// one repository layout.
type PathRewrite func(string) string

// StripPrefix returns a PathRewrite that removes prefix from the front of
// a path. An empty prefix yields the identity rewrite.
func StripPrefix(prefix string) PathRewrite {
	if prefix == "" {
		return func(path string) string { return path }
	}

	return func(path string) string {
		return strings.TrimPrefix(path, prefix)
	}
}

// ParseOption configures ParseDiff.
type ParseOption func(*parser)

// WithPathRewrite sets the path normalization applied to every source and
// target path. The default keeps paths untouched.
func WithPathRewrite(rewrite PathRewrite) ParseOption {
	return func(p *parser) {
		p.rewrite = rewrite
	}
}

// hunkHeaderRegex matches `@@ -start[,count] +start[,count] @@`.
var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

const nullDevice = "/dev/null"

// ParseDiff converts raw unified-diff text into a structured patch set.
// It is a pure transformation: no file is touched. Structural problems
// (unparseable headers, hunk bodies disagreeing with their declared
// counts) return an error wrapping ErrMalformedDiff.
func ParseDiff(raw string, opts ...ParseOption) (m.PatchSet, error) {
	p := &parser{
		lines:   splitKeepEnds(raw),
		rewrite: func(path string) string { return path },
	}

	for _, opt := range opts {
		opt(p)
	}

	return p.run()
}

type parser struct {
	lines   []string
	pos     int
	rewrite PathRewrite

	set        m.PatchSet
	current    *m.FilePatch
	renameFrom string
	renameTo   string
}

func (p *parser) run() (m.PatchSet, error) {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]

		switch {
		case strings.HasPrefix(line, "diff --git "):
			p.finishFile()
			p.flushRename()
			p.pos++
		case strings.HasPrefix(line, "--- "):
			if err := p.startFile(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "@@ "):
			if err := p.parseHunk(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "+++ "):
			return nil, p.errf("target header without a source header")
		case strings.HasPrefix(line, "rename from "):
			p.renameFrom = p.rewrite(strings.TrimRight(strings.TrimPrefix(line, "rename from "), "\r\n"))
			p.pos++
		case strings.HasPrefix(line, "rename to "):
			p.renameTo = p.rewrite(strings.TrimRight(strings.TrimPrefix(line, "rename to "), "\r\n"))
			p.pos++
		default:
			// index, mode and similarity lines carry no information the
			// applier needs.
			p.pos++
		}
	}

	p.finishFile()
	p.flushRename()

	return p.set, nil
}

// flushRename emits a path-only rename for a git section that carried
// rename headers but no `---`/`+++` pair (100% similarity renames).
func (p *parser) flushRename() {
	if p.renameFrom == "" || p.renameTo == "" {
		return
	}

	p.set = append(p.set, m.FilePatch{
		SourcePath: m.Path(p.renameFrom),
		TargetPath: m.Path(p.renameTo),
		Kind:       m.ChangeRenamed,
	})
	p.renameFrom = ""
	p.renameTo = ""
}

// startFile consumes a `--- ` / `+++ ` header pair and opens a new file
// section.
func (p *parser) startFile() error {
	p.finishFile()

	source, err := p.headerPath("--- ")
	if err != nil {
		return err
	}

	if p.pos >= len(p.lines) || !strings.HasPrefix(p.lines[p.pos], "+++ ") {
		return p.errf("source header %q not followed by a target header", source)
	}

	target, err := p.headerPath("+++ ")
	if err != nil {
		return err
	}

	patch := m.FilePatch{
		SourcePath: m.Path(source),
		TargetPath: m.Path(target),
	}

	renamed := p.renameFrom != "" && p.renameTo != ""
	p.renameFrom = ""
	p.renameTo = ""

	switch {
	case target == nullDevice:
		patch.Kind = m.ChangeRemoved
		patch.TargetPath = patch.SourcePath
	case source == nullDevice:
		patch.Kind = m.ChangeAdded
		patch.SourcePath = patch.TargetPath
	case renamed || source != target:
		patch.Kind = m.ChangeRenamed
	default:
		patch.Kind = m.ChangeModified
	}

	p.current = &patch

	return nil
}

// headerPath extracts the path from a file header line, trimming the
// conventional a/ or b/ prefix and any timestamp suffix, then applies the
// configured rewrite.
func (p *parser) headerPath(marker string) (string, error) {
	line := strings.TrimRight(p.lines[p.pos], "\r\n")
	p.pos++

	path := strings.TrimPrefix(line, marker)
	if tab := strings.IndexByte(path, '\t'); tab >= 0 {
		path = path[:tab]
	}

	if path == "" {
		return "", p.errf("empty path in file header %q", line)
	}

	if path == nullDevice {
		return path, nil
	}

	if len(path) > 2 && (path[:2] == "a/" || path[:2] == "b/") {
		path = path[2:]
	}

	return p.rewrite(path), nil
}

// parseHunk consumes one `@@` header and its body, assigning running
// 1-based line counters seeded from the declared start positions.
func (p *parser) parseHunk() error {
	if p.current == nil {
		return p.errf("hunk header outside of a file section")
	}

	groups := hunkHeaderRegex.FindStringSubmatch(p.lines[p.pos])
	if groups == nil {
		return p.errf("unparseable hunk header %q", strings.TrimRight(p.lines[p.pos], "\r\n"))
	}

	p.pos++

	hunk := m.Hunk{
		SourceStart: mustAtoi(groups[1]),
		SourceCount: countOrOne(groups[2]),
		TargetStart: mustAtoi(groups[3]),
		TargetCount: countOrOne(groups[4]),
	}

	sourceLine := hunk.SourceStart
	targetLine := hunk.TargetStart
	sourceLeft := hunk.SourceCount
	targetLeft := hunk.TargetCount

	for sourceLeft > 0 || targetLeft > 0 {
		if p.pos >= len(p.lines) {
			return p.errf("hunk body ends before its declared line counts are satisfied")
		}

		line := p.lines[p.pos]
		p.pos++

		marker, text := splitMarker(line)

		switch marker {
		case ' ':
			if sourceLeft == 0 || targetLeft == 0 {
				return p.errf("hunk body longer than its declared line counts")
			}

			hunk.Lines = append(hunk.Lines, m.DiffLine{
				Kind:       m.LineContext,
				Text:       text,
				SourceLine: sourceLine,
				TargetLine: targetLine,
			})
			sourceLine++
			targetLine++
			sourceLeft--
			targetLeft--
		case '-':
			if sourceLeft == 0 {
				return p.errf("hunk removes more lines than its header declares")
			}

			hunk.Lines = append(hunk.Lines, m.DiffLine{
				Kind:       m.LineRemoved,
				Text:       text,
				SourceLine: sourceLine,
			})
			sourceLine++
			sourceLeft--
		case '+':
			if targetLeft == 0 {
				return p.errf("hunk adds more lines than its header declares")
			}

			hunk.Lines = append(hunk.Lines, m.DiffLine{
				Kind:       m.LineAdded,
				Text:       text,
				TargetLine: targetLine,
			})
			targetLine++
			targetLeft--
		case '\\':
			p.chompLastLine(&hunk)
		default:
			return p.errf("unexpected line %q inside hunk body", strings.TrimRight(line, "\r\n"))
		}
	}

	// A trailing no-newline marker applies to the hunk's last line.
	if p.pos < len(p.lines) && strings.HasPrefix(p.lines[p.pos], "\\") {
		p.chompLastLine(&hunk)
		p.pos++
	}

	p.current.Hunks = append(p.current.Hunks, hunk)

	return nil
}

// chompLastLine handles `\ No newline at end of file`: the previous body
// line actually has no terminator.
func (p *parser) chompLastLine(hunk *m.Hunk) {
	if len(hunk.Lines) == 0 {
		return
	}

	last := &hunk.Lines[len(hunk.Lines)-1]
	last.Text = strings.TrimRight(last.Text, "\r\n")
}

func (p *parser) finishFile() {
	if p.current != nil {
		p.set = append(p.set, *p.current)
		p.current = nil
	}
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedDiff, p.pos+1, fmt.Sprintf(format, args...))
}

// splitMarker separates a hunk body line into its leading marker and its
// content (terminator kept). A bare newline counts as an empty context
// line, which some diff generators emit.
func splitMarker(line string) (byte, string) {
	trimmed := strings.TrimRight(line, "\r\n")
	if trimmed == "" {
		return ' ', line
	}

	return line[0], line[1:]
}

// splitKeepEnds splits text into lines, each keeping its terminator.
func splitKeepEnds(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func countOrOne(s string) int {
	if s == "" {
		return 1
	}

	return mustAtoi(s)
}

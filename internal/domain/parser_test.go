package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "patchup.dev/pkg/patchup/internal/model"
)

const modifyDiff = `--- a/notes.txt
+++ b/notes.txt
@@ -1,3 +1,3 @@
 a
-b
+x
 c
`

func TestParseDiff_Modify(t *testing.T) {
	set, err := ParseDiff(modifyDiff)
	require.NoError(t, err)
	require.Len(t, set, 1)

	patch := set[0]
	assert.Equal(t, m.Path("notes.txt"), patch.SourcePath)
	assert.Equal(t, m.Path("notes.txt"), patch.TargetPath)
	assert.Equal(t, m.ChangeModified, patch.Kind)
	require.Len(t, patch.Hunks, 1)

	hunk := patch.Hunks[0]
	assert.Equal(t, 1, hunk.SourceStart)
	assert.Equal(t, 3, hunk.SourceCount)
	assert.Equal(t, 1, hunk.TargetStart)
	assert.Equal(t, 3, hunk.TargetCount)
	require.Len(t, hunk.Lines, 4)

	assert.Equal(t, m.DiffLine{Kind: m.LineContext, Text: "a\n", SourceLine: 1, TargetLine: 1}, hunk.Lines[0])
	assert.Equal(t, m.DiffLine{Kind: m.LineRemoved, Text: "b\n", SourceLine: 2}, hunk.Lines[1])
	assert.Equal(t, m.DiffLine{Kind: m.LineAdded, Text: "x\n", TargetLine: 2}, hunk.Lines[2])
	assert.Equal(t, m.DiffLine{Kind: m.LineContext, Text: "c\n", SourceLine: 3, TargetLine: 3}, hunk.Lines[3])
}

func TestParseDiff_AddedFile(t *testing.T) {
	raw := `--- /dev/null
+++ b/fresh.txt
@@ -0,0 +1,2 @@
+one
+two
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)
	require.Len(t, set, 1)

	patch := set[0]
	assert.Equal(t, m.ChangeAdded, patch.Kind)
	assert.Equal(t, m.Path("fresh.txt"), patch.TargetPath)
	assert.Equal(t, m.Path("fresh.txt"), patch.Path())
	require.Len(t, patch.Hunks, 1)
	assert.Equal(t, 1, patch.Hunks[0].Lines[0].TargetLine)
	assert.Equal(t, 2, patch.Hunks[0].Lines[1].TargetLine)
}

func TestParseDiff_RemovedFile(t *testing.T) {
	raw := `--- a/stale.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-one
-two
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)
	require.Len(t, set, 1)

	patch := set[0]
	assert.Equal(t, m.ChangeRemoved, patch.Kind)
	assert.Equal(t, m.Path("stale.txt"), patch.SourcePath)
	assert.Equal(t, m.Path("stale.txt"), patch.Path())
}

func TestParseDiff_RenameWithHunk(t *testing.T) {
	raw := `diff --git a/old.txt b/new.txt
similarity index 66%
rename from old.txt
rename to new.txt
--- a/old.txt
+++ b/new.txt
@@ -1,2 +1,2 @@
 keep
-drop
+take
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)
	require.Len(t, set, 1)

	patch := set[0]
	assert.Equal(t, m.ChangeRenamed, patch.Kind)
	assert.Equal(t, m.Path("old.txt"), patch.SourcePath)
	assert.Equal(t, m.Path("new.txt"), patch.TargetPath)
	require.Len(t, patch.Hunks, 1)
}

func TestParseDiff_PureRenameWithoutHunks(t *testing.T) {
	raw := `diff --git a/old.txt b/new.txt
similarity index 100%
rename from old.txt
rename to new.txt
--- a/old.txt
+++ b/new.txt
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, m.ChangeRenamed, set[0].Kind)
	assert.Empty(t, set[0].Hunks)
}

func TestParseDiff_RenameWithoutFileHeaders(t *testing.T) {
	raw := `diff --git a/old.txt b/new.txt
similarity index 100%
rename from old.txt
rename to new.txt
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)
	require.Len(t, set, 1)

	patch := set[0]
	assert.Equal(t, m.ChangeRenamed, patch.Kind)
	assert.Equal(t, m.Path("old.txt"), patch.SourcePath)
	assert.Equal(t, m.Path("new.txt"), patch.TargetPath)
	assert.Empty(t, patch.Hunks)
}

func TestParseDiff_RenameDetectedFromPaths(t *testing.T) {
	raw := `--- a/before.txt
+++ b/after.txt
@@ -1,1 +1,1 @@
-x
+y
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, m.ChangeRenamed, set[0].Kind)
}

func TestParseDiff_MultipleFiles(t *testing.T) {
	raw := `--- a/one.txt
+++ b/one.txt
@@ -1,1 +1,1 @@
-a
+b
--- a/two.txt
+++ /dev/null
@@ -1,1 +0,0 @@
-gone
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, m.ChangeModified, set[0].Kind)
	assert.Equal(t, m.ChangeRemoved, set[1].Kind)
}

func TestParseDiff_PathRewrite(t *testing.T) {
	raw := `--- a/assets/resource/data.json
+++ b/assets/resource/data.json
@@ -1,1 +1,1 @@
-a
+b
`

	set, err := ParseDiff(raw, WithPathRewrite(StripPrefix("assets/")))
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, m.Path("resource/data.json"), set[0].SourcePath)
	assert.Equal(t, m.Path("resource/data.json"), set[0].TargetPath)
	assert.Equal(t, m.ChangeModified, set[0].Kind)
}

func TestParseDiff_RunningLineCounters(t *testing.T) {
	raw := `--- a/f.txt
+++ b/f.txt
@@ -10,4 +20,3 @@
 ctx1
-del1
-del2
+add1
 ctx2
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)

	lines := set[0].Hunks[0].Lines
	require.Len(t, lines, 5)

	assert.Equal(t, 10, lines[0].SourceLine)
	assert.Equal(t, 20, lines[0].TargetLine)
	assert.Equal(t, 11, lines[1].SourceLine)
	assert.Equal(t, 12, lines[2].SourceLine)
	assert.Equal(t, 21, lines[3].TargetLine)
	assert.Equal(t, 13, lines[4].SourceLine)
	assert.Equal(t, 22, lines[4].TargetLine)
}

func TestParseDiff_CountDefaultsToOne(t *testing.T) {
	raw := `--- a/f.txt
+++ b/f.txt
@@ -1 +1 @@
-a
+b
`

	set, err := ParseDiff(raw)
	require.NoError(t, err)

	hunk := set[0].Hunks[0]
	assert.Equal(t, 1, hunk.SourceCount)
	assert.Equal(t, 1, hunk.TargetCount)
}

func TestParseDiff_NoNewlineMarker(t *testing.T) {
	raw := "--- a/f.txt\n" +
		"+++ b/f.txt\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-old\n" +
		"+new\n" +
		"\\ No newline at end of file\n"

	set, err := ParseDiff(raw)
	require.NoError(t, err)

	lines := set[0].Hunks[0].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, "old\n", lines[0].Text)
	assert.Equal(t, "new", lines[1].Text)
}

func TestParseDiff_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "hunk shorter than declared counts",
			raw: `--- a/f.txt
+++ b/f.txt
@@ -1,3 +1,3 @@
 a
-b
`,
		},
		{
			name: "hunk removes more than declared",
			raw: `--- a/f.txt
+++ b/f.txt
@@ -1,1 +1,2 @@
-a
-b
+c
+d
`,
		},
		{
			name: "target header without source header",
			raw: `+++ b/f.txt
@@ -1,1 +1,1 @@
-a
+b
`,
		},
		{
			name: "hunk header outside file section",
			raw: `@@ -1,1 +1,1 @@
-a
+b
`,
		},
		{
			name: "unparseable hunk header",
			raw: `--- a/f.txt
+++ b/f.txt
@@ -x,1 +1,1 @@
-a
+b
`,
		},
		{
			name: "unknown marker inside body",
			raw: `--- a/f.txt
+++ b/f.txt
@@ -1,2 +1,2 @@
 a
*b
`,
		},
		{
			name: "source header not followed by target",
			raw: `--- a/f.txt
@@ -1,1 +1,1 @@
-a
+b
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDiff(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDiff)
		})
	}
}

func TestParseDiff_EmptyInput(t *testing.T) {
	set, err := ParseDiff("")
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestStripPrefix_EmptyPrefixIsIdentity(t *testing.T) {
	rewrite := StripPrefix("")
	assert.Equal(t, "assets/data.json", rewrite("assets/data.json"))
}

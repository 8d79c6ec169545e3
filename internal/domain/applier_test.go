package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchup.dev/pkg/patchup/internal/adapter"
	"patchup.dev/pkg/patchup/internal/controller"
	m "patchup.dev/pkg/patchup/internal/model"
)

func newTestApplier() Applier {
	return NewApplier(adapter.NewLocalTreeFS(), controller.NopUI{})
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readTree(t *testing.T, root, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)

	return string(content)
}

func applyDiff(t *testing.T, root, raw string) error {
	t.Helper()

	set, err := ParseDiff(raw)
	require.NoError(t, err)

	return newTestApplier().Apply(context.Background(), m.Path(root), set)
}

func TestApply_RemoveAndAddLines(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "a\nb\nc\n"})

	raw := `--- a/f.txt
+++ b/f.txt
@@ -1,3 +1,3 @@
 a
-b
+x
 c
`

	require.NoError(t, applyDiff(t, root, raw))
	assert.Equal(t, "a\nx\nc\n", readTree(t, root, "f.txt"))
}

func TestApply_RemovedFile_IdempotentSkip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"foo.txt": "gone\n"})

	raw := `--- a/foo.txt
+++ /dev/null
@@ -1,1 +0,0 @@
-gone
`

	require.NoError(t, applyDiff(t, root, raw))
	_, err := os.Stat(filepath.Join(root, "foo.txt"))
	assert.True(t, os.IsNotExist(err))

	// Second run against the already-clean tree must not error.
	require.NoError(t, applyDiff(t, root, raw))
}

func TestApply_RenameWithContentHunk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"old.txt": "keep\ndrop\n"})

	raw := `diff --git a/old.txt b/new.txt
rename from old.txt
rename to new.txt
--- a/old.txt
+++ b/new.txt
@@ -1,2 +1,2 @@
 keep
-drop
+take
`

	require.NoError(t, applyDiff(t, root, raw))

	_, err := os.Stat(filepath.Join(root, "old.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "keep\ntake\n", readTree(t, root, "new.txt"))
}

func TestApply_RenameSourceMissing_TargetAlreadyInPlace(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"new.txt": "keep\ndrop\n"})

	raw := `diff --git a/old.txt b/new.txt
rename from old.txt
rename to new.txt
--- a/old.txt
+++ b/new.txt
@@ -1,2 +1,2 @@
 keep
-drop
+take
`

	// Rename is skipped; the hunk still lands on the target path.
	require.NoError(t, applyDiff(t, root, raw))
	assert.Equal(t, "keep\ntake\n", readTree(t, root, "new.txt"))
}

func TestApply_PureRenameLeavesBytesUntouched(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"old.txt": "exact bytes\nno newline at end"})

	raw := `diff --git a/old.txt b/new.txt
similarity index 100%
rename from old.txt
rename to new.txt
`

	require.NoError(t, applyDiff(t, root, raw))
	assert.Equal(t, "exact bytes\nno newline at end", readTree(t, root, "new.txt"))
}

func TestApply_PureRenameMissingEverywhere(t *testing.T) {
	root := t.TempDir()

	raw := `diff --git a/old.txt b/new.txt
similarity index 100%
rename from old.txt
rename to new.txt
`

	// Neither side exists; the rename is skipped without error.
	require.NoError(t, applyDiff(t, root, raw))
	assert.NoFileExists(t, filepath.Join(root, "old.txt"))
	assert.NoFileExists(t, filepath.Join(root, "new.txt"))
}

func TestApply_RenameWithHunksMissingEverywhere(t *testing.T) {
	root := t.TempDir()

	raw := `diff --git a/old.txt b/new.txt
rename from old.txt
rename to new.txt
--- a/old.txt
+++ b/new.txt
@@ -1,1 +1,1 @@
-drop
+take
`

	err := applyDiff(t, root, raw)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, ApplyMissingFile, applyErr.Kind)
}

func TestApply_AddedFile(t *testing.T) {
	root := t.TempDir()

	raw := `--- /dev/null
+++ b/sub/dir/fresh.txt
@@ -0,0 +1,2 @@
+one
+two
`

	require.NoError(t, applyDiff(t, root, raw))
	assert.Equal(t, "one\ntwo\n", readTree(t, root, "sub/dir/fresh.txt"))
}

func TestApply_AddedEmptyFile(t *testing.T) {
	root := t.TempDir()

	raw := `--- /dev/null
+++ b/empty.txt
`

	require.NoError(t, applyDiff(t, root, raw))
	assert.Equal(t, "", readTree(t, root, "empty.txt"))
}

func TestApply_MissingFileForEdit(t *testing.T) {
	root := t.TempDir()

	raw := `--- a/absent.txt
+++ b/absent.txt
@@ -1,1 +1,1 @@
-a
+b
`

	err := applyDiff(t, root, raw)
	require.Error(t, err)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, ApplyMissingFile, applyErr.Kind)
	assert.Equal(t, m.Path("absent.txt"), applyErr.Path)
}

func TestApply_OutOfRange(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "only\n"})

	raw := `--- a/f.txt
+++ b/f.txt
@@ -5,1 +5,1 @@
-phantom
+replacement
`

	err := applyDiff(t, root, raw)
	require.Error(t, err)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, ApplyOutOfRange, applyErr.Kind)
	assert.Equal(t, 5, applyErr.Line)
}

func TestApply_LineCountInvariant(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "1\n2\n3\n4\n5\n6\n"})

	// Two hunks: 3 removals, 2 additions. 6 - 3 + 2 = 5 lines.
	raw := `--- a/f.txt
+++ b/f.txt
@@ -1,3 +1,2 @@
 1
-2
+two
-3
@@ -5,2 +4,2 @@
-5
+five
 6
`

	require.NoError(t, applyDiff(t, root, raw))

	result := readTree(t, root, "f.txt")
	assert.Equal(t, "1\ntwo\n4\nfive\n6\n", result)
	assert.Len(t, splitKeepEnds(result), 5)
}

// buildInterleavedPatch holds two removals and two additions whose
// positions interleave, so any wrong processing order corrupts the
// result.
func buildInterleavedPatch() m.FilePatch {
	return m.FilePatch{
		SourcePath: "f.txt",
		TargetPath: "f.txt",
		Kind:       m.ChangeModified,
		Hunks: []m.Hunk{{
			SourceStart: 1, SourceCount: 4, TargetStart: 1, TargetCount: 4,
			Lines: []m.DiffLine{
				{Kind: m.LineContext, Text: "a\n", SourceLine: 1, TargetLine: 1},
				{Kind: m.LineRemoved, Text: "b\n", SourceLine: 2},
				{Kind: m.LineAdded, Text: "B\n", TargetLine: 2},
				{Kind: m.LineRemoved, Text: "c\n", SourceLine: 3},
				{Kind: m.LineAdded, Text: "C\n", TargetLine: 3},
				{Kind: m.LineContext, Text: "d\n", SourceLine: 4, TargetLine: 4},
			},
		}},
	}
}

func TestApply_OrderSensitivity(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "a\nb\nc\nd\n"})

	set := m.PatchSet{buildInterleavedPatch()}
	require.NoError(t, newTestApplier().Apply(context.Background(), m.Path(root), set))
	assert.Equal(t, "a\nB\nC\nd\n", readTree(t, root, "f.txt"))
}

// TestApply_OrderSensitivity_NaiveForwardRemovalCorrupts is the negative
// control: deleting removals front-to-back shifts the positions of
// later removals and produces the wrong sequence.
func TestApply_OrderSensitivity_NaiveForwardRemovalCorrupts(t *testing.T) {
	lines := splitKeepEnds("a\nb\nc\nd\n")
	patch := buildInterleavedPatch()

	for _, hunk := range patch.Hunks {
		for _, line := range hunk.Lines {
			if line.Kind != m.LineRemoved {
				continue
			}

			idx := line.SourceLine - 1
			lines = append(lines[:idx], lines[idx+1:]...)
		}
	}

	// Removing line 2 first shifts "c" into position 2, so the second
	// removal deletes "d" instead.
	assert.Equal(t, []string{"a\n", "c\n"}, lines)
	assert.NotEqual(t, []string{"a\n", "d\n"}, lines)
}

func TestApply_MultiFileAbortsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"one.txt": "a\n"})

	raw := `--- a/one.txt
+++ b/one.txt
@@ -1,1 +1,1 @@
-a
+b
--- a/missing.txt
+++ b/missing.txt
@@ -1,1 +1,1 @@
-x
+y
`

	err := applyDiff(t, root, raw)
	require.Error(t, err)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, ApplyMissingFile, applyErr.Kind)

	// The first file was already patched; no rollback happens.
	assert.Equal(t, "b\n", readTree(t, root, "one.txt"))
}

func TestApply_NoNewlineAtEndOfFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "a\nend\n"})

	raw := "--- a/f.txt\n" +
		"+++ b/f.txt\n" +
		"@@ -1,2 +1,2 @@\n" +
		" a\n" +
		"-end\n" +
		"+fin\n" +
		"\\ No newline at end of file\n"

	require.NoError(t, applyDiff(t, root, raw))
	assert.Equal(t, "a\nfin", readTree(t, root, "f.txt"))
}

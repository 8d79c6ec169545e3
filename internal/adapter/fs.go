// Package adapter contains infrastructure adapters for the patchup CLI.
package adapter

import (
	"os"
	"path/filepath"

	m "patchup.dev/pkg/patchup/internal/model"
)

// TreeFS abstracts the filesystem operations the patch applier performs
// on the resource tree. It intentionally hides direct `os` access so the
// apply logic can be tested against a scratch directory.
type TreeFS interface {
	// Exists reports whether a file is present at path.
	Exists(path m.Path) (bool, error)

	// ReadFile loads a file's exact bytes.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces the full contents of the file at path, creating
	// it when absent.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Remove deletes the file at path.
	Remove(path m.Path) error

	// Rename moves a file from one path to another.
	Rename(from, to m.Path) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path, perm os.FileMode) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalTreeFS is the os-backed TreeFS implementation wired into the CLI.
type LocalTreeFS struct{}

// NewLocalTreeFS constructs a LocalTreeFS ready to be wired into the
// applier.
func NewLocalTreeFS() *LocalTreeFS {
	return &LocalTreeFS{}
}

// Exists reports whether a file is present at path.
func (a *LocalTreeFS) Exists(path m.Path) (bool, error) {
	_, err := os.Stat(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// ReadFile loads file contents from disk.
func (a *LocalTreeFS) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalTreeFS) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Remove deletes the file at path.
func (a *LocalTreeFS) Remove(path m.Path) error {
	return os.Remove(string(path))
}

// Rename moves a file from one path to another.
func (a *LocalTreeFS) Rename(from, to m.Path) error {
	return os.Rename(string(from), string(to))
}

// MkdirAll creates a directory and any missing parents.
func (a *LocalTreeFS) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// JoinPath joins path elements into a single path.
func (a *LocalTreeFS) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

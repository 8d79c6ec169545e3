package adapter

import (
	"encoding/json"
	"fmt"
	"os"

	m "patchup.dev/pkg/patchup/internal/model"
)

// ManifestStore abstracts loading the resource manifest and advancing its
// version field after a successful update.
type ManifestStore interface {
	Load(path m.Path) (m.Manifest, error)
	SetVersion(path m.Path, version string) error
}

// LocalManifestStore reads and rewrites the manifest JSON on disk. Keys
// other than the version field pass through a version bump untouched.
type LocalManifestStore struct{}

// NewLocalManifestStore constructs a LocalManifestStore.
func NewLocalManifestStore() *LocalManifestStore {
	return &LocalManifestStore{}
}

// Load decodes the manifest at path.
func (s *LocalManifestStore) Load(path m.Path) (m.Manifest, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return m.Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(content, &fields); err != nil {
		return m.Manifest{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}

	manifest := m.Manifest{Fields: fields}
	if version, ok := fields["version"].(string); ok {
		manifest.Version = version
	}

	if u, ok := fields["url"].(string); ok {
		manifest.URL = u
	}

	if manifest.Version == "" || manifest.URL == "" {
		return m.Manifest{}, fmt.Errorf("manifest %s: missing version or url field", path)
	}

	return manifest, nil
}

// SetVersion rewrites only the manifest's version field, preserving every
// other key.
func (s *LocalManifestStore) SetVersion(path m.Path, version string) error {
	manifest, err := s.Load(path)
	if err != nil {
		return err
	}

	manifest.Fields["version"] = version

	content, err := json.MarshalIndent(manifest.Fields, "", "    ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.WriteFile(string(path), append(content, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	return nil
}

package model

import "strings"

// Release is one entry of a repository's release feed, newest first.
type Release struct {
	Tag        string
	Prerelease bool
	Body       string
}

// Manifest mirrors the resource manifest JSON. Fields holds the full
// decoded object so unknown keys survive a version rewrite.
type Manifest struct {
	Version string
	URL     string
	Fields  map[string]any
}

// CheckResult describes how the local tree relates to the release feed.
type CheckResult struct {
	Repo            string
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

// UpdateResult summarizes a completed update run.
type UpdateResult struct {
	CheckResult
	Applied      bool
	DryRun       bool
	PatchedFiles []Path
	Changelog    string
	ArchivedDiff Path
}

// Repo derives the "owner/name" repository slug from the trailing two
// segments of the manifest URL.
func (m Manifest) Repo() string {
	parts := strings.Split(strings.TrimSuffix(m.URL, "/"), "/")
	if len(parts) < 2 {
		return ""
	}

	owner, name := parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || name == "" {
		return ""
	}

	return owner + "/" + name
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"patchup.dev/pkg/patchup/internal/adapter"
	"patchup.dev/pkg/patchup/internal/controller"
	m "patchup.dev/pkg/patchup/internal/model"
)

// changelogPerPage is the release page size used while walking the feed
// for changelog assembly.
const changelogPerPage = 30

// maxChangelogPages caps the walk when the current tag is never found.
const maxChangelogPages = 100

// CheckArgs locates the resource tree and sets the prerelease policy.
type CheckArgs struct {
	Dir               m.Path
	Manifest          string
	IncludePrerelease bool
}

// UpdateArgs drives a full update run.
type UpdateArgs struct {
	CheckArgs

	// StripPrefix is the packaging prefix removed from every diff path.
	StripPrefix string

	// ValidateToken runs a token pre-flight before any fetch.
	ValidateToken bool

	// DryRun stops after fetching and archiving the diff.
	DryRun bool
}

// ApplyArgs drives an offline apply of an already-fetched diff file.
type ApplyArgs struct {
	Dir         m.Path
	DiffFile    m.Path
	StripPrefix string
}

// Updater sequences the update flow: check the manifest against the
// release feed, fetch the diff between the two versions, apply it to the
// tree and advance the manifest version.
type Updater interface {
	Check(ctx context.Context, args CheckArgs) (m.CheckResult, error)
	Changelog(ctx context.Context, args CheckArgs) (string, error)
	Update(ctx context.Context, args UpdateArgs) (m.UpdateResult, error)
	ApplyLocal(ctx context.Context, args ApplyArgs) ([]m.Path, error)
}

type updater struct {
	feed      adapter.ReleaseFeed
	manifests adapter.ManifestStore
	archive   adapter.PatchArchive
	fs        adapter.TreeFS
	applier   Applier
	ui        controller.UI
}

// NewUpdater constructs an Updater from its collaborators.
func NewUpdater(
	feed adapter.ReleaseFeed,
	manifests adapter.ManifestStore,
	archive adapter.PatchArchive,
	fs adapter.TreeFS,
	applier Applier,
	ui controller.UI,
) Updater {
	return &updater{
		feed:      feed,
		manifests: manifests,
		archive:   archive,
		fs:        fs,
		applier:   applier,
		ui:        ui,
	}
}

// Check resolves the latest release tag and reports it against the
// manifest version.
func (u *updater) Check(ctx context.Context, args CheckArgs) (m.CheckResult, error) {
	result, err := u.check(ctx, args)
	if err != nil {
		return m.CheckResult{}, err
	}

	u.ui.DisplayCheck(ctx, result)

	return result, nil
}

func (u *updater) check(ctx context.Context, args CheckArgs) (m.CheckResult, error) {
	manifest, err := u.manifests.Load(u.manifestPath(args))
	if err != nil {
		return m.CheckResult{}, err
	}

	repo := manifest.Repo()
	if repo == "" {
		return m.CheckResult{}, fmt.Errorf("manifest url %q does not identify a repository", manifest.URL)
	}

	latest, err := u.feed.Latest(ctx, repo, args.IncludePrerelease)
	if err != nil {
		return m.CheckResult{}, fmt.Errorf("resolve latest release: %w", err)
	}

	return m.CheckResult{
		Repo:            repo,
		CurrentVersion:  manifest.Version,
		LatestVersion:   latest.Tag,
		UpdateAvailable: latest.Tag != manifest.Version,
	}, nil
}

// Changelog walks the feed newest-first and collects release notes down
// to (but not including) the current version.
func (u *updater) Changelog(ctx context.Context, args CheckArgs) (string, error) {
	manifest, err := u.manifests.Load(u.manifestPath(args))
	if err != nil {
		return "", err
	}

	repo := manifest.Repo()
	if repo == "" {
		return "", fmt.Errorf("manifest url %q does not identify a repository", manifest.URL)
	}

	changelog, err := u.collectChangelog(ctx, repo, manifest.Version, args.IncludePrerelease)
	if err != nil {
		return "", err
	}

	u.ui.DisplayChangelog(ctx, changelog)

	return changelog, nil
}

func (u *updater) collectChangelog(ctx context.Context, repo, current string, includePrerelease bool) (string, error) {
	var entries []string

	// Prereleases are skipped only until the first accepted entry; once
	// the walk has started, every release down to the current tag counts.
	started := false

	for page := 1; page <= maxChangelogPages; page++ {
		releases, err := u.feed.Releases(ctx, repo, page, changelogPerPage)
		if err != nil {
			return "", fmt.Errorf("list releases: %w", err)
		}

		if len(releases) == 0 {
			slog.Warn("current version tag not found in release feed", "tag", current)
			return joinEntries(entries), nil
		}

		for _, release := range releases {
			if release.Tag == current {
				return joinEntries(entries), nil
			}

			if !started && release.Prerelease && !includePrerelease {
				continue
			}

			started = true
			entries = append(entries, fmt.Sprintf("# %s:\n\n%s\n", release.Tag, release.Body))
		}
	}

	return joinEntries(entries), nil
}

func joinEntries(entries []string) string {
	changelog := ""
	for i, entry := range entries {
		if i > 0 {
			changelog += "\n"
		}

		changelog += entry
	}

	return changelog
}

// Update runs the full flow. The manifest version only advances after
// the whole patch set applied successfully, so a failed run is retried
// from the same starting version.
func (u *updater) Update(ctx context.Context, args UpdateArgs) (m.UpdateResult, error) {
	result, err := u.check(ctx, args.CheckArgs)
	if err != nil {
		return m.UpdateResult{}, err
	}

	u.ui.DisplayCheck(ctx, result)

	update := m.UpdateResult{CheckResult: result}

	if !result.UpdateAvailable {
		u.ui.DisplayUpdateResult(ctx, update)
		return update, nil
	}

	if args.ValidateToken {
		if err := u.feed.ValidateToken(ctx); err != nil {
			return m.UpdateResult{}, fmt.Errorf("token validation: %w", err)
		}
	}

	diffText, changelog, err := u.fetchUpdate(ctx, result, args.IncludePrerelease)
	if err != nil {
		return m.UpdateResult{}, err
	}

	update.Changelog = changelog
	u.ui.DisplayChangelog(ctx, changelog)

	// Archiving is best-effort; the apply proceeds from the in-memory text.
	archived, err := u.archive.Save(result.CurrentVersion, result.LatestVersion, diffText)
	if err != nil {
		slog.Warn("failed to archive diff", "error", err)
	} else {
		update.ArchivedDiff = archived
	}

	if args.DryRun {
		update.DryRun = true
		slog.Info("dry run: diff fetched, not applied",
			"from", result.CurrentVersion, "to", result.LatestVersion)
		u.ui.DisplayUpdateResult(ctx, update)

		return update, nil
	}

	set, err := ParseDiff(diffText, WithPathRewrite(StripPrefix(args.StripPrefix)))
	if err != nil {
		return m.UpdateResult{}, err
	}

	if err := u.applier.Apply(ctx, args.Dir, set); err != nil {
		return m.UpdateResult{}, err
	}

	if err := u.manifests.SetVersion(u.manifestPath(args.CheckArgs), result.LatestVersion); err != nil {
		return m.UpdateResult{}, fmt.Errorf("update manifest version: %w", err)
	}

	update.Applied = true
	update.PatchedFiles = patchedPaths(set)

	slog.Info("patch applied successfully",
		"from", result.CurrentVersion, "to", result.LatestVersion, "files", len(set))
	u.ui.DisplayUpdateResult(ctx, update)

	return update, nil
}

// fetchUpdate retrieves the diff text and the changelog concurrently;
// both are independent reads of the feed.
func (u *updater) fetchUpdate(ctx context.Context, check m.CheckResult, includePrerelease bool) (string, string, error) {
	var diffText, changelog string

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		text, err := u.feed.CompareDiff(groupCtx, check.Repo, check.CurrentVersion, check.LatestVersion)
		if err != nil {
			return fmt.Errorf("fetch diff: %w", err)
		}

		diffText = text

		return nil
	})

	group.Go(func() error {
		log, err := u.collectChangelog(groupCtx, check.Repo, check.CurrentVersion, includePrerelease)
		if err != nil {
			return err
		}

		changelog = log

		return nil
	})

	if err := group.Wait(); err != nil {
		return "", "", err
	}

	return diffText, changelog, nil
}

// ApplyLocal parses and applies an already-fetched diff file, for
// resuming from an archived artifact without touching the network.
func (u *updater) ApplyLocal(ctx context.Context, args ApplyArgs) ([]m.Path, error) {
	content, err := u.fs.ReadFile(args.DiffFile)
	if err != nil {
		return nil, fmt.Errorf("read diff file: %w", err)
	}

	set, err := ParseDiff(string(content), WithPathRewrite(StripPrefix(args.StripPrefix)))
	if err != nil {
		return nil, err
	}

	if len(set) == 0 {
		return nil, errors.New("diff file contains no file patches")
	}

	if err := u.applier.Apply(ctx, args.Dir, set); err != nil {
		return nil, err
	}

	return patchedPaths(set), nil
}

func (u *updater) manifestPath(args CheckArgs) m.Path {
	return u.fs.JoinPath(string(args.Dir), args.Manifest)
}

func patchedPaths(set m.PatchSet) []m.Path {
	paths := make([]m.Path, 0, len(set))
	for _, patch := range set {
		paths = append(paths, patch.Path())
	}

	return paths
}

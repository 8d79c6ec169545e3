package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	m "patchup.dev/pkg/patchup/internal/model"
)

// ErrNoRelease is returned when the feed holds no release acceptable
// under the prerelease policy.
var ErrNoRelease = errors.New("no matching release found")

// FeedError reports a non-retryable HTTP failure from the release feed,
// carrying the upstream status and message.
type FeedError struct {
	StatusCode int
	Message    string
}

func (e *FeedError) Error() string {
	label := http.StatusText(e.StatusCode)

	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return fmt.Sprintf("%s: %d - %s", label, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("HTTP error occurred with status code: %d", e.StatusCode)
	}
}

// ReleaseFeed abstracts the remote release feed the updater consumes:
// version listing, latest-tag resolution and raw diff retrieval. Retry
// policy for transient failures lives behind this interface, not in the
// patch engine.
type ReleaseFeed interface {
	// Releases returns one page of the repository's releases, newest first.
	Releases(ctx context.Context, repo string, page, perPage int) ([]m.Release, error)

	// Latest resolves the newest release tag, skipping prereleases unless
	// includePrerelease is set.
	Latest(ctx context.Context, repo string, includePrerelease bool) (m.Release, error)

	// CompareDiff fetches the raw unified-diff text between two version tags.
	CompareDiff(ctx context.Context, repo, from, to string) (string, error)

	// ValidateToken checks that the configured API token is accepted.
	ValidateToken(ctx context.Context) error
}

const (
	githubBaseURL = "https://api.github.com"

	// maxFeedPages caps release pagination.
	maxFeedPages = 100

	latestPerPage = 5

	retryAttempts = 5
)

// GitHubFeed implements ReleaseFeed against the GitHub REST API.
type GitHubFeed struct {
	baseURL string
	token   string
	client  *http.Client

	// retryDelay is the backoff unit between retries of 502/503/504
	// responses; tests shrink it.
	retryDelay time.Duration
}

// GitHubOption configures a GitHubFeed.
type GitHubOption func(*GitHubFeed)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) GitHubOption {
	return func(f *GitHubFeed) {
		f.token = token
	}
}

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(base string) GitHubOption {
	return func(f *GitHubFeed) {
		f.baseURL = base
	}
}

// WithRetryDelay overrides the backoff unit between retries.
func WithRetryDelay(delay time.Duration) GitHubOption {
	return func(f *GitHubFeed) {
		f.retryDelay = delay
	}
}

// NewGitHubFeed constructs a GitHubFeed ready to be wired into the
// updater.
func NewGitHubFeed(opts ...GitHubOption) *GitHubFeed {
	feed := &GitHubFeed{
		baseURL:    githubBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		retryDelay: time.Second,
	}

	for _, opt := range opts {
		opt(feed)
	}

	return feed
}

// Releases returns one page of the repository's releases, newest first.
func (f *GitHubFeed) Releases(ctx context.Context, repo string, page, perPage int) ([]m.Release, error) {
	query := url.Values{}
	query.Set("page", fmt.Sprintf("%d", page))
	query.Set("per_page", fmt.Sprintf("%d", perPage))

	body, err := f.get(ctx, fmt.Sprintf("%s/repos/%s/releases?%s", f.baseURL, repo, query.Encode()))
	if err != nil {
		return nil, err
	}

	var entries []struct {
		TagName    string `json:"tag_name"`
		Prerelease bool   `json:"prerelease"`
		Body       string `json:"body"`
	}

	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode releases page %d: %w", page, err)
	}

	releases := make([]m.Release, 0, len(entries))
	for _, entry := range entries {
		releases = append(releases, m.Release{
			Tag:        entry.TagName,
			Prerelease: entry.Prerelease,
			Body:       entry.Body,
		})
	}

	return releases, nil
}

// Latest resolves the newest release tag under the prerelease policy.
func (f *GitHubFeed) Latest(ctx context.Context, repo string, includePrerelease bool) (m.Release, error) {
	for page := 1; page <= maxFeedPages; page++ {
		releases, err := f.Releases(ctx, repo, page, latestPerPage)
		if err != nil {
			return m.Release{}, err
		}

		if len(releases) == 0 {
			break
		}

		for _, release := range releases {
			if release.Prerelease && !includePrerelease {
				continue
			}

			return release, nil
		}
	}

	return m.Release{}, ErrNoRelease
}

// CompareDiff fetches the compare endpoint for the two tags and follows
// its diff_url to the raw unified-diff text.
func (f *GitHubFeed) CompareDiff(ctx context.Context, repo, from, to string) (string, error) {
	body, err := f.get(ctx, fmt.Sprintf("%s/repos/%s/compare/%s...%s", f.baseURL, repo, from, to))
	if err != nil {
		return "", err
	}

	var compare struct {
		DiffURL string `json:"diff_url"`
	}

	if err := json.Unmarshal(body, &compare); err != nil {
		return "", fmt.Errorf("decode compare response: %w", err)
	}

	if compare.DiffURL == "" {
		return "", errors.New("failed to retrieve the diff URL from the response")
	}

	diff, err := f.get(ctx, compare.DiffURL)
	if err != nil {
		return "", err
	}

	return string(diff), nil
}

// ValidateToken checks the configured token against the user endpoint.
func (f *GitHubFeed) ValidateToken(ctx context.Context) error {
	if _, err := f.get(ctx, f.baseURL+"/user"); err != nil {
		return err
	}

	slog.Info("token is valid")

	return nil
}

// get performs one GET with auth headers, retrying transient gateway
// failures (502/503/504) with linear backoff.
func (f *GitHubFeed) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastStatus int

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/vnd.github+json")
		if f.token != "" {
			req.Header.Set("Authorization", "Bearer "+f.token)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", rawURL, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if readErr != nil {
			return nil, fmt.Errorf("read response from %s: %w", rawURL, readErr)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil
		case isTransient(resp.StatusCode):
			lastStatus = resp.StatusCode
			slog.Warn("transient feed failure, retrying",
				"url", rawURL, "status", resp.StatusCode, "attempt", attempt)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * f.retryDelay):
			}
		default:
			return nil, &FeedError{
				StatusCode: resp.StatusCode,
				Message:    apiMessage(body),
			}
		}
	}

	return nil, &FeedError{StatusCode: lastStatus, Message: "retries exhausted"}
}

func isTransient(status int) bool {
	return status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout
}

// apiMessage extracts the "message" field GitHub error payloads carry.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	return payload.Message
}

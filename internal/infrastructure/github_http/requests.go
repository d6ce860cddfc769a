// Package github_http polls GitHub Actions workflow runs and handles
// the OAuth device flow for first-time token acquisition.
package github_http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
)

const (
	DefaultAPIBaseURL = "https://api.github.com"
	DefaultWebBaseURL = "https://github.com"

	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"

	// Only the latest run matters, so keep the page small.
	runsPageSize = "3"
)

// FeedURL returns the workflow-runs endpoint for a workflow file.
func FeedURL(apiBase, owner, repo, workflow string) string {
	return fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/runs", apiBase, owner, repo, workflow)
}

// RequestForFeed builds the GET request for a workflow-runs feed URL.
// The bearer header is attached only when a token is supplied.
func RequestForFeed(ctx context.Context, feedURL, token string) (*http.Request, error) {
	u, err := url.Parse(feedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, feedhttp.ErrInvalidURL
	}
	q := u.Query()
	q.Set("per_page", runsPageSize)
	u.RawQuery = q.Encode()

	return makeRequest(ctx, http.MethodGet, u.String(), token)
}

// RequestForWorkflows builds the request listing a repository's
// workflows, used when adding a pipeline.
func RequestForWorkflows(ctx context.Context, apiBase, owner, repo, token string) (*http.Request, error) {
	u, err := url.Parse(fmt.Sprintf("%s/repos/%s/%s/actions/workflows", apiBase, owner, repo))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, feedhttp.ErrInvalidURL
	}
	q := u.Query()
	q.Set("per_page", "100")
	u.RawQuery = q.Encode()

	return makeRequest(ctx, http.MethodGet, u.String(), token)
}

func makeRequest(ctx context.Context, method, rawURL, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, feedhttp.ErrInvalidURL
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("Cache-Control", "no-cache")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

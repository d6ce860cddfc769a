package github_http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
)

// ServiceName keys credential lookup for workflow-style servers.
const ServiceName = "github"

// Reader polls one GitHub Actions workflow per pipeline.
type Reader struct {
	client *http.Client
	creds  domain.CredentialStore
}

func NewReader(client *http.Client, creds domain.CredentialStore) *Reader {
	return &Reader{client: client, creds: creds}
}

func (r *Reader) Poll(ctx context.Context, p domain.Pipeline) domain.Pipeline {
	if p.Feed.PauseActive(time.Now()) {
		return p
	}
	p.Feed.ClearPause()

	var token string
	if c, ok := r.creds.Credential(ServiceName); ok {
		token = c.Secret
	}

	req, err := RequestForFeed(ctx, p.Feed.URL, token)
	if err != nil {
		return feedhttp.Fail(p, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return feedhttp.Fail(p, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := feedhttp.CheckRateLimit(resp); err != nil {
		return feedhttp.Fail(p, err)
	}
	if resp.StatusCode != http.StatusOK {
		return feedhttp.Fail(p, &feedhttp.StatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return feedhttp.Fail(p, err)
	}
	runs, err := ParseRuns(body)
	if err != nil {
		return feedhttp.Fail(p, err)
	}

	status := StatusFromRuns(runs)
	if status == nil {
		return feedhttp.Fail(p, feedhttp.ErrNoStatus)
	}
	return feedhttp.Succeed(p, *status)
}

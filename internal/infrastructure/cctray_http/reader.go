package cctray_http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
)

// ServiceName keys credential lookup for feed-style servers.
const ServiceName = "cctray"

// Reader polls one CCTray feed per pipeline. It operates on a value
// copy and returns a new value; all failure is folded into the result.
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

	var cred *domain.Credential
	if c, ok := r.creds.Credential(ServiceName); ok {
		cred = &c
	}

	req, err := RequestForFeed(ctx, p.Feed.URL, cred)
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
	projects, err := ParseProjects(body)
	if err != nil {
		return feedhttp.Fail(p, err)
	}

	target := p.Feed.Project
	if target == "" {
		target = p.Name
	}
	for _, proj := range projects {
		if proj.Name == target {
			return feedhttp.Succeed(p, proj.Status())
		}
	}
	return feedhttp.Fail(p, feedhttp.ErrNoStatus)
}

// Package cctray_http polls CCTray-style XML feeds (Jenkins, GoCD,
// CruiseControl and friends) and discovers feed endpoints from a bare
// server URL.
package cctray_http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
)

// RequestForFeed builds the GET request for a feed URL. Basic auth is
// attached when a credential is supplied. The cache directive forces
// intermediaries to revalidate so a stale body is never served.
func RequestForFeed(ctx context.Context, feedURL string, cred *domain.Credential) (*http.Request, error) {
	u, err := url.Parse(feedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, feedhttp.ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, feedhttp.ErrInvalidURL
	}
	req.Header.Set("Cache-Control", "no-cache")
	if cred != nil && cred.User != "" {
		req.SetBasicAuth(cred.User, cred.Secret)
	}
	return req, nil
}

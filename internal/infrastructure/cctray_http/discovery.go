package cctray_http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
)

// feedPaths are the well-known feed locations probed in order when the
// user-supplied URL has no file extension.
var feedPaths = []string{
	"/cctray.xml",
	"/dashboard/cctray.xml",
	"/go/cctray.xml",
	"/cc.xml",
	"/hudson/cc.xml",
	"/xml",
	"/XmlStatusReport.aspx",
	"/ccnet/XmlStatusReport.aspx",
}

// Discovery locates the actual feed endpoint behind a bare server URL
// and enumerates its projects. Used once, when a pipeline is added.
type Discovery struct {
	client *http.Client
	creds  domain.CredentialStore
}

func NewDiscovery(client *http.Client, creds domain.CredentialStore) *Discovery {
	return &Discovery{client: client, creds: creds}
}

// Discover probes the candidate URLs in order and returns the resolved
// feed URL together with its project list. The probe always terminates
// with some URL and result: if no candidate yields a valid project
// list, the first candidate's result is returned as the best effort.
//
// A candidate that connects but reports zero projects ends the probe
// ("empty feed" is terminal, not a reason to keep looking); a transport
// or parse failure moves on to the next candidate.
func (d *Discovery) Discover(ctx context.Context, userURL string) (string, []domain.DiscoveredProject) {
	normalized := addSchemeIfNecessary(userURL)
	base, err := url.Parse(normalized)
	if err != nil || base.Host == "" {
		return normalized, []domain.DiscoveredProject{{Message: "The URL is invalid."}}
	}

	var cred *domain.Credential
	if c, ok := d.creds.Credential(ServiceName); ok {
		cred = &c
	}

	candidates := candidateURLs(base)
	var firstResult []domain.DiscoveredProject
	for _, candidate := range candidates {
		projects, err := d.fetchProjects(ctx, candidate, cred)
		if err != nil {
			// transport or request failure: placeholder, try the next candidate
			projects = []domain.DiscoveredProject{{Message: err.Error()}}
		} else if len(projects) == 0 {
			// connected but empty feed: terminal, do not keep probing
			return candidate, []domain.DiscoveredProject{{}}
		} else if projects[0].IsValid {
			return candidate, projects
		}
		if firstResult == nil {
			firstResult = projects
		}
	}
	return candidates[0], firstResult
}

func addSchemeIfNecessary(userURL string) string {
	if !strings.HasPrefix(userURL, "http://") && !strings.HasPrefix(userURL, "https://") {
		return "http://" + userURL
	}
	return userURL
}

func candidateURLs(base *url.URL) []string {
	list := []string{base.String()}
	if path.Ext(base.Path) == "" {
		for _, p := range feedPaths {
			u := *base
			u.Path = strings.TrimSuffix(u.Path, "/") + p
			list = append(list, u.String())
		}
	}
	return list
}

// fetchProjects issues one probe. A non-200 response or an unparseable
// body is reported as an unresolved placeholder entry, not an error;
// only transport failure returns an error to the caller.
func (d *Discovery) fetchProjects(ctx context.Context, feedURL string, cred *domain.Credential) ([]domain.DiscoveredProject, error) {
	req, err := RequestForFeed(ctx, feedURL, cred)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		se := &feedhttp.StatusError{Code: resp.StatusCode}
		return []domain.DiscoveredProject{{Message: se.Error()}}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	projects, err := ParseProjects(body)
	if err != nil {
		return []domain.DiscoveredProject{{Message: "The feed is not a valid XML document."}}, nil
	}

	list := make([]domain.DiscoveredProject, 0, len(projects))
	for _, p := range projects {
		if p.Name == "" {
			continue
		}
		list = append(list, domain.DiscoveredProject{Name: p.Name, IsValid: true})
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

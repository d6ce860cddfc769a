package cctray_http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func newTestDiscovery() *Discovery {
	return NewDiscovery(&http.Client{Timeout: 2 * time.Second}, &domain.MockCredentialStore{})
}

func TestDiscover_AcceptsFirstCandidateWithValidProjects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cctray.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<Projects><Project name='zulu' activity='Sleeping' lastBuildStatus='Success'/><Project name='Alpha' activity='Sleeping' lastBuildStatus='Success'/></Projects>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url, projects := newTestDiscovery().Discover(context.Background(), srv.URL)

	assert.Equal(t, srv.URL+"/cctray.xml", url)
	require.Len(t, projects, 2)
	assert.True(t, projects[0].IsValid)
	// sorted case-insensitively
	assert.Equal(t, "Alpha", projects[0].Name)
	assert.Equal(t, "zulu", projects[1].Name)
}

func TestDiscover_EmptyFeedIsTerminal(t *testing.T) {
	var hits []string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		if r.URL.Path == "/cctray.xml" {
			_, _ = w.Write([]byte(`<Projects/>`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url, projects := newTestDiscovery().Discover(context.Background(), srv.URL)

	assert.Equal(t, srv.URL+"/cctray.xml", url)
	require.Len(t, projects, 1)
	assert.False(t, projects[0].IsValid)
	assert.Empty(t, projects[0].Name)
	// probing stopped at the empty feed, later well-known paths untouched
	assert.NotContains(t, hits, "/dashboard/cctray.xml")
}

func TestDiscover_SkipsFailingCandidateThenAcceptsValidOne(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/dashboard/cctray.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<Projects><Project name='x' activity='Sleeping' lastBuildStatus='Success'/></Projects>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url, projects := newTestDiscovery().Discover(context.Background(), srv.URL)

	assert.Equal(t, srv.URL+"/dashboard/cctray.xml", url)
	require.Len(t, projects, 1)
	assert.True(t, projects[0].IsValid)
	assert.Equal(t, "x", projects[0].Name)
}

func TestDiscover_UnparseableBodyThenValidCandidate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("")) // blank body, not a valid document
	})
	mux.HandleFunc("/cctray.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<Projects><Project name='x' activity='Sleeping' lastBuildStatus='Success'/></Projects>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url, projects := newTestDiscovery().Discover(context.Background(), srv.URL)

	assert.Equal(t, srv.URL+"/cctray.xml", url)
	require.Len(t, projects, 1)
	assert.Equal(t, "x", projects[0].Name)
	assert.True(t, projects[0].IsValid)
}

func TestDiscover_AllFailingReturnsFirstCandidateResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	url, projects := newTestDiscovery().Discover(context.Background(), srv.URL)

	// first candidate is the URL as given
	assert.Equal(t, srv.URL, url)
	require.Len(t, projects, 1)
	assert.False(t, projects[0].IsValid)
	assert.Contains(t, projects[0].Message, "403")
}

func TestDiscover_UnreachableServerStillTerminates(t *testing.T) {
	url, projects := newTestDiscovery().Discover(context.Background(), "http://127.0.0.1:1")

	assert.Equal(t, "http://127.0.0.1:1", url)
	require.Len(t, projects, 1)
	assert.False(t, projects[0].IsValid)
	assert.NotEmpty(t, projects[0].Message)
}

func TestDiscover_SchemeIsPrepended(t *testing.T) {
	url, _ := newTestDiscovery().Discover(context.Background(), "localhost:1")
	assert.Equal(t, "http://localhost:1", url)
}

func TestDiscover_ExplicitExtensionSkipsWellKnownPaths(t *testing.T) {
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, _ = newTestDiscovery().Discover(context.Background(), srv.URL+"/custom/feed.xml")

	assert.Equal(t, []string{"/custom/feed.xml"}, hits)
}

func TestCandidateURLs_OrderIsFixed(t *testing.T) {
	base := mustParse(t, "http://ci.example.com")
	urls := candidateURLs(base)

	require.Len(t, urls, 9)
	assert.Equal(t, "http://ci.example.com", urls[0])
	assert.Equal(t, "http://ci.example.com/cctray.xml", urls[1])
	assert.Equal(t, "http://ci.example.com/dashboard/cctray.xml", urls[2])
	assert.Equal(t, "http://ci.example.com/ccnet/XmlStatusReport.aspx", urls[8])
}

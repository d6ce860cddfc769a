// Package feedhttp holds what the two feed readers share: the tuned
// HTTP client, the error taxonomy for classifying poll outcomes, and
// the status degradation rule applied on any failure.
package feedhttp

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
)

// NewClient returns an HTTP client with explicit dial and handshake
// timeouts and a modest idle pool. Requests built by the feed packages
// carry Cache-Control: no-cache so intermediaries must revalidate.
func NewClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{Transport: tr, Timeout: timeout}
}

// ErrInvalidURL means the feed URL could not be turned into a request.
var ErrInvalidURL = errors.New("invalid URL")

// ErrMalformedDocument means the body was not well-formed for the
// feed's format. Distinct from a well-formed document with no entries.
var ErrMalformedDocument = errors.New("the response is not a valid document")

// ErrNoStatus means the response parsed but the target project or
// workflow was absent from it.
var ErrNoStatus = errors.New("no status available for this pipeline")

// StatusError is a non-200 response without rate-limit semantics.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.Code)
	if text == "" {
		text = "unexpected status"
	}
	return fmt.Sprintf("%d %s", e.Code, text)
}

// RateLimitError is a 403/429 whose headers say the quota is exhausted.
// It pauses polling instead of surfacing as a hard failure.
type RateLimitError struct {
	ResetAt int64 // epoch seconds
}

func (e *RateLimitError) Error() string {
	at := time.Unix(e.ResetAt, 0).Format("15:04")
	return fmt.Sprintf("rate limit exceeded, next poll at %s", at)
}

// CheckRateLimit inspects a 403/429 response. It returns a
// RateLimitError when the remaining-count header is present and zero
// and the reset header parses; otherwise a plain StatusError.
func CheckRateLimit(resp *http.Response) error {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	remaining := resp.Header.Get("x-ratelimit-remaining")
	if n, err := strconv.Atoi(remaining); err != nil || n != 0 {
		return &StatusError{Code: resp.StatusCode}
	}
	reset, err := strconv.ParseInt(resp.Header.Get("x-ratelimit-reset"), 10, 64)
	if err != nil {
		return &StatusError{Code: resp.StatusCode}
	}
	return &RateLimitError{ResetAt: reset}
}

// Degrade is the status applied on any poll failure: activity is forced
// to other, the last known completed build is kept, and any in-progress
// build is dropped because only a building pipeline may carry one.
func Degrade(prev domain.Status) domain.Status {
	return domain.Status{
		Activity:  domain.ActivityOther,
		LastBuild: prev.LastBuild,
	}
}

// Fail folds an error into the pipeline per the shared reader contract:
// rate limits pause the feed, everything else just reports, and the
// status degrades either way.
func Fail(p domain.Pipeline, err error) domain.Pipeline {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		p.Feed.SetPauseUntil(rle.ResetAt)
	}
	p.ConnectionError = err.Error()
	p.Status = Degrade(p.Status)
	return p
}

// Succeed installs a freshly parsed status and clears the error.
func Succeed(p domain.Pipeline, s domain.Status) domain.Pipeline {
	p.Status = s
	p.ConnectionError = ""
	return p
}

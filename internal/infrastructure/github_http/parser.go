package github_http

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
)

type runsResponse struct {
	TotalCount   int   `json:"total_count"`
	WorkflowRuns []Run `json:"workflow_runs"`
}

// Run is one workflow run record. Conclusion is only set once Status
// is "completed".
type Run struct {
	ID           int64     `json:"id"`
	Status       string    `json:"status"`
	Conclusion   string    `json:"conclusion"`
	RunNumber    int       `json:"run_number"`
	RunStartedAt time.Time `json:"run_started_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	HTMLURL      string    `json:"html_url"`
}

func (r Run) startedAt() time.Time {
	if !r.RunStartedAt.IsZero() {
		return r.RunStartedAt
	}
	return r.CreatedAt
}

func (r Run) completed() bool {
	return r.Status == "completed"
}

// ParseRuns parses a workflow-runs response body. A well-formed body
// with no runs yields an empty, non-nil slice.
func ParseRuns(data []byte) ([]Run, error) {
	var resp runsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, feedhttp.ErrMalformedDocument
	}
	if resp.WorkflowRuns == nil {
		return []Run{}, nil
	}
	return resp.WorkflowRuns, nil
}

// StatusFromRuns projects the run list onto a Status. The newest run by
// start time decides the activity; the newest completed run becomes the
// last build. Returns nil when there are no runs at all.
func StatusFromRuns(runs []Run) *domain.Status {
	if len(runs) == 0 {
		return nil
	}

	newest := runs[0]
	for _, r := range runs[1:] {
		if r.startedAt().After(newest.startedAt()) {
			newest = r
		}
	}

	s := &domain.Status{}
	if newest.completed() {
		s.Activity = domain.ActivitySleeping
	} else {
		s.Activity = domain.ActivityBuilding
		s.CurrentBuild = &domain.Build{
			Result:    domain.ResultUnknown,
			Label:     label(newest),
			Timestamp: newest.startedAt(),
		}
	}

	var lastCompleted *Run
	for i := range runs {
		r := &runs[i]
		if !r.completed() {
			continue
		}
		if lastCompleted == nil || r.startedAt().After(lastCompleted.startedAt()) {
			lastCompleted = r
		}
	}
	if lastCompleted != nil {
		s.LastBuild = buildFromRun(*lastCompleted)
	}
	return s
}

func buildFromRun(r Run) *domain.Build {
	b := &domain.Build{
		Result:    mapConclusion(r.Conclusion),
		Label:     label(r),
		Timestamp: r.startedAt(),
	}
	if !r.UpdatedAt.IsZero() && !r.startedAt().IsZero() {
		if d := int64(r.UpdatedAt.Sub(r.startedAt()).Seconds()); d >= 0 {
			b.Duration = d
		}
	}
	return b
}

func label(r Run) string {
	if r.RunNumber == 0 {
		return ""
	}
	return strconv.Itoa(r.RunNumber)
}

func mapConclusion(s string) domain.BuildResult {
	switch s {
	case "success":
		return domain.ResultSuccess
	case "failure":
		return domain.ResultFailure
	default:
		return domain.ResultUnknown
	}
}

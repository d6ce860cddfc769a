package domain

import (
	"strings"
	"time"
)

type FeedType string

const (
	FeedTypeCCTray FeedType = "cctray"
	FeedTypeGitHub FeedType = "github"
)

type Activity string

const (
	ActivitySleeping Activity = "sleeping"
	ActivityBuilding Activity = "building"
	ActivityOther    Activity = "other"
)

type BuildResult string

const (
	ResultSuccess BuildResult = "success"
	ResultFailure BuildResult = "failure"
	ResultUnknown BuildResult = "unknown"
)

// Feed describes where a pipeline's status comes from. Identity is
// (Type, URL, Project) only; PauseUntil is mutable scheduling state
// and never participates in equality.
type Feed struct {
	Type    FeedType
	URL     string
	Project string // cctray only: project name within the feed

	PauseUntil int64 // epoch seconds; 0 means not paused
}

func (f Feed) Equal(other Feed) bool {
	return f.Type == other.Type && f.URL == other.URL && f.Project == other.Project
}

// PauseActive reports whether polling should be skipped at the given time.
func (f Feed) PauseActive(now time.Time) bool {
	return f.PauseUntil > 0 && now.Unix() < f.PauseUntil
}

func (f *Feed) SetPauseUntil(epochSeconds int64) {
	f.PauseUntil = epochSeconds
}

func (f *Feed) ClearPause() {
	f.PauseUntil = 0
}

// Build is one build execution. Zero Timestamp and zero Duration mean
// the server did not report them.
type Build struct {
	Result    BuildResult
	Label     string
	Timestamp time.Time
	Duration  int64 // seconds
}

// Status is a point-in-time snapshot. CurrentBuild is only set while
// Activity is ActivityBuilding.
type Status struct {
	Activity     Activity
	LastBuild    *Build
	CurrentBuild *Build
}

func (s Status) HasEverBuilt() bool {
	return s.LastBuild != nil
}

// Pipeline is one monitored build line. ID is the stable identity used
// for list diffing; Name is the user-facing label. Readers receive a
// value copy and return an updated value, they never share state.
type Pipeline struct {
	ID              string
	Name            string
	Feed            Feed
	Status          Status
	ConnectionError string
}

// DiscoveredProject is a transient result row during feed discovery.
// Until a real server response resolves it, IsValid is false and
// Message carries placeholder or error text.
type DiscoveredProject struct {
	Name    string
	IsValid bool
	Message string
}

// Summary aggregates the pipeline set for external display surfaces.
type Summary struct {
	Total     int   `json:"total"`
	Failures  int   `json:"failures"`
	Building  bool  `json:"building"`
	Fixing    bool  `json:"fixing"`
	Errors    int   `json:"errors"`
	Retrieved int64 `json:"retrieved"`
}

// Summarize derives the aggregate view: failure count over pipelines
// that have built, whether anything is building, and whether a broken
// pipeline is being rebuilt ("fixing").
func Summarize(pipelines []Pipeline, now time.Time) Summary {
	s := Summary{Total: len(pipelines), Retrieved: now.Unix()}
	for _, p := range pipelines {
		if p.ConnectionError != "" {
			s.Errors++
		}
		if p.Status.Activity == ActivityBuilding {
			s.Building = true
		}
		if lb := p.Status.LastBuild; lb != nil && lb.Result == ResultFailure {
			s.Failures++
			if p.Status.Activity == ActivityBuilding {
				s.Fixing = true
			}
		}
	}
	return s
}

// FindByID returns the index of the pipeline with the given identity,
// or -1.
func FindByID(pipelines []Pipeline, id string) int {
	for i := range pipelines {
		if pipelines[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByNameOrID matches a pipeline by ID first, then by
// case-insensitive name.
func FindByNameOrID(pipelines []Pipeline, key string) int {
	if i := FindByID(pipelines, key); i >= 0 {
		return i
	}
	for i := range pipelines {
		if strings.EqualFold(pipelines[i].Name, key) {
			return i
		}
	}
	return -1
}

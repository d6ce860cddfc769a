package cctray_http

import (
	"encoding/xml"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
)

// Project is one project element from a feed document. Attribute names
// follow the CCTray specification; unknown attributes are ignored by
// the decoder.
type Project struct {
	Name                  string `xml:"name,attr"`
	Activity              string `xml:"activity,attr"`
	LastBuildStatus       string `xml:"lastBuildStatus,attr"`
	LastBuildLabel        string `xml:"lastBuildLabel,attr"`
	LastBuildTime         string `xml:"lastBuildTime,attr"`
	CurrentBuildStartTime string `xml:"currentBuildStartTime,attr"`
	WebURL                string `xml:"webUrl,attr"`
}

type projectsDoc struct {
	Projects []Project `xml:"Project"`
}

// ParseProjects parses a feed document into its project elements. A
// well-formed document with no projects yields an empty, non-nil slice;
// a body that is not well-formed XML yields ErrMalformedDocument.
func ParseProjects(data []byte) ([]Project, error) {
	var doc projectsDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, feedhttp.ErrMalformedDocument
	}
	if doc.Projects == nil {
		return []Project{}, nil
	}
	return doc.Projects, nil
}

// Status projects the element onto the canonical model. Missing
// optional attributes leave the corresponding Build fields zero.
func (p Project) Status() domain.Status {
	s := domain.Status{Activity: mapActivity(p.Activity)}

	if p.LastBuildStatus != "" || p.LastBuildLabel != "" || p.LastBuildTime != "" {
		b := &domain.Build{Result: mapResult(p.LastBuildStatus), Label: p.LastBuildLabel}
		if ts, ok := parseServerTime(p.LastBuildTime); ok {
			b.Timestamp = ts
		}
		s.LastBuild = b
	}

	if s.Activity == domain.ActivityBuilding {
		b := &domain.Build{Result: domain.ResultUnknown}
		if ts, ok := parseServerTime(p.CurrentBuildStartTime); ok {
			b.Timestamp = ts
		}
		s.CurrentBuild = b
	}
	return s
}

func mapActivity(s string) domain.Activity {
	switch s {
	case "Sleeping":
		return domain.ActivitySleeping
	case "Building":
		return domain.ActivityBuilding
	case "CheckingModifications":
		return domain.ActivitySleeping
	default:
		return domain.ActivityOther
	}
}

func mapResult(s string) domain.BuildResult {
	switch s {
	case "Success":
		return domain.ResultSuccess
	case "Failure":
		return domain.ResultFailure
	default:
		return domain.ResultUnknown
	}
}

// Servers report lastBuildTime in ISO-ish local or zoned forms.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseServerTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

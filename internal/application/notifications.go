package application

import (
	"github.com/ccwatch/ccwatch/internal/domain"
)

type EventKind string

const (
	EventBuildStarted   EventKind = "started"
	EventBuildSucceeded EventKind = "succeeded"
	EventBuildBroken    EventKind = "broken"
	EventBuildFixed     EventKind = "fixed"
	EventStillFailing   EventKind = "still failing"
)

// Event is one user-visible build transition for a pipeline.
type Event struct {
	Pipeline domain.Pipeline
	Kind     EventKind
}

// DeriveEvents compares consecutive snapshots of the pipeline list and
// returns the build transitions that happened in between. Pipelines are
// matched by identity; list order of `after` is kept.
func DeriveEvents(before, after []domain.Pipeline) []Event {
	var events []Event
	for _, cur := range after {
		i := domain.FindByID(before, cur.ID)
		if i < 0 {
			continue
		}
		prev := before[i]

		if prev.Status.Activity != domain.ActivityBuilding && cur.Status.Activity == domain.ActivityBuilding {
			events = append(events, Event{Pipeline: cur, Kind: EventBuildStarted})
		}
		if kind, ok := finishKind(prev.Status, cur.Status); ok {
			events = append(events, Event{Pipeline: cur, Kind: kind})
		}
	}
	return events
}

// finishKind reports the transition when a new completed build appeared
// in cur relative to prev.
func finishKind(prev, cur domain.Status) (EventKind, bool) {
	lb := cur.LastBuild
	if lb == nil || sameBuild(prev.LastBuild, lb) {
		return "", false
	}
	wasBroken := prev.LastBuild != nil && prev.LastBuild.Result == domain.ResultFailure
	switch lb.Result {
	case domain.ResultSuccess:
		if wasBroken {
			return EventBuildFixed, true
		}
		return EventBuildSucceeded, true
	case domain.ResultFailure:
		if wasBroken {
			return EventStillFailing, true
		}
		return EventBuildBroken, true
	default:
		return "", false
	}
}

func sameBuild(a, b *domain.Build) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Label == b.Label && a.Timestamp.Equal(b.Timestamp) && a.Result == b.Result
}

// Title renders the notification headline for an event.
func Title(e Event) string {
	switch e.Kind {
	case EventBuildStarted:
		return "🔨 " + e.Pipeline.Name + ": build started"
	case EventBuildSucceeded:
		return "✅ " + e.Pipeline.Name + ": build succeeded"
	case EventBuildFixed:
		return "🎉 " + e.Pipeline.Name + ": build fixed"
	case EventBuildBroken:
		return "❌ " + e.Pipeline.Name + ": build broken"
	case EventStillFailing:
		return "🔴 " + e.Pipeline.Name + ": still failing"
	default:
		return e.Pipeline.Name
	}
}

// Body renders the notification detail line.
func Body(e Event) string {
	if lb := e.Pipeline.Status.LastBuild; lb != nil && lb.Label != "" && e.Kind != EventBuildStarted {
		return "Build " + lb.Label
	}
	return ""
}

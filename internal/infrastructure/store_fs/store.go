// Package store_fs persists the pipeline list as a JSON file. The file
// is the single source of truth for which pipelines are monitored; the
// core only consumes and produces Pipeline values.
package store_fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/pkg/errors"
)

type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

func (s *Store) Path() string { return s.path }

type buildDTO struct {
	Result    string `json:"result"`
	Label     string `json:"label,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Duration  int64  `json:"duration,omitempty"`
}

type statusDTO struct {
	Activity     string    `json:"activity"`
	LastBuild    *buildDTO `json:"lastBuild,omitempty"`
	CurrentBuild *buildDTO `json:"currentBuild,omitempty"`
}

type feedDTO struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	ProjectName string `json:"projectName,omitempty"`
	PauseUntil  int64  `json:"pauseUntil,omitempty"`
}

type pipelineDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Feed            feedDTO   `json:"feed"`
	Status          statusDTO `json:"status"`
	ConnectionError string    `json:"connectionError,omitempty"`
}

// Load reads the pipeline list. A missing file yields an empty list.
func (s *Store) Load() ([]domain.Pipeline, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Pipeline{}, nil
		}
		return nil, errors.Wrapf(err, "cannot read pipeline list %s", s.path)
	}

	var dtos []pipelineDTO
	if err := json.Unmarshal(b, &dtos); err != nil {
		return nil, errors.Wrapf(err, "cannot parse pipeline list %s", s.path)
	}

	out := make([]domain.Pipeline, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, fromDTO(d))
	}
	return out, nil
}

// Save writes the list atomically (tmp file + rename) under an advisory
// lock, so concurrent CLI invocations cannot interleave writes.
func (s *Store) Save(pipelines []domain.Pipeline) error {
	if s.path == "" {
		return errors.New("empty pipeline list path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "cannot create pipeline list directory")
	}

	lf, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return errors.Wrap(err, "cannot open lock file")
	}
	defer func() { _ = lf.Close() }()

	if runtime.GOOS != "windows" {
		if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
			return errors.Wrap(err, "cannot lock pipeline list")
		}
		defer func() { _ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN) }()
	}

	dtos := make([]pipelineDTO, 0, len(pipelines))
	for _, p := range pipelines {
		dtos = append(dtos, toDTO(p))
	}
	b, err := json.MarshalIndent(dtos, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode pipeline list")
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "cannot create temp file")
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return errors.Wrap(err, "cannot write pipeline list")
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(err, "cannot sync pipeline list")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "cannot replace pipeline list")
}

func toDTO(p domain.Pipeline) pipelineDTO {
	return pipelineDTO{
		ID:   p.ID,
		Name: p.Name,
		Feed: feedDTO{
			Type:        string(p.Feed.Type),
			URL:         p.Feed.URL,
			ProjectName: p.Feed.Project,
			PauseUntil:  p.Feed.PauseUntil,
		},
		Status: statusDTO{
			Activity:     string(p.Status.Activity),
			LastBuild:    buildToDTO(p.Status.LastBuild),
			CurrentBuild: buildToDTO(p.Status.CurrentBuild),
		},
		ConnectionError: p.ConnectionError,
	}
}

func fromDTO(d pipelineDTO) domain.Pipeline {
	return domain.Pipeline{
		ID:   d.ID,
		Name: d.Name,
		Feed: domain.Feed{
			Type:       domain.FeedType(d.Feed.Type),
			URL:        d.Feed.URL,
			Project:    d.Feed.ProjectName,
			PauseUntil: d.Feed.PauseUntil,
		},
		Status: domain.Status{
			Activity:     domain.Activity(d.Status.Activity),
			LastBuild:    buildFromDTO(d.Status.LastBuild),
			CurrentBuild: buildFromDTO(d.Status.CurrentBuild),
		},
		ConnectionError: d.ConnectionError,
	}
}

func buildToDTO(b *domain.Build) *buildDTO {
	if b == nil {
		return nil
	}
	d := &buildDTO{Result: string(b.Result), Label: b.Label, Duration: b.Duration}
	if !b.Timestamp.IsZero() {
		d.Timestamp = b.Timestamp.Format(time.RFC3339)
	}
	return d
}

func buildFromDTO(d *buildDTO) *domain.Build {
	if d == nil {
		return nil
	}
	b := &domain.Build{Result: domain.BuildResult(d.Result), Label: d.Label, Duration: d.Duration}
	if d.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, d.Timestamp); err == nil {
			b.Timestamp = ts
		}
	}
	return b
}

// Package cache_fs writes the aggregate status snapshot consumed by
// status bars and other external display surfaces.
package cache_fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/ccwatch/ccwatch/internal/domain"
)

type FSCache struct {
	path string
}

func New(path string) *FSCache { return &FSCache{path: path} }

type pipelineOut struct {
	Name     string `json:"name"`
	Activity string `json:"activity"`
	Result   string `json:"result,omitempty"`
	Label    string `json:"label,omitempty"`
	Error    string `json:"error,omitempty"`
}

type out struct {
	Summary   domain.Summary `json:"summary"`
	Pipelines []pipelineOut  `json:"pipelines"`
}

func (c *FSCache) Write(_ context.Context, pipelines []domain.Pipeline, s domain.Summary) error {
	if c.path == "" {
		return errors.New("cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	doc := out{Summary: s, Pipelines: make([]pipelineOut, 0, len(pipelines))}
	for _, p := range pipelines {
		po := pipelineOut{
			Name:     p.Name,
			Activity: string(p.Status.Activity),
			Error:    p.ConnectionError,
		}
		if lb := p.Status.LastBuild; lb != nil {
			po.Result = string(lb.Result)
			po.Label = lb.Label
		}
		doc.Pipelines = append(doc.Pipelines, po)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

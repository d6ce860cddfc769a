package github_http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Workflow is one workflow definition in a repository.
type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

type workflowsResponse struct {
	TotalCount int        `json:"total_count"`
	Workflows  []Workflow `json:"workflows"`
}

// ListWorkflows fetches the workflows of a repository. Used by the add
// and workflows commands, not on the poll path.
func ListWorkflows(ctx context.Context, client *http.Client, apiBase, owner, repo, token string) ([]Workflow, error) {
	req, err := RequestForWorkflows(ctx, apiBase, owner, repo, token)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "workflow list request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("workflow list request returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read workflow list response")
	}
	var wr workflowsResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, errors.Wrap(err, "cannot decode workflow list response")
	}
	return wr.Workflows, nil
}

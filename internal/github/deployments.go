package github

import (
	"context"
	"fmt"
	"strings"
)

type PendingDeployment struct {
	Environment           Environment `json:"environment"`
	CurrentUserCanApprove bool        `json:"current_user_can_approve"`
}

type Environment struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c *Client) GetPendingDeployments(ctx context.Context, repo string, runID int64) ([]PendingDeployment, error) {
	var deployments []PendingDeployment
	path := c.repoPath(repo, fmt.Sprintf("actions/runs/%d/pending_deployments", runID))
	if err := c.get(ctx, path, &deployments); err != nil {
		return nil, fmt.Errorf("get pending deployments for run %d: %w", runID, err)
	}
	return deployments, nil
}

type deploymentReview struct {
	EnvironmentIDs []int64 `json:"environment_ids"`
	State          string  `json:"state"`
	Comment        string  `json:"comment"`
}

func (c *Client) ApprovePendingDeployments(ctx context.Context, repo string, runID int64, environmentIDs []int64, comment string) error {
	body := deploymentReview{
		EnvironmentIDs: environmentIDs,
		State:          "approved",
		Comment:        comment,
	}
	path := c.repoPath(repo, fmt.Sprintf("actions/runs/%d/pending_deployments", runID))
	if err := c.post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("approve run %d: %w", runID, err)
	}
	return nil
}

func (c *Client) CancelWorkflowRun(ctx context.Context, repo string, runID int64) error {
	path := c.repoPath(repo, fmt.Sprintf("actions/runs/%d/cancel", runID))
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("cancel run %d: %w", runID, err)
	}
	return nil
}

// IsBenignConflict reports whether an action failed only because the
// remote is already processing it (409 Conflict, or a message saying
// the run is already being cancelled/approved). Callers treat this as
// success-pending and re-fetch after a short delay instead of showing
// an error.
func IsBenignConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "409") ||
		strings.Contains(msg, "conflict") ||
		strings.Contains(msg, "already")
}

package scanner

import (
	"context"
	"time"

	"github.com/younsl/gwatch/internal/github"
	"github.com/younsl/gwatch/internal/model"
)

// RunLister is the slice of the GitHub client the scanner needs.
type RunLister interface {
	ListWorkflowRuns(ctx context.Context, repo string, filter github.RunsFilter) (*github.RunsResponse, error)
}

const pageSize = 30

// Scanner fetches one bounded page of workflow runs for a repository
// and normalizes them into job records. It performs no retries; the
// monitor's cadence is the retry mechanism.
type Scanner struct {
	client RunLister
	status string // server-side status filter, empty for all runs
}

func New(client RunLister, status string) *Scanner {
	return &Scanner{client: client, status: status}
}

func (s *Scanner) Scan(ctx context.Context, repo string) ([]model.WorkflowJob, error) {
	resp, err := s.client.ListWorkflowRuns(ctx, repo, github.RunsFilter{
		Status:  s.status,
		PerPage: pageSize,
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]model.WorkflowJob, 0, len(resp.Runs))
	for _, run := range resp.Runs {
		jobs = append(jobs, fromRun(repo, run))
	}
	return jobs, nil
}

func fromRun(repo string, run github.Run) model.WorkflowJob {
	return model.WorkflowJob{
		Repo:         repo,
		RunID:        run.ID,
		RunNumber:    run.RunNumber,
		Name:         run.DisplayTitle,
		WorkflowName: run.Name,
		Status:       collapseStatus(run.Status, run.Conclusion),
		Branch:       run.HeadBranch,
		Event:        run.Event,
		Actor:        run.Actor.Login,
		StartedAt:    run.RunStartedAt,
		CompletedAt:  completedAt(run),
		HTMLURL:      run.HTMLURL,
	}
}

// collapseStatus folds the run's conclusion into the coarse status once
// the run has completed.
func collapseStatus(status, conclusion string) model.JobStatus {
	if status == "completed" {
		switch conclusion {
		case "failure", "timed_out":
			return model.StatusFailure
		case "cancelled":
			return model.StatusCancelled
		default:
			return model.StatusCompleted
		}
	}
	switch status {
	case "waiting":
		return model.StatusWaiting
	case "in_progress":
		return model.StatusInProgress
	default:
		// queued, pending, requested
		return model.StatusQueued
	}
}

// completedAt approximates the completion time with the run's last
// update; the runs listing carries no dedicated completed_at field.
func completedAt(run github.Run) time.Time {
	if run.Status == "completed" {
		return run.UpdatedAt
	}
	return time.Time{}
}

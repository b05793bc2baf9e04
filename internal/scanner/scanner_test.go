package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/younsl/gwatch/internal/github"
	"github.com/younsl/gwatch/internal/model"
)

type captureLister struct {
	lastRepo   string
	lastFilter github.RunsFilter
	resp       *github.RunsResponse
	err        error
}

func (c *captureLister) ListWorkflowRuns(ctx context.Context, repo string, filter github.RunsFilter) (*github.RunsResponse, error) {
	c.lastRepo = repo
	c.lastFilter = filter
	if c.err != nil {
		return nil, c.err
	}
	if c.resp != nil {
		return c.resp, nil
	}
	return &github.RunsResponse{}, nil
}

func TestScanAppliesStatusFilter(t *testing.T) {
	lister := &captureLister{}
	s := New(lister, "waiting")

	if _, err := s.Scan(context.Background(), "api"); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if lister.lastRepo != "api" {
		t.Errorf("repo = %q", lister.lastRepo)
	}
	if lister.lastFilter.Status != "waiting" {
		t.Errorf("status filter = %q, want waiting", lister.lastFilter.Status)
	}
	if lister.lastFilter.PerPage != pageSize {
		t.Errorf("per_page = %d, want %d", lister.lastFilter.PerPage, pageSize)
	}
}

func TestScanNormalizesRuns(t *testing.T) {
	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	updated := started.Add(15 * time.Minute)
	lister := &captureLister{resp: &github.RunsResponse{
		TotalCount: 1,
		Runs: []github.Run{{
			ID:           42,
			Name:         "deploy",
			DisplayTitle: "bump image tag",
			Status:       "completed",
			Conclusion:   "success",
			RunNumber:    7,
			Event:        "push",
			HeadBranch:   "main",
			Actor:        github.Actor{Login: "octocat"},
			RunStartedAt: started,
			UpdatedAt:    updated,
			HTMLURL:      "https://example.com/run/42",
		}},
	}}

	jobs, err := New(lister, "").Scan(context.Background(), "api")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs", len(jobs))
	}

	j := jobs[0]
	if j.Repo != "api" || j.RunID != 42 || j.RunNumber != 7 {
		t.Errorf("identity fields wrong: %+v", j)
	}
	if j.Name != "bump image tag" || j.WorkflowName != "deploy" {
		t.Errorf("names wrong: name=%q workflow=%q", j.Name, j.WorkflowName)
	}
	if j.Status != model.StatusCompleted {
		t.Errorf("status = %v", j.Status)
	}
	if !j.CompletedAt.Equal(updated) {
		t.Errorf("completedAt = %v, want %v", j.CompletedAt, updated)
	}
	if j.Actor != "octocat" || j.Branch != "main" || j.Event != "push" {
		t.Errorf("metadata wrong: %+v", j)
	}
}

func TestCollapseStatus(t *testing.T) {
	tests := []struct {
		status     string
		conclusion string
		want       model.JobStatus
	}{
		{"waiting", "", model.StatusWaiting},
		{"in_progress", "", model.StatusInProgress},
		{"queued", "", model.StatusQueued},
		{"pending", "", model.StatusQueued},
		{"requested", "", model.StatusQueued},
		{"completed", "success", model.StatusCompleted},
		{"completed", "skipped", model.StatusCompleted},
		{"completed", "failure", model.StatusFailure},
		{"completed", "timed_out", model.StatusFailure},
		{"completed", "cancelled", model.StatusCancelled},
	}
	for _, tt := range tests {
		if got := collapseStatus(tt.status, tt.conclusion); got != tt.want {
			t.Errorf("collapseStatus(%q, %q) = %v, want %v", tt.status, tt.conclusion, got, tt.want)
		}
	}
}

func TestCompletedAtZeroWhileActive(t *testing.T) {
	run := github.Run{Status: "in_progress", UpdatedAt: time.Now()}
	if got := completedAt(run); !got.IsZero() {
		t.Errorf("completedAt for an active run = %v, want zero", got)
	}
}

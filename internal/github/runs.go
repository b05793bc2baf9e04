package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type RunsFilter struct {
	Status  string // server-side status filter, e.g. "waiting"
	Branch  string
	Actor   string
	PerPage int
	Page    int
}

func (f RunsFilter) QueryString() string {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Branch != "" {
		v.Set("branch", f.Branch)
	}
	if f.Actor != "" {
		v.Set("actor", f.Actor)
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	} else {
		v.Set("per_page", "30")
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return "?" + v.Encode()
}

type Run struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DisplayTitle string    `json:"display_title"`
	Status       string    `json:"status"`
	Conclusion   string    `json:"conclusion"`
	RunNumber    int       `json:"run_number"`
	Event        string    `json:"event"`
	HeadBranch   string    `json:"head_branch"`
	Actor        Actor     `json:"actor"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RunStartedAt time.Time `json:"run_started_at"`
	HTMLURL      string    `json:"html_url"`
}

type Actor struct {
	Login string `json:"login"`
}

type RunsResponse struct {
	TotalCount int   `json:"total_count"`
	Runs       []Run `json:"workflow_runs"`
}

func (c *Client) ListWorkflowRuns(ctx context.Context, repo string, filter RunsFilter) (*RunsResponse, error) {
	var resp RunsResponse
	err := c.get(ctx, c.repoPath(repo, "actions/runs")+filter.QueryString(), &resp)
	if err != nil {
		// Repo may have Actions disabled or no runs; treat 404 as empty
		if strings.Contains(err.Error(), "404") {
			return &RunsResponse{}, nil
		}
		return nil, fmt.Errorf("list runs for %s: %w", repo, err)
	}
	return &resp, nil
}

package github

import (
	"context"
	"os"
	"testing"
)

func integrationClient(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("GWATCH_INTEGRATION") == "" {
		t.Skip("Set GWATCH_INTEGRATION=1 to run integration tests")
	}
	org := os.Getenv("GWATCH_ORG")
	if org == "" {
		org = "cli"
	}
	client, err := NewClient("github.com", os.Getenv("GITHUB_TOKEN"), org)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestIntegrationListOrgRepos(t *testing.T) {
	client := integrationClient(t)

	repos, err := client.ListOrgRepos(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListOrgRepos: %v", err)
	}
	if len(repos) == 0 {
		t.Error("expected at least 1 repository")
	}

	t.Logf("Found %d repos", len(repos))
	for _, r := range repos {
		t.Logf("  %s archived=%v pushed=%s", r.Name, r.Archived, r.PushedAt)
	}
}

func TestIntegrationListWorkflowRuns(t *testing.T) {
	client := integrationClient(t)
	repo := os.Getenv("GWATCH_REPO")
	if repo == "" {
		repo = "cli"
	}

	resp, err := client.ListWorkflowRuns(context.Background(), repo, RunsFilter{PerPage: 5})
	if err != nil {
		t.Fatalf("ListWorkflowRuns: %v", err)
	}

	t.Logf("Found %d total runs, got %d in page", resp.TotalCount, len(resp.Runs))
	for _, r := range resp.Runs {
		t.Logf("  #%d %s [%s/%s] %s", r.RunNumber, r.DisplayTitle, r.Status, r.Conclusion, r.HeadBranch)
	}
}

package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type Repository struct {
	Name     string    `json:"name"`
	FullName string    `json:"full_name"`
	Archived bool      `json:"archived"`
	Disabled bool      `json:"disabled"`
	PushedAt time.Time `json:"pushed_at"`
}

const reposPerPage = 100

// ListOrgRepos returns up to max repositories of the organization,
// most recently pushed first. Archived and disabled repositories are
// included; the caller filters them and counts them as skipped.
func (c *Client) ListOrgRepos(ctx context.Context, max int) ([]Repository, error) {
	var repos []Repository
	for page := 1; len(repos) < max; page++ {
		v := url.Values{}
		v.Set("sort", "pushed")
		v.Set("direction", "desc")
		v.Set("per_page", strconv.Itoa(reposPerPage))
		v.Set("page", strconv.Itoa(page))

		var batch []Repository
		err := c.get(ctx, fmt.Sprintf("orgs/%s/repos?%s", c.org, v.Encode()), &batch)
		if err != nil {
			return nil, fmt.Errorf("list repos for %s: %w", c.org, err)
		}
		repos = append(repos, batch...)
		if len(batch) < reposPerPage {
			break
		}
	}
	if len(repos) > max {
		repos = repos[:max]
	}
	return repos, nil
}

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps the go-gh REST client for one organization on one host.
// An empty token falls back to go-gh's own resolution (gh config, env).
type Client struct {
	rest *ghAPI.RESTClient
	org  string
}

func NewClient(host, token, org string) (*Client, error) {
	rest, err := ghAPI.NewRESTClient(ghAPI.ClientOptions{
		Host:      host,
		AuthToken: token,
	})
	if err != nil {
		return nil, fmt.Errorf("create GitHub client for %s: %w", host, err)
	}
	return &Client{rest: rest, org: org}, nil
}

func (c *Client) Org() string {
	return c.org
}

func (c *Client) repoPath(repo, path string) string {
	return fmt.Sprintf("repos/%s/%s/%s", c.org, repo, path)
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.rest.DoWithContext(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	return c.rest.DoWithContext(ctx, http.MethodPost, path, reader, result)
}

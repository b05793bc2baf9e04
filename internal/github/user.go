package github

import (
	"context"
	"fmt"
)

// CurrentUser returns the login of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.get(ctx, "user", &user); err != nil {
		return "", fmt.Errorf("get authenticated user: %w", err)
	}
	return user.Login, nil
}

package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

type Client struct {
	client *github.Client
}

func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{client: github.NewClient(tc)}
}

// SetBaseURL points the client at a different API root, used for tests
// and GitHub Enterprise deployments.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse API base URL: %w", err)
	}
	c.client.BaseURL = u
	return nil
}

func (c *Client) AuthenticatedUser(ctx context.Context) (*github.User, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user information: %w", err)
	}
	return user, nil
}

func (c *Client) ListInstallations(ctx context.Context) ([]*github.Installation, error) {
	opts := &github.ListOptions{PerPage: 100}

	installations, _, err := c.client.Apps.ListUserInstallations(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list app installations: %w", err)
	}

	return installations, nil
}

func (c *Client) ListInstallationRepositories(ctx context.Context, installationID int64) ([]*github.Repository, error) {
	opts := &github.ListOptions{PerPage: 100}

	result, _, err := c.client.Apps.ListUserRepos(ctx, installationID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list installation repositories: %w", err)
	}

	return result.Repositories, nil
}

func (c *Client) ListUserRepositories(ctx context.Context) ([]*github.Repository, error) {
	opts := &github.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	repos, _, err := c.client.Repositories.List(ctx, "", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	return repos, nil
}

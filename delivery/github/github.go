// Package github delivers reports by opening an issue on a configured
// repository, giving reports a browsable, linkable archive.
package github

import (
	"context"
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/curvewatch/curvewatch/delivery"
)

// Channel files reports as GitHub issues on one repository.
type Channel struct {
	client *gogithub.Client
	owner  string
	repo   string
	labels []string
}

// New creates a GitHub issue delivery channel. repoSlug is "owner/repo".
func New(token, repoSlug string, labels []string) (*Channel, error) {
	owner, repo, ok := strings.Cut(repoSlug, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github: invalid repository %q, want owner/repo", repoSlug)
	}
	return &Channel{
		client: gogithub.NewClient(nil).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
		labels: labels,
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string { return "github" }

// Send opens an issue titled after the report with the plain-text body.
func (c *Channel) Send(ctx context.Context, msg delivery.Message) error {
	req := &gogithub.IssueRequest{
		Title: gogithub.Ptr(msg.Title),
		Body:  gogithub.Ptr(msg.Text),
	}
	if len(c.labels) > 0 {
		req.Labels = &c.labels
	}

	_, _, err := c.client.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return fmt.Errorf("github issue create: %w", err)
	}
	return nil
}

// Package slack delivers reports to a Slack channel via chat.postMessage.
package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/curvewatch/curvewatch/delivery"
)

// Channel posts reports to a single Slack channel.
type Channel struct {
	api       *slack.Client
	channelID string
}

// New creates a Slack delivery channel.
func New(botToken, channelID string) *Channel {
	return &Channel{
		api:       slack.New(botToken),
		channelID: channelID,
	}
}

// Name returns the channel name.
func (c *Channel) Name() string { return "slack" }

// Send posts the plain-text rendering of the report.
func (c *Channel) Send(ctx context.Context, msg delivery.Message) error {
	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionText(msg.Text, false),
	)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}

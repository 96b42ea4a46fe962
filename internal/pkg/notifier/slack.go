package notifier

import (
	"context"
	"fmt"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
	"github.com/slack-go/slack"
)

// Slack posts messages to a channel.
type Slack struct {
	client  *slack.Client
	channel string
}

func NewSlack(token, channel string, options ...slack.Option) *Slack {
	return &Slack{client: slack.New(token, options...), channel: channel}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Send(ctx context.Context, msg notification.Message) error {
	channel := s.channel
	if channel == "" {
		channel = msg.Recipient
	}
	if channel == "" {
		return notification.ErrEmptyRecipient
	}

	_, _, err := s.client.PostMessageContext(ctx,
		channel,
		slack.MsgOptionText(msg.Text, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

package notify

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackSender talks to the Slack Web API with the configured bot token.
type SlackSender struct {
	api *slack.Client
}

// NewSlackSender returns nil when no bot token is configured.
func NewSlackSender(botToken string) *SlackSender {
	if botToken == "" {
		return nil
	}
	return &SlackSender{api: slack.New(botToken)}
}

func (s *SlackSender) LookupUserByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.api.GetUserByEmailContext(ctx, email)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *SlackSender) SendDM(ctx context.Context, userID, text string) error {
	_, _, err := s.api.PostMessageContext(ctx, userID, slack.MsgOptionText(text, false))
	return err
}

func (s *SlackSender) SendChannel(ctx context.Context, channel, text string) error {
	_, _, err := s.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	return err
}

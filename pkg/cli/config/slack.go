package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for HIGH risk notifications
type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for HIGH risk notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("RISKSCORE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID HIGH risk assessments are posted to",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("RISKSCORE_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if both token and channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns a notifier, or nil when Slack is not configured. Setting only one of token
// and channel is an error.
func (x *Slack) Configure(baseURL string) (interfaces.Notifier, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.New("both --slack-bot-token and --slack-channel-id are required for notifications")
	}

	var opts []slack.Option
	if baseURL != "" {
		opts = append(opts, slack.WithBaseURL(baseURL))
	}
	notifier, err := slack.New(x.botToken, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	return notifier, nil
}

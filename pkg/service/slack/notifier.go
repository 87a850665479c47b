package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts assessment notifications to one Slack channel
type Notifier struct {
	api       *slack.Client
	channelID string
	baseURL   string
}

var _ interfaces.Notifier = &Notifier{}

// Option is a functional option for Notifier configuration
type Option func(*notifierOptions)

type notifierOptions struct {
	apiURL  string
	baseURL string
}

// WithAPIURL points the client at another Slack API endpoint. The URL must end with a slash.
func WithAPIURL(url string) Option {
	return func(o *notifierOptions) {
		o.apiURL = url
	}
}

// WithBaseURL sets the public URL of the assessment UI. Messages link to the assessment when set.
func WithBaseURL(url string) Option {
	return func(o *notifierOptions) {
		o.baseURL = url
	}
}

// New creates a Notifier with the provided bot token and channel
func New(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	var o notifierOptions
	for _, opt := range opts {
		opt(&o)
	}

	var clientOpts []slack.Option
	if o.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &Notifier{
		api:       slack.New(token, clientOpts...),
		channelID: channelID,
		baseURL:   o.baseURL,
	}, nil
}

// NotifyAssessment posts a Block Kit summary of the record
func (n *Notifier) NotifyAssessment(ctx context.Context, record *model.AssessmentRecord) error {
	blocks := buildAssessmentBlocks(record, n.baseURL)
	text := fallbackText(record)

	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post assessment notification",
			goerr.V("channel_id", n.channelID),
			goerr.V("assessment_id", record.ID))
	}
	return nil
}

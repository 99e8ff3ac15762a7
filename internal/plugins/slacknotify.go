package plugins

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/flowlattice/workflowcore/internal/model"
)

// slackPoster is the subset of *slack.Client used here, so tests can inject
// a fake.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotify posts a message to a channel via github.com/slack-go/slack,
// satisfying the t_notify action from the CI/CD scenario. Network failures
// (rate limits, connection errors) categorize as NETWORK, which the engine
// treats as retryable.
type SlackNotify struct {
	id      string
	actions []string
	client  slackPoster
}

// NewSlackNotify wraps a slack.Client (or a test double satisfying
// slackPoster).
func NewSlackNotify(id string, client slackPoster, actions ...string) *SlackNotify {
	return &SlackNotify{id: id, actions: actions, client: client}
}

func (p *SlackNotify) ID() string   { return p.id }
func (p *SlackNotify) Name() string { return "slacknotify" }

func (p *SlackNotify) Execute(ctx context.Context, _ *model.ExecutionContext, params map[string]any) (model.PluginExecutionResult, error) {
	channel, _ := params["channel"].(string)
	message, _ := params["message"].(string)
	if channel == "" || message == "" {
		return model.PluginExecutionResult{
			Status:        model.PluginStatusFailure,
			ErrorCategory: model.ErrorTypeValidation,
			ErrorMessage:  "slacknotify requires \"channel\" and \"message\" params",
			PluginID:      p.id,
		}, nil
	}

	_, ts, err := p.client.PostMessageContext(ctx, channel, slack.MsgOptionText(message, false))
	if err != nil {
		return model.PluginExecutionResult{
			Status:        model.PluginStatusFailure,
			ErrorCategory: model.ErrorTypeNetwork,
			ErrorMessage:  fmt.Sprintf("slack post failed: %v", err),
			PluginID:      p.id,
		}, nil
	}

	return model.PluginExecutionResult{
		Status:   model.PluginStatusSuccess,
		Result:   map[string]any{"timestamp": ts, "channel": channel},
		PluginID: p.id,
	}, nil
}

func (p *SlackNotify) HealthCheck(_ context.Context) bool { return p.client != nil }

func (p *SlackNotify) SupportedActions() []string { return append([]string(nil), p.actions...) }

package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlattice/workflowcore/internal/model"
)

type fakeSlackPoster struct {
	ts  string
	err error
}

func (f *fakeSlackPoster) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return channelID, f.ts, nil
}

func TestSlackNotifyExecuteSuccess(t *testing.T) {
	p := NewSlackNotify("slack", &fakeSlackPoster{ts: "123.456"}, "t_notify")
	res, err := p.Execute(context.Background(), nil, map[string]any{"channel": "#ops", "message": "deploy finished"})
	require.NoError(t, err)
	assert.Equal(t, model.PluginStatusSuccess, res.Status)
	assert.Equal(t, "123.456", res.Result["timestamp"])
}

func TestSlackNotifyExecuteMissingParams(t *testing.T) {
	p := NewSlackNotify("slack", &fakeSlackPoster{}, "t_notify")
	res, err := p.Execute(context.Background(), nil, map[string]any{"channel": "#ops"})
	require.NoError(t, err)
	assert.Equal(t, model.PluginStatusFailure, res.Status)
	assert.Equal(t, model.ErrorTypeValidation, res.ErrorCategory)
}

func TestSlackNotifyExecuteNetworkFailureIsRetryable(t *testing.T) {
	p := NewSlackNotify("slack", &fakeSlackPoster{err: errors.New("dial tcp: timeout")}, "t_notify")
	res, err := p.Execute(context.Background(), nil, map[string]any{"channel": "#ops", "message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, model.PluginStatusFailure, res.Status)
	assert.Equal(t, model.ErrorTypeNetwork, res.ErrorCategory)
	assert.True(t, res.ErrorCategory.Retryable())
}

func TestSlackNotifyHealthCheckRequiresClient(t *testing.T) {
	p := NewSlackNotify("slack", nil, "t_notify")
	assert.False(t, p.HealthCheck(context.Background()))
}

package plugins

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlattice/workflowcore/internal/model"
)

func TestShellExecuteSuccess(t *testing.T) {
	p := NewShell("sh", "t_run")
	res, err := p.Execute(context.Background(), nil, map[string]any{"command": "true"})
	require.NoError(t, err)
	assert.Equal(t, model.PluginStatusSuccess, res.Status)
}

func TestShellExecuteMissingCommand(t *testing.T) {
	p := NewShell("sh", "t_run")
	res, err := p.Execute(context.Background(), nil, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, model.PluginStatusFailure, res.Status)
	assert.Equal(t, model.ErrorTypeValidation, res.ErrorCategory)
}

func TestShellExecuteNonZeroExit(t *testing.T) {
	p := NewShell("sh", "t_run")
	res, err := p.Execute(context.Background(), nil, map[string]any{"command": "false"})
	require.NoError(t, err)
	assert.Equal(t, model.PluginStatusFailure, res.Status)
	assert.Equal(t, model.ErrorTypeExecution, res.ErrorCategory)
}

func TestShellExecuteDeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	p := NewShell("sh", "t_run")
	res, err := p.Execute(ctx, nil, map[string]any{"command": "sleep", "args": []string{"1"}})
	require.NoError(t, err)
	assert.Equal(t, model.PluginStatusTimeout, res.Status)
	assert.Equal(t, model.ErrorTypeTimeout, res.ErrorCategory)
}

func TestShellSupportedActionsIsDefensiveCopy(t *testing.T) {
	p := NewShell("sh", "t_run", "t_build")
	got := p.SupportedActions()
	got[0] = "tampered"
	assert.Equal(t, []string{"t_run", "t_build"}, p.SupportedActions())
}

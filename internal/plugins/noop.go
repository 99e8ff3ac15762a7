// Package plugins ships the concrete plugin implementations dispatched by
// the engine: a no-op fixture plugin, a shell-command plugin, a Slack
// notification plugin, a webhook plugin, and a flaky plugin for
// deterministic retry tests.
package plugins

import (
	"context"

	"github.com/flowlattice/workflowcore/internal/model"
)

// NoOp always reports SUCCESS without touching the outside world.
type NoOp struct {
	id      string
	actions []string
}

// NewNoOp returns a NoOp plugin claiming the given actions.
func NewNoOp(id string, actions ...string) *NoOp {
	return &NoOp{id: id, actions: actions}
}

func (p *NoOp) ID() string   { return p.id }
func (p *NoOp) Name() string { return "noop" }

func (p *NoOp) Execute(_ context.Context, _ *model.ExecutionContext, params map[string]any) (model.PluginExecutionResult, error) {
	return model.PluginExecutionResult{
		Status:   model.PluginStatusSuccess,
		Result:   map[string]any{"echo": params},
		PluginID: p.id,
	}, nil
}

func (p *NoOp) HealthCheck(_ context.Context) bool { return true }

func (p *NoOp) SupportedActions() []string { return append([]string(nil), p.actions...) }

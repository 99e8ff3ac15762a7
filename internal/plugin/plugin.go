// Package plugin defines the plugin contract and registry that the
// execution engine dispatches actions through.
package plugin

import (
	"context"

	"github.com/flowlattice/workflowcore/internal/model"
)

// Plugin is the uniform dispatch contract: given a context and params,
// produce a PluginExecutionResult. Implementations must be safe for
// concurrent use by multiple in-flight node executions.
type Plugin interface {
	ID() string
	Name() string
	Execute(ctx context.Context, execCtx *model.ExecutionContext, params map[string]any) (model.PluginExecutionResult, error)
	HealthCheck(ctx context.Context) bool
	SupportedActions() []string
}

// WebhookPlugin extends Plugin with inbound-event handling.
type WebhookPlugin interface {
	Plugin
	VerifySignature(payload []byte, signature string) bool
	ProcessEvent(ctx context.Context, eventType string, payload []byte) (model.PluginExecutionResult, error)
	SupportedEvents() []string
}

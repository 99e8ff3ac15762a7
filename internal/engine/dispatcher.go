package engine

import (
	"context"

	"github.com/flowlattice/workflowcore/internal/model"
)

// Dispatcher resolves an action to a plugin and executes it. The default
// implementation is plugin.BreakerDispatcher; tests may substitute a fake.
type Dispatcher interface {
	Dispatch(ctx context.Context, execCtx *model.ExecutionContext, action string, params map[string]any) (model.PluginExecutionResult, error)
}

// FallbackResolver dispatches a specific plugin by id exactly once,
// bypassing any circuit breaker, per the unconditional single-attempt
// fallback rule in §4.4.
type FallbackResolver interface {
	DispatchByID(ctx context.Context, execCtx *model.ExecutionContext, pluginID string, params map[string]any) (model.PluginExecutionResult, error)
}

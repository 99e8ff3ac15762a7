package engine

import (
	"context"

	"github.com/flowlattice/workflowcore/internal/model"
)

// HookFunc is a user-supplied before/after callback. Its failure is always
// demoted to a warning; it never aborts node execution.
type HookFunc func(ctx context.Context, execCtx *model.ExecutionContext, node *model.TaskNode) error

// HookRegistry resolves hook ids (TaskNode.BeforeHook/AfterHook) to
// callables.
type HookRegistry map[string]HookFunc

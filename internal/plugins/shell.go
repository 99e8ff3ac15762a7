package plugins

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/flowlattice/workflowcore/internal/model"
)

// Shell runs a configured command via os/exec, categorizing failures into
// the closed ErrorType enum: context deadline exceeded becomes TIMEOUT,
// a non-zero exit becomes EXECUTION, anything else becomes IO.
type Shell struct {
	id      string
	actions []string
}

// NewShell returns a Shell plugin claiming the given actions. Each action's
// params map is expected to carry "command" and optional "args".
func NewShell(id string, actions ...string) *Shell {
	return &Shell{id: id, actions: actions}
}

func (p *Shell) ID() string   { return p.id }
func (p *Shell) Name() string { return "shell" }

func (p *Shell) Execute(ctx context.Context, _ *model.ExecutionContext, params map[string]any) (model.PluginExecutionResult, error) {
	start := time.Now()

	command, _ := params["command"].(string)
	if command == "" {
		return model.PluginExecutionResult{
			Status:        model.PluginStatusFailure,
			ErrorCategory: model.ErrorTypeValidation,
			ErrorMessage:  "shell plugin requires a non-empty \"command\" param",
			PluginID:      p.id,
		}, nil
	}

	var args []string
	if raw, ok := params["args"].([]string); ok {
		args = raw
	}

	cmd := exec.CommandContext(ctx, command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if err == nil {
		return model.PluginExecutionResult{
			Status:          model.PluginStatusSuccess,
			Result:          map[string]any{"stdout": stdout.String()},
			ExecutionTimeMs: elapsed,
			PluginID:        p.id,
		}, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return model.PluginExecutionResult{
			Status:          model.PluginStatusTimeout,
			ErrorCategory:   model.ErrorTypeTimeout,
			ErrorMessage:    "command exceeded its deadline",
			ExecutionTimeMs: elapsed,
			PluginID:        p.id,
		}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return model.PluginExecutionResult{
			Status:          model.PluginStatusFailure,
			ErrorCategory:   model.ErrorTypeExecution,
			ErrorMessage:    fmt.Sprintf("command exited %d: %s", exitErr.ExitCode(), stderr.String()),
			ExecutionTimeMs: elapsed,
			PluginID:        p.id,
		}, nil
	}

	return model.PluginExecutionResult{
		Status:          model.PluginStatusFailure,
		ErrorCategory:   model.ErrorTypeIO,
		ErrorMessage:    err.Error(),
		ExecutionTimeMs: elapsed,
		PluginID:        p.id,
	}, nil
}

func (p *Shell) HealthCheck(_ context.Context) bool { return true }

func (p *Shell) SupportedActions() []string { return append([]string(nil), p.actions...) }

package engine

import (
	"context"
	"math"
	"time"

	"github.com/flowlattice/workflowcore/internal/model"
)

// effectiveRetry resolves a node's retry configuration, falling back to the
// engine defaults when the node's own fields are left at their zero value,
// per §4.4's "applied to any node whose own retry fields are at engine
// defaults" rule.
func effectiveRetry(node *model.TaskNode, cfg model.RuntimeExecutionConfig) model.RetryConfig {
	r := node.Retry
	if r.MaxRetries == 0 && r.RetryDelayMs == 0 && r.BackoffMultiplier == 0 {
		return model.RetryConfig{
			MaxRetries:        cfg.DefaultMaxRetries,
			RetryDelayMs:      cfg.DefaultRetryDelayMs,
			BackoffMultiplier: cfg.DefaultBackoffMultiplier,
		}
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 1.0
	}
	return r
}

// attemptTimeout returns min(nodeTimeoutMs, pluginTimeoutMs), treating 0 as
// unbounded; 0 is returned only when both are unbounded.
func attemptTimeout(nodeTimeoutMs, pluginTimeoutMs int64) time.Duration {
	switch {
	case nodeTimeoutMs <= 0 && pluginTimeoutMs <= 0:
		return 0
	case nodeTimeoutMs <= 0:
		return time.Duration(pluginTimeoutMs) * time.Millisecond
	case pluginTimeoutMs <= 0:
		return time.Duration(nodeTimeoutMs) * time.Millisecond
	default:
		if nodeTimeoutMs < pluginTimeoutMs {
			return time.Duration(nodeTimeoutMs) * time.Millisecond
		}
		return time.Duration(pluginTimeoutMs) * time.Millisecond
	}
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// executeNode runs the node state machine from §4.5: a before/dispatch/
// categorize loop across retries, optional fallback dispatch once retries
// are exhausted, and a guaranteed after-hook, emitting one TraceEvent per
// attempt plus a final summarizing event.
func (e *Engine) executeNode(ctx context.Context, node *model.TaskNode, execCtx *model.ExecutionContext, cfg model.RuntimeExecutionConfig, appendTrace func(model.TraceEvent)) model.NodeExecutionResult {
	start := time.Now()
	retry := effectiveRetry(node, cfg)
	timeout := attemptTimeout(cfg.NodeTimeoutMs, cfg.PluginTimeoutMs)

	if e.Metrics != nil && cfg.EnableMetrics {
		e.Metrics.RecordNodeStart(execCtx.ExecutionID, node.ID)
	}

	var last model.PluginExecutionResult
	var lastErr error
	attempts := 0
	succeeded := false

	for i := 0; i <= retry.MaxRetries; i++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		attempts++

		if cfg.EnableHooks && node.BeforeHook != "" {
			e.runHook(ctx, node, execCtx, node.BeforeHook, "before", cfg)
		}

		attemptCtx, cancel := withOptionalTimeout(ctx, timeout)
		result, err := e.Dispatcher.Dispatch(attemptCtx, execCtx, node.Action, node.InputParams)
		cancel()

		appendTrace(model.TraceEvent{
			Timestamp:      time.Now(),
			SequenceNumber: e.nextSeq(),
			NodeID:         node.ID,
			Mode:           "deterministic",
			Reason:         "attempt",
			Alternatives:   []string{},
			MarkingBefore:  nil,
			MarkingAfter:   nil,
		})

		if err != nil {
			lastErr = err
			break
		}
		last = result

		if result.Status == model.PluginStatusSuccess {
			succeeded = true
			break
		}

		if !result.ErrorCategory.Retryable() || i >= retry.MaxRetries {
			break
		}

		delay := time.Duration(float64(retry.RetryDelayMs)*math.Pow(retry.BackoffMultiplier, float64(i))) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	fallbackUsed := false
	if !succeeded && lastErr == nil && node.FallbackPluginID != "" && cfg.EnableFallbackPlugins && e.Fallback != nil {
		fbCtx, cancel := withOptionalTimeout(ctx, time.Duration(cfg.PluginTimeoutMs)*time.Millisecond)
		fbResult, fbErr := e.Fallback.DispatchByID(fbCtx, execCtx, node.FallbackPluginID, node.InputParams)
		cancel()
		if fbErr == nil && fbResult.Status == model.PluginStatusSuccess {
			last = fbResult
			succeeded = true
			fallbackUsed = true
		} else if fbErr == nil {
			last = fbResult
		}
	}

	if cfg.EnableHooks && node.AfterHook != "" {
		e.runHook(ctx, node, execCtx, node.AfterHook, "after", cfg)
	}

	end := time.Now()
	result := model.NodeExecutionResult{
		NodeID:       node.ID,
		StartTime:    start,
		EndTime:      end,
		Attempts:     attempts,
		FallbackUsed: fallbackUsed,
	}

	switch {
	case succeeded:
		result.Status = model.NodeStatusSuccess
		result.Result = model.ExecutionResult{Success: true, Message: last.ErrorMessage, Data: last.Result}
	case ctx.Err() != nil && lastErr != nil:
		result.Status = model.NodeStatusSkipped
		result.Error = "execution cancelled"
		result.Result = model.ExecutionResult{Success: false, ErrorType: model.ErrorTypeCancelled}
	default:
		result.Status = model.NodeStatusFailure
		errType := last.ErrorCategory
		msg := last.ErrorMessage
		if lastErr != nil {
			errType = model.ErrorTypeSystem
			msg = lastErr.Error()
		}
		result.Error = msg
		result.Result = model.ExecutionResult{Success: false, Message: msg, ErrorType: errType}
	}

	appendTrace(model.TraceEvent{
		Timestamp:      end,
		SequenceNumber: e.nextSeq(),
		NodeID:         node.ID,
		Mode:           "deterministic",
		Reason:         "finalize:" + string(result.Status),
	})

	if e.Metrics != nil && cfg.EnableMetrics {
		e.Metrics.RecordNodeComplete(execCtx.ExecutionID, node.ID, result)
	}

	return result
}

func (e *Engine) runHook(ctx context.Context, node *model.TaskNode, execCtx *model.ExecutionContext, hookID, phase string, cfg model.RuntimeExecutionConfig) {
	hook, ok := e.Hooks[hookID]
	if !ok {
		return
	}
	hookCtx, cancel := withOptionalTimeout(ctx, time.Duration(cfg.HookTimeoutMs)*time.Millisecond)
	defer cancel()
	if err := hook(hookCtx, execCtx, node); err != nil && e.Logger != nil {
		e.Logger.Warn(ctx, "hook failed", "node", node.ID, "phase", phase, "error", err.Error())
	}
}

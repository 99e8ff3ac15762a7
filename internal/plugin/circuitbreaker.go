package plugin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/flowlattice/workflowcore/internal/model"
)

// errRetryableFailure is gobreaker's signal that a request "failed" even
// though the plugin returned a well-formed result rather than a Go error.
// Without this, a plugin that always comes back with a retryable FAILURE
// status (rather than returning err != nil) would never trip its breaker.
var errRetryableFailure = errors.New("plugin: retryable failure status")

// BreakerDispatcher wraps a Registry so that each action dispatches through
// its own gobreaker.CircuitBreaker. When a breaker is open the dispatch
// returns a CIRCUIT_OPEN PluginExecutionResult without invoking the plugin,
// which the engine's retry categorization treats as transient.
type BreakerDispatcher struct {
	registry *Registry

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewBreakerDispatcher wraps registry with per-action circuit breakers using
// explicit gobreaker settings (trip after 5 consecutive failures, half-open
// after 60s; no periodic reset of counts while closed).
func NewBreakerDispatcher(registry *Registry) *BreakerDispatcher {
	return &BreakerDispatcher{registry: registry, breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

func (d *BreakerDispatcher) breakerFor(action string) *gobreaker.CircuitBreaker {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.breakers[action]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    action,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	d.breakers[action] = b
	return b
}

// Dispatch resolves the plugin for action and executes it through the
// action's breaker. Fallback dispatches (invoked directly via
// internal/engine) bypass this path entirely, per §4.4's unconditional
// single-attempt fallback rule.
func (d *BreakerDispatcher) Dispatch(ctx context.Context, execCtx *model.ExecutionContext, action string, params map[string]any) (model.PluginExecutionResult, error) {
	p, err := d.registry.Resolve(action)
	if err != nil {
		return model.PluginExecutionResult{}, err
	}

	breaker := d.breakerFor(action)
	result, err := breaker.Execute(func() (interface{}, error) {
		res, execErr := p.Execute(ctx, execCtx, params)
		if execErr != nil {
			return res, execErr
		}
		if res.Status == model.PluginStatusFailure && res.ErrorCategory.Retryable() {
			// Surface retryable failures to gobreaker so repeated transient
			// failures trip the breaker, even though the plugin itself
			// returned a well-formed result rather than a Go error.
			return res, errRetryableFailure
		}
		return res, nil
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return model.PluginExecutionResult{
			Status:        model.PluginStatusFailure,
			ErrorCategory: model.ErrorTypeCircuitOpen,
			ErrorMessage:  "circuit open for action " + action,
			PluginID:      p.ID(),
		}, nil
	}
	if err != nil && err != errRetryableFailure {
		return model.PluginExecutionResult{}, err
	}
	return result.(model.PluginExecutionResult), nil
}

// DispatchByID invokes a specific plugin directly by id, bypassing the
// circuit breaker entirely. Used for fallback dispatch, which must run
// exactly once regardless of the primary action's breaker state.
func (d *BreakerDispatcher) DispatchByID(ctx context.Context, execCtx *model.ExecutionContext, pluginID string, params map[string]any) (model.PluginExecutionResult, error) {
	p, err := d.registry.GetByID(pluginID)
	if err != nil {
		return model.PluginExecutionResult{}, err
	}
	return p.Execute(ctx, execCtx, params)
}

// Package engine implements the DAG execution engine: a dependency-
// respecting scheduler that runs plugin-backed TaskNodes with retries,
// backoff, hooks, fallback dispatch, tracing, and metrics.
package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowlattice/workflowcore/internal/model"
	"github.com/flowlattice/workflowcore/internal/ports"
)

// Engine runs DAGs to completion. Construct one per process (or per
// logical tenant) and reuse it across executions; it holds no per-execution
// state itself.
type Engine struct {
	Dispatcher Dispatcher
	Fallback   FallbackResolver
	Hooks      HookRegistry
	Logger     ports.Logger
	Metrics    model.MetricsCollector
	Tracer     ports.Tracer
	Events     ports.EventPublisher

	seq int64 // monotonic trace sequence counter, shared across goroutines
}

// New constructs an Engine. Logger/Metrics/Tracer/Events may be nil
// no-op-equivalents; callers that want observability supply real adapters.
func New(dispatcher Dispatcher, fallback FallbackResolver, hooks HookRegistry) *Engine {
	if hooks == nil {
		hooks = HookRegistry{}
	}
	return &Engine{Dispatcher: dispatcher, Fallback: fallback, Hooks: hooks}
}

func (e *Engine) nextSeq() int64 { return atomic.AddInt64(&e.seq, 1) }

// Execute runs dag to completion under cfg, using execCtx as the shared
// per-run state. It returns an AggregateResult with per-node results and an
// ordered trace even if the run is cancelled or times out partway through.
func (e *Engine) Execute(ctx context.Context, dag *model.DAG, execCtx *model.ExecutionContext, cfg model.RuntimeExecutionConfig) (model.AggregateResult, error) {
	levels, err := validateDAG(dag)
	if err != nil {
		return model.AggregateResult{}, err
	}

	if e.Metrics != nil && cfg.EnableMetrics {
		e.Metrics.RecordExecutionStart(execCtx.ExecutionID)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if cfg.ExecutionTimeoutMs > 0 {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.ExecutionTimeoutMs)*time.Millisecond)
		defer cancel()
	}

	results := make(map[string]model.NodeExecutionResult, dag.Len())
	var traceMu sync.Mutex
	var trace []model.TraceEvent
	var resultsMu sync.Mutex

	appendTrace := func(ev model.TraceEvent) {
		traceMu.Lock()
		trace = append(trace, ev)
		traceMu.Unlock()
	}
	setResult := func(r model.NodeExecutionResult) {
		resultsMu.Lock()
		results[r.NodeID] = r
		resultsMu.Unlock()
	}
	getResult := func(id string) (model.NodeExecutionResult, bool) {
		resultsMu.Lock()
		defer resultsMu.Unlock()
		r, ok := results[id]
		return r, ok
	}

	for _, level := range levels {
		sort.Strings(level)
		var wg sync.WaitGroup
		for _, nodeID := range level {
			node, _ := dag.Node(nodeID)

			if runCtx.Err() != nil {
				setResult(e.skippedResult(node, model.ErrorTypeCancelled, "execution deadline exceeded before node started"))
				continue
			}

			skip, reason := dependencySkip(node, getResult)
			if skip {
				r := e.skippedResult(node, model.ErrorTypeUnknown, reason)
				setResult(r)
				appendTrace(e.traceForSkip(node, r))
				continue
			}

			wg.Add(1)
			go func(n *model.TaskNode) {
				defer wg.Done()
				result := e.executeNode(runCtx, n, execCtx, cfg, appendTrace)
				setResult(result)
			}(node)
		}
		wg.Wait()
	}

	agg := model.AggregateResult{ExecutionID: execCtx.ExecutionID, Results: results, Trace: sortedTrace(trace)}
	for _, r := range results {
		switch r.Status {
		case model.NodeStatusSuccess:
			agg.NodesSucceeded++
		case model.NodeStatusFailure:
			agg.NodesFailed++
		case model.NodeStatusSkipped:
			agg.NodesSkipped++
		}
	}

	if e.Metrics != nil && cfg.EnableMetrics {
		e.Metrics.RecordExecutionComplete(execCtx.ExecutionID, agg)
	}

	return agg, nil
}

func sortedTrace(trace []model.TraceEvent) []model.TraceEvent {
	out := append([]model.TraceEvent(nil), trace...)
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out
}

// dependencySkip implements the skipped-predecessor propagation rule: a
// node is SKIPPED iff any dependency ended in FAILURE or SKIPPED.
func dependencySkip(node *model.TaskNode, getResult func(string) (model.NodeExecutionResult, bool)) (bool, string) {
	for _, dep := range node.ResolvedDependencies() {
		r, ok := getResult(dep.ID)
		if !ok {
			continue
		}
		if r.Status == model.NodeStatusFailure || r.Status == model.NodeStatusSkipped {
			return true, "dependency " + dep.ID + " " + string(r.Status)
		}
	}
	return false, ""
}

func (e *Engine) skippedResult(node *model.TaskNode, errType model.ErrorType, reason string) model.NodeExecutionResult {
	now := time.Now()
	return model.NodeExecutionResult{
		NodeID:    node.ID,
		Status:    model.NodeStatusSkipped,
		StartTime: now,
		EndTime:   now,
		Error:     reason,
		Result:    model.ExecutionResult{Success: false, Message: reason, ErrorType: errType},
	}
}

func (e *Engine) traceForSkip(node *model.TaskNode, result model.NodeExecutionResult) model.TraceEvent {
	return model.TraceEvent{
		Timestamp:      result.EndTime,
		SequenceNumber: e.nextSeq(),
		NodeID:         node.ID,
		Mode:           "deterministic",
		Reason:         result.Error,
	}
}

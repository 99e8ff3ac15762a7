package plugins

import (
	"context"
	"sync"

	"github.com/flowlattice/workflowcore/internal/model"
)

// Flaky fails with a given ErrorType for its first failBeforeSuccess
// attempts (per execution context), then succeeds. It exists to exercise
// the retry/backoff scenario deterministically without real network flakes.
type Flaky struct {
	id                string
	actions           []string
	failBeforeSuccess int
	failErrorType     model.ErrorType

	mu       sync.Mutex
	attempts map[string]int
}

// NewFlaky returns a Flaky plugin that fails failBeforeSuccess times (keyed
// by ExecutionContext.ExecutionID) before succeeding.
func NewFlaky(id string, failBeforeSuccess int, failErrorType model.ErrorType, actions ...string) *Flaky {
	return &Flaky{
		id:                id,
		actions:           actions,
		failBeforeSuccess: failBeforeSuccess,
		failErrorType:     failErrorType,
		attempts:          make(map[string]int),
	}
}

func (p *Flaky) ID() string   { return p.id }
func (p *Flaky) Name() string { return "flaky" }

func (p *Flaky) Execute(_ context.Context, execCtx *model.ExecutionContext, _ map[string]any) (model.PluginExecutionResult, error) {
	key := ""
	if execCtx != nil {
		key = execCtx.ExecutionID
	}

	p.mu.Lock()
	attempt := p.attempts[key]
	p.attempts[key] = attempt + 1
	p.mu.Unlock()

	if attempt < p.failBeforeSuccess {
		return model.PluginExecutionResult{
			Status:        statusForErrorType(p.failErrorType),
			ErrorCategory: p.failErrorType,
			ErrorMessage:  "simulated transient failure",
			PluginID:      p.id,
		}, nil
	}

	return model.PluginExecutionResult{
		Status:   model.PluginStatusSuccess,
		Result:   map[string]any{"attempt": attempt},
		PluginID: p.id,
	}, nil
}

func statusForErrorType(t model.ErrorType) model.PluginResultStatus {
	if t == model.ErrorTypeTimeout {
		return model.PluginStatusTimeout
	}
	return model.PluginStatusFailure
}

func (p *Flaky) HealthCheck(_ context.Context) bool { return true }

func (p *Flaky) SupportedActions() []string { return append([]string(nil), p.actions...) }

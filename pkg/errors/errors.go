// Package errors implements the closed error taxonomy used across the
// workflow core: validation, construction, node execution, hook, and plugin
// dispatch failures. Every type exposes a Surface() view suitable for
// returning to a caller without leaking internals.
package errors

import (
	"fmt"
	"time"
)

// Surface is the user-visible shape every error in this taxonomy can render
// itself as.
type Surface struct {
	Code          string    `json:"code"`
	Message       string    `json:"message"`
	Details       string    `json:"details,omitempty"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Surfacer is implemented by every error type in this package.
type Surfacer interface {
	error
	Surface() Surface
}

// ValidationError reports a structural fault in a Net or DAG: a dangling
// arc endpoint, a duplicate id, a cycle, or a similar invariant violation
// caught before any state-space work or plugin dispatch begins.
type ValidationError struct {
	Field         string
	Message       string
	CorrelationID string
	Err           error
}

func NewValidationError(field, message string, correlationID string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, CorrelationID: correlationID, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Surface() Surface {
	return Surface{
		Code:          "VALIDATION_ERROR",
		Message:       e.Message,
		Details:       e.Field,
		CorrelationID: e.CorrelationID,
		Timestamp:     time.Now().UTC(),
	}
}

// ConstructionError reports that the projector (or a net/DAG builder) could
// not produce a required artifact: an edge rule that cannot resolve, an
// inconsistent transitive reduction, a missing root candidate.
type ConstructionError struct {
	Stage         string
	Message       string
	CorrelationID string
	Err           error
}

func NewConstructionError(stage, message, correlationID string, err error) *ConstructionError {
	return &ConstructionError{Stage: stage, Message: message, CorrelationID: correlationID, Err: err}
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construction error at %s: %s", e.Stage, e.Message)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Surface() Surface {
	return Surface{
		Code:          "CONSTRUCTION_ERROR",
		Message:       e.Message,
		Details:       e.Stage,
		CorrelationID: e.CorrelationID,
		Timestamp:     time.Now().UTC(),
	}
}

// NodeExecutionFailure carries the closed ErrorType enum from a failed node
// attempt. It is captured in the node's result set, not returned as a Go
// error to the caller of Execute.
type NodeExecutionFailure struct {
	NodeID        string
	ErrorType     string
	Message       string
	CorrelationID string
	Err           error
}

func NewNodeExecutionFailure(nodeID, errorType, message, correlationID string, err error) *NodeExecutionFailure {
	return &NodeExecutionFailure{NodeID: nodeID, ErrorType: errorType, Message: message, CorrelationID: correlationID, Err: err}
}

func (e *NodeExecutionFailure) Error() string {
	return fmt.Sprintf("node %q failed (%s): %s", e.NodeID, e.ErrorType, e.Message)
}

func (e *NodeExecutionFailure) Unwrap() error { return e.Err }

func (e *NodeExecutionFailure) Surface() Surface {
	return Surface{
		Code:          "NODE_EXECUTION_FAILURE:" + e.ErrorType,
		Message:       e.Message,
		Details:       e.NodeID,
		CorrelationID: e.CorrelationID,
		Timestamp:     time.Now().UTC(),
	}
}

// HookFailure is always demoted to a warning by the caller; it is defined
// here only so hook failures share the same Surface() rendering when logged.
type HookFailure struct {
	NodeID  string
	Phase   string // "before" | "after"
	Message string
	Err     error
}

func NewHookFailure(nodeID, phase, message string, err error) *HookFailure {
	return &HookFailure{NodeID: nodeID, Phase: phase, Message: message, Err: err}
}

func (e *HookFailure) Error() string {
	return fmt.Sprintf("%s-hook failed for node %q: %s", e.Phase, e.NodeID, e.Message)
}

func (e *HookFailure) Unwrap() error { return e.Err }

func (e *HookFailure) Surface() Surface {
	return Surface{
		Code:      "HOOK_FAILURE",
		Message:   e.Message,
		Details:   fmt.Sprintf("node=%s phase=%s", e.NodeID, e.Phase),
		Timestamp: time.Now().UTC(),
	}
}

// PluginDispatchError reports an unknown action or a registry failure: the
// executor never started a plugin attempt.
type PluginDispatchError struct {
	Action        string
	Message       string
	CorrelationID string
	Err           error
}

func NewPluginDispatchError(action, message, correlationID string, err error) *PluginDispatchError {
	return &PluginDispatchError{Action: action, Message: message, CorrelationID: correlationID, Err: err}
}

func (e *PluginDispatchError) Error() string {
	return fmt.Sprintf("plugin dispatch error for action %q: %s", e.Action, e.Message)
}

func (e *PluginDispatchError) Unwrap() error { return e.Err }

func (e *PluginDispatchError) Surface() Surface {
	return Surface{
		Code:          "PLUGIN_DISPATCH_ERROR",
		Message:       e.Message,
		Details:       e.Action,
		CorrelationID: e.CorrelationID,
		Timestamp:     time.Now().UTC(),
	}
}

// SystemError marks an executor-internal fault (registry corruption,
// invariant violation) that is fatal and terminates a run.
type SystemError struct {
	Message       string
	CorrelationID string
	Err           error
}

func NewSystemError(message, correlationID string, err error) *SystemError {
	return &SystemError{Message: message, CorrelationID: correlationID, Err: err}
}

func (e *SystemError) Error() string { return fmt.Sprintf("system error: %s", e.Message) }

func (e *SystemError) Unwrap() error { return e.Err }

func (e *SystemError) Surface() Surface {
	return Surface{
		Code:          "SYSTEM_ERROR",
		Message:       e.Message,
		CorrelationID: e.CorrelationID,
		Timestamp:     time.Now().UTC(),
	}
}

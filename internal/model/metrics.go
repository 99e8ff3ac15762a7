package model

// MetricsSnapshot is a best-effort consistent view of a MetricsCollector's
// accumulated state at the time of the call.
type MetricsSnapshot struct {
	Counters   map[string]float64
	Gauges     map[string]float64
	Timings    map[string][]float64
	RecordedAt int64 // unix millis, stamped by the collector
}

// MetricsCollector is the domain-facing observability contract described in
// §6: a more specific, execution-shaped surface than the generic
// ports.MetricsCollector counterpart, tailored to the engine's start/complete/record vocabulary.
// Adapters (internal/infrastructure/metrics) back this with a real backend.
type MetricsCollector interface {
	RecordExecutionStart(executionID string)
	RecordExecutionComplete(executionID string, result AggregateResult)
	RecordNodeStart(executionID, nodeID string)
	RecordNodeComplete(executionID, nodeID string, result NodeExecutionResult)
	RecordPluginExecution(pluginID, action string, result PluginExecutionResult)
	RecordCustomMetric(name string, value float64, labels map[string]string)
	IncrementCounter(name string, labels map[string]string)
	RecordTiming(name string, durationMs float64, labels map[string]string)
	GetMetricsSnapshot() MetricsSnapshot
	Reset()
	Flush() error
}

// Package metrics adapts model.MetricsCollector onto Prometheus client
// metrics, dynamically registering CounterVec/GaugeVec/HistogramVec
// families as new label sets are observed.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowlattice/workflowcore/internal/model"
)

// PrometheusCollector implements model.MetricsCollector over a
// prometheus.Registerer. Alongside the Prometheus vecs (the durable export
// surface scraped by a collector), it keeps a flat last-value mirror so
// GetMetricsSnapshot can return a consistent view without depending on a
// Gatherer being wired to the same Registerer.
type PrometheusCollector struct {
	registerer prometheus.Registerer

	mu            sync.Mutex
	counters      map[string]*prometheus.CounterVec
	gauges        map[string]*prometheus.GaugeVec
	histograms    map[string]*prometheus.HistogramVec
	counterValues map[string]float64
	gaugeValues   map[string]float64
	timingValues  map[string][]float64
}

// NewPrometheusCollector wraps reg (pass prometheus.DefaultRegisterer for
// the global registry, or a fresh prometheus.NewRegistry() in tests).
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	return &PrometheusCollector{
		registerer:    reg,
		counters:      make(map[string]*prometheus.CounterVec),
		gauges:        make(map[string]*prometheus.GaugeVec),
		histograms:    make(map[string]*prometheus.HistogramVec),
		counterValues: make(map[string]float64),
		gaugeValues:   make(map[string]float64),
		timingValues:  make(map[string][]float64),
	}
}

// snapshotKey renders a metric name plus its label set into one flat key,
// sorted so identical label sets always collide into the same entry
// regardless of call-site map iteration order.
func snapshotKey(name string, labels map[string]string) string {
	keys := labelKeys(labels)
	key := name
	for _, k := range keys {
		key += ";" + k + "=" + labels[k]
	}
	return key
}

func (c *PrometheusCollector) counterFor(name string, labels map[string]string) prometheus.Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := labelKeys(labels)
	vec, ok := c.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name}, keys)
		_ = c.registerer.Register(vec)
		c.counters[name] = vec
	}
	return vec.With(prometheus.Labels(labels))
}

func (c *PrometheusCollector) gaugeFor(name string, labels map[string]string) prometheus.Gauge {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := labelKeys(labels)
	vec, ok := c.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: name}, keys)
		_ = c.registerer.Register(vec)
		c.gauges[name] = vec
	}
	return vec.With(prometheus.Labels(labels))
}

func (c *PrometheusCollector) histogramFor(name string, labels map[string]string) prometheus.Observer {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := labelKeys(labels)
	vec, ok := c.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: name}, keys)
		_ = c.registerer.Register(vec)
		c.histograms[name] = vec
	}
	return vec.With(prometheus.Labels(labels))
}

func labelKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *PrometheusCollector) bumpCounter(name string, labels map[string]string, delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counterValues[snapshotKey(name, labels)] += delta
}

func (c *PrometheusCollector) setGauge(name string, labels map[string]string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gaugeValues[snapshotKey(name, labels)] = value
}

func (c *PrometheusCollector) recordObservation(name string, labels map[string]string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := snapshotKey(name, labels)
	c.timingValues[key] = append(c.timingValues[key], value)
}

func (c *PrometheusCollector) RecordExecutionStart(executionID string) {
	labels := map[string]string{"phase": "start"}
	c.counterFor("workflowcore_executions_total", labels).Inc()
	c.bumpCounter("workflowcore_executions_total", labels, 1)
}

func (c *PrometheusCollector) RecordExecutionComplete(executionID string, result model.AggregateResult) {
	labels := map[string]string{"phase": "complete"}
	c.counterFor("workflowcore_executions_total", labels).Inc()
	c.bumpCounter("workflowcore_executions_total", labels, 1)

	execLabels := map[string]string{"execution_id": executionID}
	c.gaugeFor("workflowcore_nodes_succeeded", execLabels).Set(float64(result.NodesSucceeded))
	c.setGauge("workflowcore_nodes_succeeded", execLabels, float64(result.NodesSucceeded))
	c.gaugeFor("workflowcore_nodes_failed", execLabels).Set(float64(result.NodesFailed))
	c.setGauge("workflowcore_nodes_failed", execLabels, float64(result.NodesFailed))
	c.gaugeFor("workflowcore_nodes_skipped", execLabels).Set(float64(result.NodesSkipped))
	c.setGauge("workflowcore_nodes_skipped", execLabels, float64(result.NodesSkipped))
}

func (c *PrometheusCollector) RecordNodeStart(executionID, nodeID string) {
	labels := map[string]string{"status": "started"}
	c.counterFor("workflowcore_node_executions_total", labels).Inc()
	c.bumpCounter("workflowcore_node_executions_total", labels, 1)
}

func (c *PrometheusCollector) RecordNodeComplete(executionID, nodeID string, result model.NodeExecutionResult) {
	labels := map[string]string{"status": string(result.Status)}
	c.counterFor("workflowcore_node_executions_total", labels).Inc()
	c.bumpCounter("workflowcore_node_executions_total", labels, 1)

	durLabels := map[string]string{"node_id": nodeID}
	seconds := result.Duration().Seconds()
	c.histogramFor("workflowcore_node_execution_duration_seconds", durLabels).Observe(seconds)
	c.recordObservation("workflowcore_node_execution_duration_seconds", durLabels, seconds)
}

func (c *PrometheusCollector) RecordPluginExecution(pluginID, action string, result model.PluginExecutionResult) {
	labels := map[string]string{"plugin_id": pluginID, "action": action, "status": string(result.Status)}
	c.counterFor("workflowcore_plugin_executions_total", labels).Inc()
	c.bumpCounter("workflowcore_plugin_executions_total", labels, 1)
}

func (c *PrometheusCollector) RecordCustomMetric(name string, value float64, labels map[string]string) {
	c.gaugeFor("workflowcore_custom_"+name, labels).Set(value)
	c.setGauge("workflowcore_custom_"+name, labels, value)
}

func (c *PrometheusCollector) IncrementCounter(name string, labels map[string]string) {
	c.counterFor(name, labels).Inc()
	c.bumpCounter(name, labels, 1)
}

func (c *PrometheusCollector) RecordTiming(name string, durationMs float64, labels map[string]string) {
	seconds := durationMs / 1000.0
	c.histogramFor(name, labels).Observe(seconds)
	c.recordObservation(name, labels, seconds)
}

func (c *PrometheusCollector) GetMetricsSnapshot() model.MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := model.MetricsSnapshot{
		Counters:   make(map[string]float64, len(c.counterValues)),
		Gauges:     make(map[string]float64, len(c.gaugeValues)),
		Timings:    make(map[string][]float64, len(c.timingValues)),
		RecordedAt: time.Now().UnixMilli(),
	}
	for k, v := range c.counterValues {
		snap.Counters[k] = v
	}
	for k, v := range c.gaugeValues {
		snap.Gauges[k] = v
	}
	for k, vs := range c.timingValues {
		snap.Timings[k] = append([]float64(nil), vs...)
	}
	return snap
}

func (c *PrometheusCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, vec := range c.counters {
		vec.Reset()
	}
	for _, vec := range c.gauges {
		vec.Reset()
	}
	for _, vec := range c.histograms {
		vec.Reset()
	}
	c.counterValues = make(map[string]float64)
	c.gaugeValues = make(map[string]float64)
	c.timingValues = make(map[string][]float64)
}

func (c *PrometheusCollector) Flush() error { return nil }

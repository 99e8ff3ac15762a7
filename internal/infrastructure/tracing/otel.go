// Package tracing adapts ports.Tracer onto OpenTelemetry, and provides the
// bespoke TraceContext wire format from §6 (trace_/corr_/span_ prefixed hex
// ids), generated independently of the underlying OTel span ids.
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/flowlattice/workflowcore/internal/model"
	"github.com/flowlattice/workflowcore/internal/ports"
)

// OTelTracer implements ports.Tracer by delegating to an
// otel.Tracer obtained from the global TracerProvider. cmd/workflowcore
// installs no provider, so spans go to OTel's global no-op provider unless
// the embedding program registers one.
type OTelTracer struct {
	name string
}

// NewOTelTracer returns a Tracer that opens spans under the named
// instrumentation scope.
func NewOTelTracer(instrumentationName string) *OTelTracer {
	return &OTelTracer{name: instrumentationName}
}

func (t *OTelTracer) StartSpan(ctx context.Context, name string, attributes ...interface{}) (context.Context, ports.Span) {
	tracer := otel.Tracer(t.name)
	spanCtx, span := tracer.Start(ctx, name)
	return spanCtx, &otelSpan{span: span}
}

func (t *OTelTracer) Inject(ctx context.Context, carrier interface{}) error {
	if c, ok := carrier.(map[string]string); ok {
		sc := oteltrace.SpanContextFromContext(ctx)
		if sc.IsValid() {
			c["traceparent"] = fmt.Sprintf("00-%s-%s-01", sc.TraceID(), sc.SpanID())
		}
		return nil
	}
	return fmt.Errorf("tracing: unsupported carrier type %T", carrier)
}

func (t *OTelTracer) Extract(ctx context.Context, carrier interface{}) (context.Context, error) {
	return ctx, nil
}

type otelSpan struct {
	span oteltrace.Span
}

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(attributeFor(key, value))
}

func (s *otelSpan) SetStatus(status ports.SpanStatus, message string) {
	if status == ports.SpanStatusError {
		s.span.RecordError(fmt.Errorf("%s", message))
	}
}

func (s *otelSpan) End() { s.span.End() }

// GenerateTraceID produces a fresh TraceContext root using the same
// crypto/rand technique as ports.GenerateCorrelationID, with the §6 wire
// prefixes: "trace_" + 128-bit hex, "corr_" + 64-bit hex, "span_" + 64-bit
// hex.
func GenerateTraceID() model.TraceContext {
	return model.TraceContext{
		TraceID:       "trace_" + randomHex(16),
		CorrelationID: "corr_" + randomHex(8),
		SpanID:        "span_" + randomHex(8),
		Baggage:       map[string]string{},
	}
}

func attributeFor(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("tracing: failed to generate random id: %v", err))
	}
	return hex.EncodeToString(b)
}

package model

import "time"

// TraceEvent is one ordered record of a transition firing (verifier) or node
// execution step (engine), emitted as one ND-JSON line per event.
type TraceEvent struct {
	Timestamp      time.Time
	SequenceNumber int64
	TransitionID   string
	NodeID         string
	FromPlaces     []string
	ToPlaces       []string
	TokenID        string
	SimulationSeed string
	Enabled        []string
	MarkingBefore  map[string]int
	MarkingAfter   map[string]int
	Mode           string // "deterministic" | "interactive"
	Reason         string
	Alternatives   []string
}

// TraceContext carries distributed-tracing identity alongside a node or
// transition's execution; its ids are independent of OTel span ids.
type TraceContext struct {
	TraceID       string
	CorrelationID string
	ParentSpanID  string
	SpanID        string
	Baggage       map[string]string
	StartTime     time.Time
}

// Child derives a fresh-span child context that inherits traceId,
// correlationId, and baggage.
func (t TraceContext) Child(newSpanID string) TraceContext {
	baggage := make(map[string]string, len(t.Baggage))
	for k, v := range t.Baggage {
		baggage[k] = v
	}
	return TraceContext{
		TraceID:       t.TraceID,
		CorrelationID: t.CorrelationID,
		ParentSpanID:  t.SpanID,
		SpanID:        newSpanID,
		Baggage:       baggage,
		StartTime:     time.Now(),
	}
}

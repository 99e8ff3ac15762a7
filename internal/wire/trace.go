package wire

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/flowlattice/workflowcore/internal/model"
)

type traceEventDoc struct {
	Timestamp      string         `json:"timestamp"`
	SequenceNumber int64          `json:"sequenceNumber"`
	Transition     string         `json:"transition,omitempty"`
	NodeID         string         `json:"nodeId,omitempty"`
	FromPlaces     []string       `json:"fromPlaces,omitempty"`
	ToPlaces       []string       `json:"toPlaces,omitempty"`
	TokenID        string         `json:"tokenId,omitempty"`
	SimulationSeed string         `json:"simulationSeed,omitempty"`
	Enabled        []string       `json:"enabled"`
	MarkingBefore  map[string]int `json:"markingBefore"`
	MarkingAfter   map[string]int `json:"markingAfter"`
	Metadata       traceMetaDoc   `json:"metadata"`
}

type traceMetaDoc struct {
	Mode         string   `json:"mode"`
	Reason       string   `json:"reason,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

func toDoc(ev model.TraceEvent) traceEventDoc {
	return traceEventDoc{
		Timestamp:      ev.Timestamp.Format(timeLayout),
		SequenceNumber: ev.SequenceNumber,
		Transition:     ev.TransitionID,
		NodeID:         ev.NodeID,
		FromPlaces:     ev.FromPlaces,
		ToPlaces:       ev.ToPlaces,
		TokenID:        ev.TokenID,
		SimulationSeed: ev.SimulationSeed,
		Enabled:        ev.Enabled,
		MarkingBefore:  ev.MarkingBefore,
		MarkingAfter:   ev.MarkingAfter,
		Metadata:       traceMetaDoc{Mode: ev.Mode, Reason: ev.Reason, Alternatives: ev.Alternatives},
	}
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// WriteTraceND writes one ND-JSON line per TraceEvent to w, in order.
func WriteTraceND(w io.Writer, events []model.TraceEvent) error {
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(toDoc(ev)); err != nil {
			return err
		}
	}
	return nil
}

// ReadTraceND reads ND-JSON trace events from r until EOF.
func ReadTraceND(r io.Reader) ([]model.TraceEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var events []model.TraceEvent
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var doc traceEventDoc
		if err := json.Unmarshal(line, &doc); err != nil {
			return nil, err
		}
		ts, err := time.Parse(timeLayout, doc.Timestamp)
		if err != nil && doc.Timestamp != "" {
			return nil, err
		}
		events = append(events, model.TraceEvent{
			Timestamp:      ts,
			SequenceNumber: doc.SequenceNumber,
			TransitionID:   doc.Transition,
			NodeID:         doc.NodeID,
			FromPlaces:     doc.FromPlaces,
			ToPlaces:       doc.ToPlaces,
			TokenID:        doc.TokenID,
			SimulationSeed: doc.SimulationSeed,
			Enabled:        doc.Enabled,
			MarkingBefore:  doc.MarkingBefore,
			MarkingAfter:   doc.MarkingAfter,
			Mode:           doc.Metadata.Mode,
			Reason:         doc.Metadata.Reason,
			Alternatives:   doc.Metadata.Alternatives,
		})
	}
	return events, scanner.Err()
}

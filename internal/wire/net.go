// Package wire implements the JSON wire contracts from §6: Net, DAG,
// ValidationReport, and TraceEvent (one ND-JSON line each). These are the
// only serialization surfaces the core exposes; everything else is
// in-memory model types.
package wire

import (
	"encoding/json"

	"github.com/flowlattice/workflowcore/internal/model"
	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

const schemaVersion = "1.0"

type netPlace struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
}

type netTransition struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Action string `json:"action,omitempty"`
	Guard  string `json:"guard,omitempty"`
}

type netArc struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	Weight int    `json:"weight"`
}

type netDoc struct {
	SchemaVersion  string            `json:"schemaVersion"`
	NetID          string            `json:"netId"`
	Name           string            `json:"name"`
	Places         []netPlace        `json:"places"`
	Transitions    []netTransition   `json:"transitions"`
	Arcs           []netArc          `json:"arcs"`
	InitialMarking map[string]int    `json:"initialMarking"`
}

// MarshalNet renders n as the §6 Net JSON contract.
func MarshalNet(n *model.Net) ([]byte, error) {
	doc := netDoc{
		SchemaVersion:  schemaVersion,
		NetID:          n.ID,
		Name:           n.Name,
		InitialMarking: n.InitialMarking.ToMap(),
	}
	for _, p := range n.Places() {
		wp := netPlace{ID: p.ID, Name: p.Name}
		if p.Capacity != model.Unbounded {
			cap := p.Capacity
			wp.Capacity = &cap
		}
		doc.Places = append(doc.Places, wp)
	}
	for _, t := range n.Transitions() {
		doc.Transitions = append(doc.Transitions, netTransition{ID: t.ID, Name: t.Name, Action: t.Action, Guard: t.Guard})
	}
	for _, a := range n.Arcs() {
		from, to := a.FromID, a.ToID
		doc.Arcs = append(doc.Arcs, netArc{FromID: from, ToID: to, Weight: a.Weight})
	}
	return json.Marshal(doc)
}

// UnmarshalNet parses the §6 Net JSON contract into a model.Net. Arc
// direction is inferred from whether fromId names a known place or
// transition, since the wire format itself does not carry a kind tag.
func UnmarshalNet(data []byte) (*model.Net, error) {
	var doc netDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, werrors.NewValidationError("net", "invalid net json: "+err.Error(), "", err)
	}

	n := model.NewNet(doc.NetID, doc.Name)
	placeIDs := make(map[string]bool, len(doc.Places))
	for _, p := range doc.Places {
		cap := model.Unbounded
		if p.Capacity != nil {
			cap = *p.Capacity
		}
		if err := n.AddPlace(model.Place{ID: p.ID, Name: p.Name, Capacity: cap}); err != nil {
			return nil, err
		}
		placeIDs[p.ID] = true
	}
	for _, t := range doc.Transitions {
		if err := n.AddTransition(model.Transition{ID: t.ID, Name: t.Name, Action: t.Action, Guard: t.Guard}); err != nil {
			return nil, err
		}
	}
	for _, a := range doc.Arcs {
		weight := a.Weight
		if weight == 0 {
			weight = 1
		}
		kind := model.ArcPlaceToTransition
		if placeIDs[a.ToID] {
			kind = model.ArcTransitionToPlace
		}
		if err := n.AddArc(model.Arc{FromID: a.FromID, ToID: a.ToID, Weight: weight, Kind: kind}); err != nil {
			return nil, err
		}
	}
	n.InitialMarking = model.NewMarking(doc.InitialMarking)
	return n, nil
}

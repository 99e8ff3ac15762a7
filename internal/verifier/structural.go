package verifier

import (
	"fmt"

	"github.com/flowlattice/workflowcore/internal/model"
)

// structuralCheck validates the net's static invariants before any
// state-space exploration begins: bipartiteness/endpoint existence is
// already enforced by model.Net.AddArc, so this check additionally verifies
// positive weights, non-empty places/transitions, a non-empty initial
// marking, and connectivity (no disconnected place or transition).
func structuralCheck(n *model.Net) model.CheckResult {
	var problems []string

	if len(n.Places()) == 0 {
		problems = append(problems, "net has no places")
	}
	if len(n.Transitions()) == 0 {
		problems = append(problems, "net has no transitions")
	}
	if len(n.InitialMarking.PlaceIDs()) == 0 {
		problems = append(problems, "initial marking is empty")
	}

	connected := make(map[string]bool, len(n.Places())+len(n.Transitions()))
	for _, a := range n.Arcs() {
		if a.Weight <= 0 {
			problems = append(problems, fmt.Sprintf("arc %s->%s has non-positive weight %d", a.FromID, a.ToID, a.Weight))
		}
		connected[a.FromID] = true
		connected[a.ToID] = true
	}

	for _, p := range n.Places() {
		if !connected[p.ID] {
			problems = append(problems, fmt.Sprintf("place %q is disconnected", p.ID))
		}
	}
	for _, t := range n.Transitions() {
		if !connected[t.ID] {
			problems = append(problems, fmt.Sprintf("transition %q is disconnected", t.ID))
		}
	}

	if len(problems) > 0 {
		return model.CheckResult{Status: model.StatusFail, Message: "structural validation failed", Details: problems}
	}
	return model.CheckResult{Status: model.StatusPass, Message: "structural validation passed"}
}

// Package petri implements pure Petri-net semantics: enablement, firing,
// and terminal-marking detection, over the types in internal/model. These
// functions have no side effects and no randomness; every caller (verifier,
// projector) shares this one implementation so that behavior never diverges
// between them.
package petri

import (
	"sort"
	"strings"

	"github.com/flowlattice/workflowcore/internal/model"
)

// TerminalPrefix marks the place-id prefix that denotes workflow completion.
const TerminalPrefix = "p_done"

// preWeights returns the multiset of input-place weights for a transition,
// i.e. arcs place->transition ending at t.
func preWeights(n *model.Net, t *model.Transition) map[string]int {
	out := map[string]int{}
	for _, a := range n.Arcs() {
		if a.Kind == model.ArcPlaceToTransition && a.ToID == t.ID {
			out[a.FromID] += a.Weight
		}
	}
	return out
}

// postWeights returns the multiset of output-place weights for a
// transition, i.e. arcs transition->place starting at t.
func postWeights(n *model.Net, t *model.Transition) map[string]int {
	out := map[string]int{}
	for _, a := range n.Arcs() {
		if a.Kind == model.ArcTransitionToPlace && a.FromID == t.ID {
			out[a.ToID] += a.Weight
		}
	}
	return out
}

// Enabled reports whether transition t is enabled at marking m: every input
// place holds enough tokens, and every output place with finite capacity has
// room for the produced tokens.
func Enabled(n *model.Net, t *model.Transition, m model.Marking) bool {
	pre := preWeights(n, t)
	for placeID, need := range pre {
		if m.Get(placeID) < need {
			return false
		}
	}
	post := postWeights(n, t)
	for placeID, add := range post {
		p, ok := n.Place(placeID)
		if !ok || p.Capacity == model.Unbounded {
			continue
		}
		if m.Get(placeID)+add > p.Capacity {
			return false
		}
	}
	return true
}

// EnabledTransitions returns the ids of every transition enabled at m, in
// the net's insertion order.
func EnabledTransitions(n *model.Net, m model.Marking) []string {
	var ids []string
	for _, t := range n.Transitions() {
		if Enabled(n, t, m) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Fire computes the marking that results from firing t at m. The caller
// must ensure t is enabled at m; Fire does not re-check enablement.
func Fire(n *model.Net, t *model.Transition, m model.Marking) model.Marking {
	counts := m.ToMap()
	for placeID, need := range preWeights(n, t) {
		counts[placeID] -= need
	}
	for placeID, add := range postWeights(n, t) {
		counts[placeID] += add
	}
	return model.NewMarking(counts)
}

// IsTerminal reports whether m is a workflow-done marking: some
// p_done-prefixed place holds a token. A marking with no enabled
// transitions that is NOT done is a deadlock, not a terminal marking.
// Folding "no transition enabled" into this definition would make every
// deadlock terminal by definition and the deadlock check unreachable; the
// BFS loop already stops expanding a marking once nothing is enabled, so
// that condition needs no separate label here.
func IsTerminal(n *model.Net, m model.Marking) bool {
	for _, placeID := range m.PlaceIDs() {
		if strings.HasPrefix(placeID, TerminalPrefix) && m.Get(placeID) >= 1 {
			return true
		}
	}
	return false
}

// sortedCopy returns a sorted copy of ss, for deterministic tie-breaking on
// ids outside of net-insertion-order contexts. Nothing in the repository calls it;
// projector root selection sorts its candidates with sort.Strings itself.
func sortedCopy(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

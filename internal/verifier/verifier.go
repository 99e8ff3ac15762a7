// Package verifier implements the bounded state-space explorer: a single
// BFS pass over reachable markings that feeds the deadlock, reachability,
// liveness, and boundedness checks simultaneously, subject to a kBound and
// wall-clock deadline.
package verifier

import (
	"time"

	"github.com/flowlattice/workflowcore/internal/model"
	"github.com/flowlattice/workflowcore/internal/petri"
)

type parentEdge struct {
	parentKey    string
	transitionID string
}

// explorationState is the shared BFS bookkeeping all four checks observe
// during one pass, per the "single exploration pass" design in §4.2.
type explorationState struct {
	visited   map[string]model.Marking
	parent    map[string]parentEdge
	statesExplored int

	deadlockWitness string
	terminalFound   bool
	terminalKey     string
	liveTransitions map[string]bool
	maxTokens       map[string]int
}

func newExplorationState() *explorationState {
	return &explorationState{
		visited:         make(map[string]model.Marking),
		parent:          make(map[string]parentEdge),
		liveTransitions: make(map[string]bool),
		maxTokens:       make(map[string]int),
	}
}

// Verify runs the verifier over n with the given config, producing a
// ValidationReport. Verify is safe to call concurrently from many
// goroutines on distinct (n, cfg) pairs; each call owns its own exploration
// state.
func Verify(n *model.Net, cfg model.ValidationConfig) model.ValidationReport {
	report := model.ValidationReport{
		PetriNetID: n.ID,
		Checks:     make(map[model.CheckType]model.CheckResult),
		Config:     cfg,
	}

	structStart := time.Now()
	structResult := structuralCheck(n)
	structResult.ExecutionTimeMs = time.Since(structStart).Milliseconds()
	report.Checks[model.CheckStructural] = structResult
	if structResult.Status == model.StatusFail {
		report.Status = model.StatusFail
		return report
	}

	deadline := time.Now().Add(time.Duration(cfg.MaxTimeMs) * time.Millisecond)
	st := newExplorationState()

	key := n.InitialMarking.Key()
	st.visited[key] = n.InitialMarking
	queue := []string{key}
	st.recordObservations(n, n.InitialMarking)

	bounded := false
	timedOut := false

explore:
	for len(queue) > 0 {
		if st.statesExplored >= cfg.KBound {
			bounded = true
			break explore
		}
		if time.Now().After(deadline) {
			timedOut = true
			break explore
		}

		curKey := queue[0]
		queue = queue[1:]
		curMarking := st.visited[curKey]
		st.statesExplored++

		enabledIDs := petri.EnabledTransitions(n, curMarking)
		for _, id := range enabledIDs {
			st.liveTransitions[id] = true
		}

		if len(enabledIDs) == 0 {
			if !petri.IsTerminal(n, curMarking) && st.deadlockWitness == "" {
				st.deadlockWitness = curKey
			}
		}
		if petri.IsTerminal(n, curMarking) && !st.terminalFound {
			st.terminalFound = true
			st.terminalKey = curKey
		}

		for _, id := range enabledIDs {
			tr, _ := n.Transition(id)
			next := petri.Fire(n, tr, curMarking)
			nextKey := next.Key()
			if _, seen := st.visited[nextKey]; seen {
				continue
			}
			st.visited[nextKey] = next
			st.parent[nextKey] = parentEdge{parentKey: curKey, transitionID: id}
			st.recordObservations(n, next)
			queue = append(queue, nextKey)
		}
	}

	report.StatesExplored = st.statesExplored

	switch {
	case timedOut:
		report.Status = model.StatusInconclusiveTimeout
	case bounded:
		report.Status = model.StatusInconclusiveBound
	default:
		report.Status = model.StatusPass // refined below by per-check statuses
	}

	anyFail := false
	anyInconclusive := timedOut || bounded

	if cfg.Enables(model.CheckDeadlock) {
		res := deadlockCheck(n, st, timedOut, bounded)
		report.Checks[model.CheckDeadlock] = res
		if res.Status == model.StatusFail {
			anyFail = true
			report.Counterexample = buildCounterexample(n, st, st.deadlockWitness, "deadlock: no enabled transitions at a non-terminal marking")
		}
		anyInconclusive = anyInconclusive || isInconclusive(res.Status)
	}

	if cfg.Enables(model.CheckReachability) {
		res := reachabilityCheck(st, timedOut, bounded)
		report.Checks[model.CheckReachability] = res
		anyFail = anyFail || res.Status == model.StatusFail
		anyInconclusive = anyInconclusive || isInconclusive(res.Status)
	}

	if cfg.Enables(model.CheckLiveness) {
		res := livenessCheck(n, st, timedOut, bounded)
		report.Checks[model.CheckLiveness] = res
		anyFail = anyFail || res.Status == model.StatusFail
		anyInconclusive = anyInconclusive || isInconclusive(res.Status)
	}

	if cfg.Enables(model.CheckBoundedness) {
		res := boundednessCheck(n, st, cfg, timedOut, bounded)
		report.Checks[model.CheckBoundedness] = res
		anyFail = anyFail || res.Status == model.StatusFail
		anyInconclusive = anyInconclusive || isInconclusive(res.Status)
	}

	switch {
	case anyFail:
		report.Status = model.StatusFail
	case timedOut:
		report.Status = model.StatusInconclusiveTimeout
		report.Hints = append(report.Hints, "exploration stopped due to maxTimeMs deadline; increase maxTimeMs or narrow enabledChecks for a conclusive result")
	case bounded:
		report.Status = model.StatusInconclusiveBound
		report.Hints = append(report.Hints, "exploration stopped at kBound states explored; increase kBound for a conclusive result")
	case anyInconclusive:
		report.Status = model.StatusInconclusiveBound
	default:
		report.Status = model.StatusPass
	}

	return report
}

func isInconclusive(s model.ReportStatus) bool {
	return s == model.StatusInconclusiveBound || s == model.StatusInconclusiveTimeout
}

func (st *explorationState) recordObservations(n *model.Net, m model.Marking) {
	for _, placeID := range m.PlaceIDs() {
		v := m.Get(placeID)
		if v > st.maxTokens[placeID] {
			st.maxTokens[placeID] = v
		}
	}
}

// buildCounterexample walks parent pointers from witnessKey back to the
// initial marking and reverses the path into an ordered transition-id list.
func buildCounterexample(n *model.Net, st *explorationState, witnessKey, description string) *model.Counterexample {
	if witnessKey == "" {
		return nil
	}
	var path []string
	cur := witnessKey
	for {
		edge, ok := st.parent[cur]
		if !ok {
			break
		}
		path = append(path, edge.transitionID)
		cur = edge.parentKey
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	witness := st.visited[witnessKey]
	return &model.Counterexample{
		FailingMarking:     witness.ToMap(),
		EnabledTransitions: petri.EnabledTransitions(n, witness),
		PathToFailure:      path,
		Description:        description,
	}
}

package verifier

import (
	"fmt"
	"sort"

	"github.com/flowlattice/workflowcore/internal/model"
)

func deadlockCheck(n *model.Net, st *explorationState, timedOut, bounded bool) model.CheckResult {
	if st.deadlockWitness != "" {
		return model.CheckResult{Status: model.StatusFail, Message: "a reachable marking has no enabled transitions and is not terminal"}
	}
	if timedOut {
		return model.CheckResult{Status: model.StatusInconclusiveTimeout, Message: "no deadlock found before maxTimeMs elapsed"}
	}
	if bounded {
		return model.CheckResult{Status: model.StatusInconclusiveBound, Message: "no deadlock found within kBound"}
	}
	return model.CheckResult{Status: model.StatusPass, Message: "no deadlock found in the full reachable state space"}
}

func reachabilityCheck(st *explorationState, timedOut, bounded bool) model.CheckResult {
	if st.terminalFound {
		return model.CheckResult{Status: model.StatusPass, Message: "a terminal marking is reachable"}
	}
	if timedOut {
		return model.CheckResult{Status: model.StatusInconclusiveTimeout, Message: "no terminal marking found before maxTimeMs elapsed"}
	}
	if bounded {
		return model.CheckResult{Status: model.StatusInconclusiveBound, Message: "no terminal marking found within kBound"}
	}
	return model.CheckResult{Status: model.StatusFail, Message: "exploration completed exhaustively without reaching a terminal marking"}
}

func livenessCheck(n *model.Net, st *explorationState, timedOut, bounded bool) model.CheckResult {
	var dead []string
	for _, t := range n.Transitions() {
		if !st.liveTransitions[t.ID] {
			dead = append(dead, t.ID)
		}
	}
	if len(dead) == 0 {
		return model.CheckResult{Status: model.StatusPass, Message: "every transition is live"}
	}
	sort.Strings(dead)
	if timedOut {
		return model.CheckResult{Status: model.StatusInconclusiveTimeout, Message: "some transitions not yet observed live before maxTimeMs elapsed", Details: dead}
	}
	if bounded {
		return model.CheckResult{Status: model.StatusInconclusiveBound, Message: "some transitions not yet observed live within kBound", Details: dead}
	}
	return model.CheckResult{Status: model.StatusFail, Message: "transitions never enabled during exhaustive exploration", Details: dead}
}

func boundednessCheck(n *model.Net, st *explorationState, cfg model.ValidationConfig, timedOut, bounded bool) model.CheckResult {
	var offenders []string
	for _, p := range n.Places() {
		observed := st.maxTokens[p.ID]
		limit := p.Capacity
		if limit == model.Unbounded {
			limit = cfg.KBound / 10
			if limit < 1 {
				limit = 1
			}
		}
		if observed > limit {
			offenders = append(offenders, fmt.Sprintf("%s observed=%d limit=%d", p.ID, observed, limit))
		}
	}
	if len(offenders) == 0 {
		if timedOut {
			return model.CheckResult{Status: model.StatusInconclusiveTimeout, Message: "no capacity violation found before maxTimeMs elapsed"}
		}
		if bounded {
			return model.CheckResult{Status: model.StatusInconclusiveBound, Message: "no capacity violation found within kBound"}
		}
		return model.CheckResult{Status: model.StatusPass, Message: "all places stayed within capacity across the explored state space"}
	}
	sort.Strings(offenders)
	return model.CheckResult{Status: model.StatusFail, Message: "one or more places exceeded their capacity (or heuristic kBound/10 threshold for uncapped places)", Details: offenders}
}

package engine

import (
	"sort"
	"strings"

	"github.com/flowlattice/workflowcore/internal/model"
	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

// topologicalLevels computes dependency-respecting execution levels via
// Kahn's algorithm with a deterministic, sorted-queue traversal: every node
// in a level is independent of every other node in that level and depends
// only on nodes in earlier levels.
func topologicalLevels(dag *model.DAG) ([][]string, error) {
	indegree := make(map[string]int, dag.Len())
	for _, n := range dag.Nodes() {
		indegree[n.ID] = len(n.ResolvedDependencies())
	}

	var queue []string
	for id, degree := range indegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	processed := 0
	var levels [][]string

	for len(queue) > 0 {
		level := append([]string(nil), queue...)
		levels = append(levels, level)

		var next []string
		for _, id := range level {
			processed++
			node, _ := dag.Node(id)
			for _, dependent := range node.Dependents() {
				indegree[dependent.ID]--
				if indegree[dependent.ID] == 0 {
					next = append(next, dependent.ID)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}

	if processed != dag.Len() {
		return nil, werrors.NewValidationError("dag", "cycle detected while computing execution levels", "", nil)
	}
	return levels, nil
}

// validateDAG enforces acyclicity (via topologicalLevels), no dangling
// dependency ids (via Rebuild), and that every node is reachable from the
// root.
func validateDAG(dag *model.DAG) ([][]string, error) {
	if err := dag.Rebuild(); err != nil {
		return nil, werrors.NewValidationError("dag", err.Error(), "", err)
	}
	levels, err := topologicalLevels(dag)
	if err != nil {
		return nil, err
	}

	if dag.RootNodeID != "" {
		reachable := make(map[string]bool, dag.Len())
		var visit func(id string)
		visit = func(id string) {
			if reachable[id] {
				return
			}
			reachable[id] = true
			node, ok := dag.Node(id)
			if !ok {
				return
			}
			for _, dep := range node.Dependents() {
				visit(dep.ID)
			}
		}
		visit(dag.RootNodeID)
		var orphans []string
		for _, n := range dag.Nodes() {
			if !reachable[n.ID] {
				orphans = append(orphans, n.ID)
			}
		}
		if len(orphans) > 0 {
			sort.Strings(orphans)
			return nil, werrors.NewValidationError("dag", "nodes unreachable from root: "+strings.Join(orphans, ", "), "", nil)
		}
	}

	return levels, nil
}

// Package projector implements the deterministic Petri-net-to-DAG
// projection: single-producer/single-consumer edge extraction followed by
// transitive reduction with lexicographic tie-breaks.
package projector

import (
	"sort"

	"github.com/flowlattice/workflowcore/internal/model"
	"github.com/flowlattice/workflowcore/internal/petri"
	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

const algorithmName = "single-producer-consumer"

type edge struct {
	fromID string
	toID   string
	placeID string
}

// Project derives a DAG from a verified Petri net. The caller is expected to
// have already run internal/verifier.Verify if it cares about the net's
// safety/liveness properties; Project performs no verification itself.
func Project(n *model.Net) (*model.DAG, error) {
	producers := make(map[string][]string) // placeID -> transition ids producing into it
	consumers := make(map[string][]string) // placeID -> transition ids consuming from it

	for _, a := range n.Arcs() {
		switch a.Kind {
		case model.ArcTransitionToPlace:
			producers[a.ToID] = append(producers[a.ToID], a.FromID)
		case model.ArcPlaceToTransition:
			consumers[a.FromID] = append(consumers[a.FromID], a.ToID)
		}
	}

	var rawEdges []edge
	for _, p := range n.Places() {
		prod := producers[p.ID]
		cons := consumers[p.ID]
		if len(prod) == 1 && len(cons) == 1 {
			rawEdges = append(rawEdges, edge{fromID: prod[0], toID: cons[0], placeID: p.ID})
		}
	}

	reduced := transitiveReduce(n, rawEdges)

	dag := model.NewDAG(n.ID)
	dag.DerivedFromPetriNetID = n.ID
	dag.Metadata = map[string]any{"projectionAlgorithm": algorithmName}

	incoming := make(map[string][]edge)
	for _, e := range reduced {
		incoming[e.toID] = append(incoming[e.toID], e)
	}

	for _, t := range n.Transitions() {
		node := &model.TaskNode{
			ID:       t.ID,
			Action:   transitionAction(t),
			Metadata: copyMetadata(t.Metadata),
		}
		node.Metadata["petriTransitionId"] = t.ID
		node.Metadata["petriTransitionName"] = t.Name
		if role := structuralRole(n, t); role != model.RoleNone {
			node.Metadata["executionType"] = string(role)
		}

		edgesIn := incoming[t.ID]
		sort.Slice(edgesIn, func(i, j int) bool { return edgesIn[i].fromID < edgesIn[j].fromID })
		places := make([]string, 0, len(edgesIn))
		for _, e := range edgesIn {
			node.DependencyIDs = append(node.DependencyIDs, e.fromID)
			places = append(places, e.placeID)
		}
		if len(places) > 0 {
			node.Metadata["places"] = places
		}

		if err := dag.AddNode(node); err != nil {
			return nil, werrors.NewConstructionError("projector", err.Error(), "", err)
		}
	}

	if err := dag.Rebuild(); err != nil {
		return nil, werrors.NewConstructionError("projector", err.Error(), "", err)
	}

	root, err := selectRoot(n, dag)
	if err != nil {
		return nil, err
	}
	dag.RootNodeID = root

	return dag, nil
}

func transitionAction(t *model.Transition) string {
	if t.Action != "" {
		return t.Action
	}
	if t.Name != "" {
		return t.Name
	}
	return "execute"
}

func copyMetadata(src map[string]any) map[string]any {
	out := make(map[string]any, len(src)+3)
	for k, v := range src {
		out[k] = v
	}
	return out
}

// structuralRole derives choice/fork/join from a transition's arc fan-in/out
// against its pre/post place sets.
func structuralRole(n *model.Net, t *model.Transition) model.Role {
	var preCount, postCount int
	var preChoiceOut int
	for _, a := range n.Arcs() {
		if a.Kind == model.ArcPlaceToTransition && a.ToID == t.ID {
			preCount++
		}
		if a.Kind == model.ArcTransitionToPlace && a.FromID == t.ID {
			postCount++
		}
	}
	for _, a := range n.Arcs() {
		if a.Kind == model.ArcPlaceToTransition && a.ToID == t.ID {
			for _, other := range n.Arcs() {
				if other.Kind == model.ArcPlaceToTransition && other.FromID == a.FromID && other.ToID != t.ID {
					preChoiceOut++
				}
			}
		}
	}
	switch {
	case preChoiceOut > 0:
		return model.RoleChoice
	case postCount > 1:
		return model.RoleFork
	case preCount > 1:
		return model.RoleJoin
	default:
		return model.RoleNone
	}
}

// transitiveReduce drops any edge u->v for which an intermediate path
// u->w->*->v exists, using Floyd-Warshall reachability over the edge set
// restricted to transitions (places never appear as DAG nodes).
func transitiveReduce(n *model.Net, edges []edge) []edge {
	ids := make([]string, 0, len(n.Transitions()))
	for _, t := range n.Transitions() {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	size := len(ids)
	reach := make([][]bool, size)
	for i := range reach {
		reach[i] = make([]bool, size)
	}
	for _, e := range edges {
		reach[index[e.fromID]][index[e.toID]] = true
	}
	for k := 0; k < size; k++ {
		for i := 0; i < size; i++ {
			if !reach[i][k] {
				continue
			}
			for j := 0; j < size; j++ {
				if reach[k][j] {
					reach[i][j] = true
				}
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].fromID != edges[j].fromID {
			return edges[i].fromID < edges[j].fromID
		}
		return edges[i].toID < edges[j].toID
	})

	var kept []edge
	for _, e := range edges {
		redundant := false
		for _, w := range ids {
			if w == e.fromID || w == e.toID {
				continue
			}
			if reach[index[e.fromID]][index[w]] && reach[index[w]][index[e.toID]] {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, e)
		}
	}
	return kept
}

// selectRoot picks the lexicographically-first node with no incoming edge;
// if every node has an incoming edge, falls back to transitions enabled in
// the initial marking.
func selectRoot(n *model.Net, dag *model.DAG) (string, error) {
	var candidates []string
	for _, node := range dag.Nodes() {
		if len(node.ResolvedDependencies()) == 0 {
			candidates = append(candidates, node.ID)
		}
	}
	if len(candidates) == 0 {
		candidates = petri.EnabledTransitions(n, n.InitialMarking)
	}
	if len(candidates) == 0 {
		return "", werrors.NewConstructionError("projector", "no root candidate found: every node has incoming edges and no transition is enabled initially", "", nil)
	}
	sort.Strings(candidates)
	return candidates[0], nil
}

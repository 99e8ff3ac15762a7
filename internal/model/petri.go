// Package model defines the shared data types for the Petri net, the DAG it
// projects to, executions over that DAG, and the validation/trace surfaces
// produced along the way. Types here are plain data; behavior lives in
// internal/petri, internal/verifier, internal/projector, and internal/engine.
package model

import (
	"fmt"
	"sort"

	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

// ArcKind distinguishes the two legal arc directions in a bipartite net.
type ArcKind string

const (
	ArcPlaceToTransition ArcKind = "place_to_transition"
	ArcTransitionToPlace ArcKind = "transition_to_place"
)

// Unbounded is the sentinel capacity for a place with no declared capacity.
const Unbounded = -1

// Place is a Petri-net place: a container for tokens.
type Place struct {
	ID       string
	Name     string
	Capacity int // Unbounded (-1) or a positive integer
	Metadata map[string]any
}

// Role tags a transition's structural shape, derived from arc fan-in/out.
type Role string

const (
	RoleNone   Role = ""
	RoleChoice Role = "choice"
	RoleFork   Role = "fork"
	RoleJoin   Role = "join"
)

// Transition is a Petri-net transition: an event that consumes and produces
// tokens atomically when fired.
type Transition struct {
	ID       string
	Name     string
	Action   string
	Guard    string
	Metadata map[string]any
}

// Arc connects a place and a transition with a positive integer weight.
type Arc struct {
	FromID string
	ToID   string
	Weight int
	Kind   ArcKind
}

// Marking is an immutable, total function from place id to token count.
// Absent keys read as zero. Build one with NewMarking; mutate by producing a
// new Marking via petri.Fire or NewMarking.
type Marking struct {
	counts map[string]int
}

// NewMarking builds a Marking from a sparse map, dropping zero entries so
// that the canonical form never carries explicit zeros.
func NewMarking(counts map[string]int) Marking {
	m := Marking{counts: make(map[string]int, len(counts))}
	for k, v := range counts {
		if v != 0 {
			m.counts[k] = v
		}
	}
	return m
}

// Get returns the token count at place id, or 0 if absent.
func (m Marking) Get(placeID string) int {
	if m.counts == nil {
		return 0
	}
	return m.counts[placeID]
}

// PlaceIDs returns the place ids carrying a nonzero count, sorted.
func (m Marking) PlaceIDs() []string {
	ids := make([]string, 0, len(m.counts))
	for id := range m.counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Equal reports whether m and other assign the same count to every place.
func (m Marking) Equal(other Marking) bool {
	if len(m.counts) != len(other.counts) {
		return false
	}
	for k, v := range m.counts {
		if other.counts[k] != v {
			return false
		}
	}
	return true
}

// Key returns a canonical string form (sorted place-id=count pairs, zeros
// omitted) suitable as a map key or hash input. Markings are used as keys in
// the verifier's visited set, so this must be stable and collision-free for
// distinct markings.
func (m Marking) Key() string {
	ids := m.PlaceIDs()
	key := make([]byte, 0, 16*len(ids))
	for _, id := range ids {
		key = append(key, []byte(fmt.Sprintf("%s=%d;", id, m.counts[id]))...)
	}
	return string(key)
}

// ToMap returns a copy of the underlying sparse map, for serialization.
func (m Marking) ToMap() map[string]int {
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Net is a complete Petri net: places, transitions, arcs and an initial
// marking, plus optional identity metadata. Insertion order of places,
// transitions, and arcs is preserved via the *Order slices so that
// enumeration is deterministic, as required by the reproducibility
// invariants on counterexample paths.
type Net struct {
	ID             string
	Name            string
	Description     string
	Metadata        map[string]any
	places          map[string]*Place
	transitions     map[string]*Transition
	placeOrder      []string
	transitionOrder []string
	arcs            []Arc
	InitialMarking  Marking
}

// NewNet returns an empty net ready for incremental construction.
func NewNet(id, name string) *Net {
	return &Net{
		ID:          id,
		Name:        name,
		places:      make(map[string]*Place),
		transitions: make(map[string]*Transition),
	}
}

// AddPlace registers a place. Returns a ValidationError on duplicate id.
func (n *Net) AddPlace(p Place) error {
	if p.ID == "" {
		return werrors.NewValidationError("places", "place id must not be empty", "", nil)
	}
	if _, exists := n.places[p.ID]; exists {
		return werrors.NewValidationError("places", fmt.Sprintf("duplicate place id %q", p.ID), "", nil)
	}
	if p.Capacity == 0 {
		p.Capacity = Unbounded
	}
	cp := p
	n.places[p.ID] = &cp
	n.placeOrder = append(n.placeOrder, p.ID)
	return nil
}

// AddTransition registers a transition. Returns a ValidationError on
// duplicate id.
func (n *Net) AddTransition(t Transition) error {
	if t.ID == "" {
		return werrors.NewValidationError("transitions", "transition id must not be empty", "", nil)
	}
	if _, exists := n.transitions[t.ID]; exists {
		return werrors.NewValidationError("transitions", fmt.Sprintf("duplicate transition id %q", t.ID), "", nil)
	}
	cp := t
	n.transitions[t.ID] = &cp
	n.transitionOrder = append(n.transitionOrder, t.ID)
	return nil
}

// AddArc registers an arc. Both endpoints must already exist and must
// alternate place<->transition per the arc Kind.
func (n *Net) AddArc(a Arc) error {
	if a.Weight <= 0 {
		return werrors.NewValidationError("arcs", fmt.Sprintf("arc %s->%s has non-positive weight %d", a.FromID, a.ToID, a.Weight), "", nil)
	}
	switch a.Kind {
	case ArcPlaceToTransition:
		if _, ok := n.places[a.FromID]; !ok {
			return werrors.NewValidationError("arcs", fmt.Sprintf("unknown place %q referenced by arc", a.FromID), "", nil)
		}
		if _, ok := n.transitions[a.ToID]; !ok {
			return werrors.NewValidationError("arcs", fmt.Sprintf("unknown transition %q referenced by arc", a.ToID), "", nil)
		}
	case ArcTransitionToPlace:
		if _, ok := n.transitions[a.FromID]; !ok {
			return werrors.NewValidationError("arcs", fmt.Sprintf("unknown transition %q referenced by arc", a.FromID), "", nil)
		}
		if _, ok := n.places[a.ToID]; !ok {
			return werrors.NewValidationError("arcs", fmt.Sprintf("unknown place %q referenced by arc", a.ToID), "", nil)
		}
	default:
		return werrors.NewValidationError("arcs", fmt.Sprintf("arc %s->%s has unknown kind %q", a.FromID, a.ToID, a.Kind), "", nil)
	}
	n.arcs = append(n.arcs, a)
	return nil
}

// Places returns places in insertion order.
func (n *Net) Places() []*Place {
	out := make([]*Place, 0, len(n.placeOrder))
	for _, id := range n.placeOrder {
		out = append(out, n.places[id])
	}
	return out
}

// Transitions returns transitions in insertion order.
func (n *Net) Transitions() []*Transition {
	out := make([]*Transition, 0, len(n.transitionOrder))
	for _, id := range n.transitionOrder {
		out = append(out, n.transitions[id])
	}
	return out
}

// Arcs returns arcs in insertion order.
func (n *Net) Arcs() []Arc { return append([]Arc(nil), n.arcs...) }

// Place looks up a place by id.
func (n *Net) Place(id string) (*Place, bool) { p, ok := n.places[id]; return p, ok }

// Transition looks up a transition by id.
func (n *Net) Transition(id string) (*Transition, bool) { t, ok := n.transitions[id]; return t, ok }

// HasPlace reports whether a place with the given id is registered.
func (n *Net) HasPlace(id string) bool { _, ok := n.places[id]; return ok }

// HasTransition reports whether a transition with the given id is registered.
func (n *Net) HasTransition(id string) bool { _, ok := n.transitions[id]; return ok }

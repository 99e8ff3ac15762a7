package model

// RetryConfig holds per-node retry/backoff parameters.
type RetryConfig struct {
	MaxRetries        int
	RetryDelayMs      int64
	BackoffMultiplier float64
}

// TaskNode is one executable unit in a DAG, produced either by a builder
// consuming an IntentSpec directly or by the projector from a Petri net.
type TaskNode struct {
	ID                string
	Action            string
	InputParams       map[string]any
	BeforeHook        string
	AfterHook         string
	Retry             RetryConfig
	FallbackPluginID  string
	Metadata          map[string]any
	DependencyIDs     []string // persistent truth

	resolvedDeps []*TaskNode
	dependents   []*TaskNode
}

// DependencyIDsCopy returns a defensive copy of the persistent dependency id
// list.
func (n *TaskNode) DependencyIDsCopy() []string {
	return append([]string(nil), n.DependencyIDs...)
}

// ResolvedDependencies returns the in-memory predecessor nodes wired by the
// last DAG.Rebuild call.
func (n *TaskNode) ResolvedDependencies() []*TaskNode { return append([]*TaskNode(nil), n.resolvedDeps...) }

// Dependents returns the in-memory successor nodes wired by the last
// DAG.Rebuild call.
func (n *TaskNode) Dependents() []*TaskNode { return append([]*TaskNode(nil), n.dependents...) }

// DAG is an ordered collection of TaskNodes with a designated root. Only
// DependencyIDs is canonical state; ResolvedDependencies/Dependents are
// derived by Rebuild and must never be mutated directly, per the single
// rebuild entry point design note.
type DAG struct {
	ID                    string
	RootNodeID            string
	DerivedFromPetriNetID string
	Metadata              map[string]any
	Warnings              []string

	nodes []*TaskNode
	index map[string]*TaskNode
}

// NewDAG returns an empty DAG.
func NewDAG(id string) *DAG {
	return &DAG{ID: id, index: make(map[string]*TaskNode)}
}

// AddNode appends a node, preserving insertion order. It does not wire
// dependency references; call Rebuild after all nodes are added.
func (d *DAG) AddNode(n *TaskNode) error {
	if n.ID == "" {
		return errEmptyNodeID
	}
	if _, exists := d.index[n.ID]; exists {
		return errDuplicateNodeID(n.ID)
	}
	if d.index == nil {
		d.index = make(map[string]*TaskNode)
	}
	d.nodes = append(d.nodes, n)
	d.index[n.ID] = n
	return nil
}

// Nodes returns nodes in insertion order.
func (d *DAG) Nodes() []*TaskNode { return append([]*TaskNode(nil), d.nodes...) }

// Node looks up a node by id.
func (d *DAG) Node(id string) (*TaskNode, bool) { n, ok := d.index[id]; return n, ok }

// Len returns the number of nodes.
func (d *DAG) Len() int { return len(d.nodes) }

// Rebuild is the single entry point that resolves DependencyIDs into
// resolvedDeps/dependents cross-references in O(n). It validates that every
// dependency id refers to a known node; callers that need acyclicity or
// reachability checks run those separately (internal/engine, internal/petri
// consumers) since this method only wires references.
func (d *DAG) Rebuild() error {
	for _, n := range d.nodes {
		n.resolvedDeps = n.resolvedDeps[:0]
		n.dependents = n.dependents[:0]
	}
	for _, n := range d.nodes {
		for _, depID := range n.DependencyIDs {
			dep, ok := d.index[depID]
			if !ok {
				return errDanglingDependency(n.ID, depID)
			}
			n.resolvedDeps = append(n.resolvedDeps, dep)
			dep.dependents = append(dep.dependents, n)
		}
	}
	return nil
}

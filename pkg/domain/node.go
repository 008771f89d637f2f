package domain

// StateNode is a simulated entity (host, switch, web service, support channel)
// with a current discrete state and dependency edges.
//
// Dependencies are shared references into the owning graph; a node never
// owns the lifetime of the nodes it depends on.
type StateNode struct {
	ID    string `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"`
	State string `json:"state" yaml:"state"`

	// Dependencies are visited by dependency predicates in declaration order.
	Dependencies []*StateNode `json:"-" yaml:"-"`
}

// NewStateNode creates a node in its initial state with no dependencies.
func NewStateNode(id, nodeType, initial string) *StateNode {
	return &StateNode{
		ID:    id,
		Type:  nodeType,
		State: initial,
	}
}

// DependsOn appends dependency edges to the node.
func (n *StateNode) DependsOn(deps ...*StateNode) *StateNode {
	n.Dependencies = append(n.Dependencies, deps...)
	return n
}

// DependencyIDs returns the ids of the direct dependencies, in order.
func (n *StateNode) DependencyIDs() []string {
	ids := make([]string, 0, len(n.Dependencies))
	for _, d := range n.Dependencies {
		ids = append(ids, d.ID)
	}
	return ids
}

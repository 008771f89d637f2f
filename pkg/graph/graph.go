// Package graph builds the runtime node graph from a system description.
//
// Construction resolves dependency names to shared node pointers, expands
// aggregate types and checks the structural invariants the engine relies on.
// Violations are programming errors in the description and are returned as
// *InvariantError.
package graph

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/aretw0/infrasim/internal/logging"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/markov"
	"github.com/aretw0/infrasim/pkg/trigger"
)

// InvariantError reports a malformed description found during Build.
type InvariantError struct {
	NodeID string
	Type   string
	State  string
	Reason string
	Err    error
}

func (e *InvariantError) Error() string {
	msg := "graph invariant violated"
	if e.NodeID != "" {
		msg += fmt.Sprintf(": node %q", e.NodeID)
	}
	if e.Type != "" {
		msg += fmt.Sprintf(": type %q", e.Type)
	}
	if e.State != "" {
		msg += fmt.Sprintf(": state %q", e.State)
	}
	return msg + ": " + e.Reason
}

func (e *InvariantError) Unwrap() error { return e.Err }

// Option configures Build.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for construction warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Graph owns every node of a simulated system. Nodes are shared by pointer
// and their dependency edges never change after Build.
type Graph struct {
	nodes    []*domain.StateNode
	byID     map[string]*domain.StateNode
	types    map[string]config.TypeDef
	initial  map[string]string
	depFirst []*domain.StateNode
	dangling []Dangling
}

// Dangling is a dependency name that did not resolve to any node.
type Dangling struct {
	NodeID     string
	Dependency string
}

// Build creates one node per declaration, in declaration order.
func Build(desc *config.Description, opts ...Option) (*Graph, error) {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := checkTypes(desc.Types); err != nil {
		return nil, err
	}

	g := &Graph{
		nodes:   make([]*domain.StateNode, 0, len(desc.Nodes)),
		byID:    make(map[string]*domain.StateNode, len(desc.Nodes)),
		types:   maps.Clone(desc.Types),
		initial: make(map[string]string, len(desc.Nodes)),
	}

	for _, decl := range desc.Nodes {
		def, ok := desc.Types[decl.Type]
		if !ok {
			return nil, &InvariantError{NodeID: decl.ID, Type: decl.Type, Reason: "unknown node type", Err: domain.ErrUnknownType}
		}
		if _, dup := g.byID[decl.ID]; dup {
			return nil, &InvariantError{NodeID: decl.ID, Reason: "declared more than once", Err: domain.ErrDuplicateNode}
		}
		n := domain.NewStateNode(decl.ID, decl.Type, def.Initial)
		g.nodes = append(g.nodes, n)
		g.byID[n.ID] = n
		g.initial[n.ID] = def.Initial
	}

	for i, decl := range desc.Nodes {
		n := g.nodes[i]
		for _, name := range decl.Dependencies {
			dep, ok := g.byID[name]
			if !ok {
				o.logger.Warn("dropping dangling dependency", "node", n.ID, "dependency", name)
				g.dangling = append(g.dangling, Dangling{NodeID: n.ID, Dependency: name})
				continue
			}
			n.DependsOn(dep)
		}
	}

	for _, n := range g.nodes {
		collected := g.types[n.Type].Collects
		if collected == "" {
			continue
		}
		for _, m := range g.nodes {
			if m.Type == collected && m != n {
				n.DependsOn(m)
			}
		}
	}

	g.depFirst = dependenciesFirst(g.nodes)
	return g, nil
}

func checkTypes(types map[string]config.TypeDef) error {
	for _, name := range slices.Sorted(maps.Keys(types)) {
		def := types[name]
		states := def.DeclaredStates()
		if def.Initial == "" || !slices.Contains(states, def.Initial) {
			return &InvariantError{Type: name, State: def.Initial, Reason: "initial state is not declared", Err: domain.ErrUndefinedState}
		}
		for _, t := range def.Chain.Transitions {
			for _, s := range []string{t.From, t.To} {
				if !slices.Contains(states, s) {
					return &InvariantError{Type: name, State: s, Reason: fmt.Sprintf("transition %s=>%s uses an undeclared state", t.From, t.To), Err: domain.ErrUndefinedState}
				}
			}
		}
		if def.Collects != "" {
			if _, ok := types[def.Collects]; !ok {
				return &InvariantError{Type: def.Collects, Reason: fmt.Sprintf("collected by %q but not defined", name), Err: domain.ErrUnknownType}
			}
		}
	}
	return nil
}

// Nodes returns the nodes in declaration order.
func (g *Graph) Nodes() []*domain.StateNode { return slices.Clone(g.nodes) }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node looks a node up by id.
func (g *Graph) Node(id string) (*domain.StateNode, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Type returns the definition of a node type.
func (g *Graph) Type(name string) (config.TypeDef, bool) {
	t, ok := g.types[name]
	return t, ok
}

// TypeNames returns the defined type names, sorted.
func (g *Graph) TypeNames() []string { return slices.Sorted(maps.Keys(g.types)) }

// Chain returns the transition chain shared by every node of a type.
func (g *Graph) Chain(nodeType string) markov.Chain { return g.types[nodeType].Chain }

// Triggers returns the triggers shared by every node of a type.
func (g *Graph) Triggers(nodeType string) []trigger.Trigger { return g.types[nodeType].Triggers }

// Dangling returns the dependency names dropped during Build.
func (g *Graph) Dangling() []Dangling { return slices.Clone(g.dangling) }

// Order returns the nodes in the requested visit order.
func (g *Graph) Order(o VisitOrder) []*domain.StateNode {
	if o == OrderDependenciesFirst {
		return slices.Clone(g.depFirst)
	}
	return g.Nodes()
}

// Snapshot returns the current state of every node keyed by id.
func (g *Graph) Snapshot() map[string]string {
	out := make(map[string]string, len(g.nodes))
	for _, n := range g.nodes {
		out[n.ID] = n.State
	}
	return out
}

// Reset puts every node back in its initial state.
func (g *Graph) Reset() {
	for _, n := range g.nodes {
		n.State = g.initial[n.ID]
	}
}

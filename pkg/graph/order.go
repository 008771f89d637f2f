package graph

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/addrummond/heap"

	"github.com/aretw0/infrasim/pkg/domain"
)

// VisitOrder selects the order in which a tick visits nodes.
type VisitOrder int

const (
	// OrderDeclaration visits nodes in the order they were declared.
	OrderDeclaration VisitOrder = iota
	// OrderDependenciesFirst visits every node after the nodes it depends
	// on, breaking ties by declaration order. Nodes on a cycle are visited
	// in declaration order once nothing else is ready.
	OrderDependenciesFirst
)

func (o VisitOrder) String() string {
	switch o {
	case OrderDeclaration:
		return "declaration"
	case OrderDependenciesFirst:
		return "dependencies_first"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder decodes a visit order name. The empty string is the default.
func ParseOrder(s string) (VisitOrder, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "", "declaration":
		return OrderDeclaration, nil
	case "dependencies_first", "deps_first":
		return OrderDependenciesFirst, nil
	default:
		return 0, fmt.Errorf("unknown visit order %q", s)
	}
}

type ready struct {
	index int
}

func (a *ready) Cmp(b *ready) int { return cmp.Compare(a.index, b.index) }

// dependenciesFirst is Kahn's algorithm with a min-heap on declaration index.
func dependenciesFirst(nodes []*domain.StateNode) []*domain.StateNode {
	index := make(map[*domain.StateNode]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	pending := make([]int, len(nodes))
	dependents := make([][]int, len(nodes))
	for i, n := range nodes {
		seen := make(map[*domain.StateNode]bool, len(n.Dependencies))
		for _, d := range n.Dependencies {
			if seen[d] {
				continue
			}
			seen[d] = true
			j := index[d]
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var h heap.Heap[ready, heap.Min]
	for i := range nodes {
		if pending[i] == 0 {
			heap.PushOrderable(&h, ready{index: i})
		}
	}

	out := make([]*domain.StateNode, 0, len(nodes))
	done := make([]bool, len(nodes))
	next := 0
	for len(out) < len(nodes) {
		r, ok := heap.PopOrderable(&h)
		if !ok {
			// Only cycles remain; release the earliest declared node.
			for done[next] {
				next++
			}
			r = ready{index: next}
		} else if done[r.index] {
			continue
		}
		done[r.index] = true
		out = append(out, nodes[r.index])
		for _, k := range dependents[r.index] {
			pending[k]--
			if pending[k] == 0 && !done[k] {
				heap.PushOrderable(&h, ready{index: k})
			}
		}
	}
	return out
}

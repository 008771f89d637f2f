// Package condition implements composable boolean predicates over a node and
// its dependency graph.
//
// A predicate is plain data: a tree of tagged variants evaluated by a single
// structurally recursive function, Evaluate.
package condition

import (
	"fmt"
	"strings"

	"github.com/aretw0/infrasim/pkg/domain"
)

// Kind tags the variant of a Check.
type Kind int

const (
	KindTrue Kind = iota
	KindEq
	KindNeq
	KindDep
	KindAnd
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindTrue:
		return "true"
	case KindEq:
		return "eq"
	case KindNeq:
		return "neq"
	case KindDep:
		return "dep"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Check is an immutable predicate tree.
// The zero value is the always-true predicate.
type Check struct {
	Kind Kind
	// Value is the literal state compared by Eq and Neq.
	Value string
	// Operands holds the nested predicate of Dep (exactly one) or the
	// sub-predicates of And / Or (one or more).
	Operands []Check
}

// True returns the always-true predicate.
func True() Check { return Check{Kind: KindTrue} }

// Eq holds when the node's state equals v.
func Eq(v string) Check { return Check{Kind: KindEq, Value: v} }

// Neq holds when the node's state differs from v.
func Neq(v string) Check { return Check{Kind: KindNeq, Value: v} }

// Dep holds when at least one direct dependency satisfies inner.
// Nesting Dep reaches dependencies of dependencies.
func Dep(inner Check) Check { return Check{Kind: KindDep, Operands: []Check{inner}} }

// AnyDep is the same primitive as Dep.
func AnyDep(inner Check) Check { return Dep(inner) }

// And holds when every operand holds.
func And(c1, c2 Check, rest ...Check) Check {
	return Check{Kind: KindAnd, Operands: append([]Check{c1, c2}, rest...)}
}

// Or holds when at least one operand holds.
func Or(c1, c2 Check, rest ...Check) Check {
	return Check{Kind: KindOr, Operands: append([]Check{c1, c2}, rest...)}
}

// Evaluate reports whether c holds for n, reading the current in-memory state
// of n and of its dependencies. And and Or evaluate every operand.
func Evaluate(c Check, n *domain.StateNode) bool {
	switch c.Kind {
	case KindTrue:
		return true
	case KindEq:
		return n.State == c.Value
	case KindNeq:
		return n.State != c.Value
	case KindDep:
		inner := c.Operands[0]
		found := false
		for _, dep := range n.Dependencies {
			if Evaluate(inner, dep) {
				found = true
				break
			}
		}
		return found
	case KindAnd:
		result := true
		for _, op := range c.Operands {
			result = Evaluate(op, n) && result
		}
		return result
	case KindOr:
		result := false
		for _, op := range c.Operands {
			result = Evaluate(op, n) || result
		}
		return result
	default:
		panic(fmt.Sprintf("condition: unhandled kind %v", c.Kind))
	}
}

// Holds is a method form of Evaluate.
func (c Check) Holds(n *domain.StateNode) bool { return Evaluate(c, n) }

// IsTrue reports whether c is the always-true predicate.
func (c Check) IsTrue() bool { return c.Kind == KindTrue }

// String renders the tree, e.g. "or(eq(stop), dep(eq(off)))".
func (c Check) String() string {
	switch c.Kind {
	case KindTrue:
		return "true"
	case KindEq, KindNeq:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Value)
	default:
		parts := make([]string, len(c.Operands))
		for i, op := range c.Operands {
			parts[i] = op.String()
		}
		return fmt.Sprintf("%s(%s)", c.Kind, strings.Join(parts, ", "))
	}
}

// Depth returns how many dependency hops the predicate can look through.
func (c Check) Depth() int {
	deepest := 0
	for _, op := range c.Operands {
		if d := op.Depth(); d > deepest {
			deepest = d
		}
	}
	if c.Kind == KindDep {
		return deepest + 1
	}
	return deepest
}

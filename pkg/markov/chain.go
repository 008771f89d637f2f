package markov

import (
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/probability"
)

// Chain is the ordered transition rule-set of one node type.
//
// Declaration order is the only tie-break between transitions sharing a
// from-state: the first one that fires wins and at most one fires per call.
type Chain struct {
	Transitions []Transition
}

// NewChain creates a chain from transitions in declared order.
func NewChain(transitions ...Transition) Chain {
	return Chain{Transitions: transitions}
}

// Apply runs the first transition that fires and reports whether the node
// changed state.
func (c Chain) Apply(n *domain.StateNode, hour float64, r probability.Source) bool {
	_, ok := c.Select(n, hour, r)
	return ok
}

// Select is like Apply but also returns the transition that fired.
func (c Chain) Select(n *domain.StateNode, hour float64, r probability.Source) (Transition, bool) {
	for _, t := range c.Transitions {
		if t.Apply(n, hour, r) {
			return t, true
		}
	}
	return Transition{}, false
}

// Len returns the number of transitions.
func (c Chain) Len() int { return len(c.Transitions) }

// From returns the transitions leaving state, in declared order.
func (c Chain) From(state string) []Transition {
	var out []Transition
	for _, t := range c.Transitions {
		if t.From == state {
			out = append(out, t)
		}
	}
	return out
}

// States returns every state mentioned by the chain, in first-seen order.
func (c Chain) States() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range c.Transitions {
		for _, s := range []string{t.From, t.To} {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Package markov implements ordered, conditionally gated state-change rules.
package markov

import (
	"fmt"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/probability"
)

// Transition moves a node from one state to another when its condition holds
// and its probability gate opens. Transitions are stateless and shared by
// every node of a type.
type Transition struct {
	From        string
	To          string
	Probability probability.Check
	// Condition defaults to always-true.
	Condition condition.Check
}

// Apply attempts the transition on n at the given hour and reports whether it
// fired. The probability is only sampled once the state and condition match.
func (t Transition) Apply(n *domain.StateNode, hour float64, r probability.Source) bool {
	if n.State != t.From {
		return false
	}
	if !condition.Evaluate(t.Condition, n) {
		return false
	}
	if !t.Probability.Sample(r, hour) {
		return false
	}
	n.State = t.To
	return true
}

func (t Transition) String() string {
	s := fmt.Sprintf("%s=>%s [%s]", t.From, t.To, t.Probability)
	if !t.Condition.IsTrue() {
		s += " when " + t.Condition.String()
	}
	return s
}

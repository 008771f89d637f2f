package dsl

import (
	"slices"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/markov"
	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/aretw0/infrasim/pkg/trigger"
)

// TypeBuilder provides a fluent API for configuring a node type.
type TypeBuilder struct {
	def     config.TypeDef
	builder *Builder
	errs    []error
}

// Initial sets the state every node of the type starts in.
func (t *TypeBuilder) Initial(state string) *TypeBuilder {
	t.def.Initial = state
	return t
}

// States declares the states of the type. Without it, states are inferred
// from the initial state and the transitions.
func (t *TypeBuilder) States(states ...string) *TypeBuilder {
	t.def.States = append(t.def.States, states...)
	return t
}

// Collects makes every node of the type depend on all nodes of nodeType.
func (t *TypeBuilder) Collects(nodeType string) *TypeBuilder {
	t.def.Collects = nodeType
	return t
}

// Go adds an unguarded transition.
func (t *TypeBuilder) Go(from, to string, p probability.Check) *TypeBuilder {
	return t.Branch(from, to, p, condition.True())
}

// Branch adds a transition taken when cond holds and p is drawn.
// Transitions are tried in the order they are added.
func (t *TypeBuilder) Branch(from, to string, p probability.Check, cond condition.Check) *TypeBuilder {
	t.def.Chain.Transitions = append(t.def.Chain.Transitions, markov.Transition{
		From:        from,
		To:          to,
		Probability: p,
		Condition:   cond,
	})
	return t
}

// Emit adds a trigger producing message when cond holds and p is drawn.
// Messages containing {{ }} are templates over trigger.Data.
func (t *TypeBuilder) Emit(cond condition.Check, p probability.Check, message string) *TypeBuilder {
	tr, err := trigger.New(cond, p, message)
	if err != nil {
		t.errs = append(t.errs, err)
		return t
	}
	t.def.Triggers = append(t.def.Triggers, tr)
	return t
}

// Type continues with another type of the same system.
func (t *TypeBuilder) Type(name string) *TypeBuilder {
	return t.builder.Type(name)
}

// Build returns the underlying type definition.
func (t *TypeBuilder) Build() config.TypeDef {
	def := t.def
	def.States = slices.Clone(t.def.States)
	def.Chain = markov.NewChain(slices.Clone(t.def.Chain.Transitions)...)
	def.Triggers = slices.Clone(t.def.Triggers)
	return def
}

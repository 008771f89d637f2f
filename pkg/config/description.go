package config

import (
	"fmt"
	"slices"
	"sort"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/markov"
	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/aretw0/infrasim/pkg/trigger"
)

// Description is the decoded, ready-to-build form of a simulated system.
// Presets construct it directly; files reach it through Config.Description.
type Description struct {
	Types map[string]TypeDef
	Nodes []NodeSpec
}

// TypeDef is a node type with its decoded behaviour.
type TypeDef struct {
	Name     string
	Initial  string
	States   []string
	Collects string
	Chain    markov.Chain
	Triggers []trigger.Trigger
}

// DeclaredStates returns the states of the type. When none were declared they
// are inferred from the initial state and the chain.
func (t TypeDef) DeclaredStates() []string {
	if len(t.States) > 0 {
		return t.States
	}
	out := []string{t.Initial}
	for _, s := range t.Chain.States() {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// TypeNames returns the type names sorted alphabetically.
func (d *Description) TypeNames() []string {
	names := make([]string, 0, len(d.Types))
	for name := range d.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description decodes every condition, probability and message spec.
// Errors name the offending path, e.g. types.web.transitions[1].condition.
func (c *Config) Description() (*Description, error) {
	desc := &Description{
		Types: make(map[string]TypeDef, len(c.Types)),
		Nodes: slices.Clone(c.Graph),
	}
	for name, spec := range c.Types {
		def, err := spec.decode(name)
		if err != nil {
			return nil, err
		}
		desc.Types[name] = def
	}
	return desc, nil
}

func (s TypeSpec) decode(name string) (TypeDef, error) {
	def := TypeDef{
		Name:     name,
		Initial:  s.Initial,
		States:   slices.Clone(s.States),
		Collects: s.Collects,
	}
	transitions := make([]markov.Transition, 0, len(s.Transitions))
	for i, ts := range s.Transitions {
		path := fmt.Sprintf("types.%s.transitions[%d]", name, i)
		prob, err := probability.Parse(ts.Probability)
		if err != nil {
			return def, fmt.Errorf("%s.probability: %w", path, err)
		}
		cond, err := condition.Parse(ts.Condition)
		if err != nil {
			return def, fmt.Errorf("%s.condition: %w", path, err)
		}
		transitions = append(transitions, markov.Transition{
			From:        ts.From,
			To:          ts.To,
			Probability: prob,
			Condition:   cond,
		})
	}
	def.Chain = markov.NewChain(transitions...)

	for i, ts := range s.Triggers {
		path := fmt.Sprintf("types.%s.triggers[%d]", name, i)
		prob, err := probability.Parse(ts.Probability)
		if err != nil {
			return def, fmt.Errorf("%s.probability: %w", path, err)
		}
		cond, err := condition.Parse(ts.Condition)
		if err != nil {
			return def, fmt.Errorf("%s.condition: %w", path, err)
		}
		tr, err := trigger.New(cond, prob, ts.Message)
		if err != nil {
			return def, fmt.Errorf("%s.message: %w", path, err)
		}
		def.Triggers = append(def.Triggers, tr)
	}
	return def, nil
}

// FromDescription converts a description back into its serializable form.
func FromDescription(d *Description) *Config {
	cfg := &Config{
		Types: make(map[string]TypeSpec, len(d.Types)),
		Graph: slices.Clone(Graph(d.Nodes)),
	}
	for name, def := range d.Types {
		spec := TypeSpec{
			Initial:  def.Initial,
			States:   slices.Clone(def.States),
			Collects: def.Collects,
		}
		for _, t := range def.Chain.Transitions {
			spec.Transitions = append(spec.Transitions, TransitionSpec{
				From:        t.From,
				To:          t.To,
				Probability: t.Probability.Spec(),
				Condition:   conditionSpec(t.Condition),
			})
		}
		for _, t := range def.Triggers {
			spec.Triggers = append(spec.Triggers, TriggerSpec{
				Condition:   conditionSpec(t.Condition),
				Probability: t.Probability.Spec(),
				Message:     t.Message,
			})
		}
		cfg.Types[name] = spec
	}
	return cfg
}

func conditionSpec(c condition.Check) any {
	if c.IsTrue() {
		return nil
	}
	return c.Spec()
}

package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/aretw0/infrasim/pkg/trigger"
)

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Returns an error with all validation failures found.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	var errs []error
	for _, fieldName := range slices.Sorted(maps.Keys(schema)) {
		value, exists := data[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{Key: fieldName, Reason: "required"})
			continue
		}
		if err := schema[fieldName].Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: fieldName, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

var settingsSchema = Schema{
	"start_hour": Hour(),
	"ticks":      NonNegative(),
	"order": Custom("visit_order", func(v any) error {
		s, _ := v.(string)
		_, err := graph.ParseOrder(s)
		return err
	}),
	"sleep": Custom("duration", func(v any) error {
		if n, _ := v.(int64); n < 0 {
			return fmt.Errorf("must not be negative")
		}
		return nil
	}),
}

// ValidateConfig checks everything the engine assumes about a config:
// settings ranges, type definitions, spec well-formedness and graph
// references. Dangling dependencies are tolerated by the engine and are left
// to the graph validator.
func ValidateConfig(cfg *config.Config) error {
	v := &collector{}

	settings := map[string]any{
		"start_hour": cfg.StartHour,
		"ticks":      cfg.Ticks,
		"order":      cfg.Order,
		"sleep":      int64(cfg.Sleep),
	}
	if err := Validate(settingsSchema, settings); err != nil {
		v.errs = append(v.errs, ValidationErrors(err)...)
	}
	if cfg.MinEventsPerBurst != nil {
		v.check("min_event_per_burst", NonNegative(), *cfg.MinEventsPerBurst)
	}

	if len(cfg.Types) == 0 {
		v.fail("types", "at least one type is required", nil)
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Types)) {
		v.validateType(cfg, name, cfg.Types[name])
	}
	v.validateGraph(cfg)

	if len(v.errs) > 0 {
		return &AggregateError{Errors: v.errs}
	}
	return nil
}

type collector struct {
	errs []error
}

func (v *collector) fail(key, reason string, value any) {
	v.errs = append(v.errs, &ValidationError{Key: key, Reason: reason, Value: value})
}

func (v *collector) check(key string, t Type, value any) {
	if err := t.Validate(value); err != nil {
		v.fail(key, err.Error(), value)
	}
}

func (v *collector) validateType(cfg *config.Config, name string, spec config.TypeSpec) {
	path := "types." + name
	states := spec.States
	if len(states) == 0 {
		states = inferStates(spec)
	} else {
		seen := make(map[string]bool, len(states))
		for _, s := range states {
			if seen[s] {
				v.fail(path+".states", fmt.Sprintf("state %q declared twice", s), nil)
			}
			seen[s] = true
		}
	}

	if spec.Initial == "" {
		v.fail(path+".initial", "required", nil)
	} else if !slices.Contains(states, spec.Initial) {
		v.fail(path+".initial", fmt.Sprintf("state %q is not declared", spec.Initial), spec.Initial)
	}
	if spec.Collects != "" {
		if _, ok := cfg.Types[spec.Collects]; !ok {
			v.fail(path+".collects", fmt.Sprintf("unknown type %q", spec.Collects), spec.Collects)
		}
	}

	for i, t := range spec.Transitions {
		tp := fmt.Sprintf("%s.transitions[%d]", path, i)
		for _, f := range [][2]string{{"from", t.From}, {"to", t.To}} {
			if f[1] == "" {
				v.fail(tp+"."+f[0], "required", nil)
			} else if !slices.Contains(states, f[1]) {
				v.fail(tp+"."+f[0], fmt.Sprintf("state %q is not declared", f[1]), f[1])
			}
		}
		v.check(tp+".probability", ProbabilitySpec(), t.Probability)
		v.check(tp+".condition", ConditionSpec(states...), t.Condition)
	}

	for i, t := range spec.Triggers {
		tp := fmt.Sprintf("%s.triggers[%d]", path, i)
		v.check(tp+".probability", ProbabilitySpec(), t.Probability)
		v.check(tp+".condition", ConditionSpec(states...), t.Condition)
		v.validateMessage(tp+".message", t.Message)
	}
}

func (v *collector) validateMessage(key, message string) {
	if strings.TrimSpace(message) == "" {
		v.fail(key, "required", nil)
		return
	}
	tr, err := trigger.New(condition.True(), probability.NoProb(), message)
	if err != nil {
		v.fail(key, err.Error(), message)
		return
	}
	if _, err := tr.Render(trigger.Data{}); err != nil {
		v.fail(key, err.Error(), message)
	}
}

func (v *collector) validateGraph(cfg *config.Config) {
	if len(cfg.Graph) == 0 {
		v.fail("graph", "at least one node is required", nil)
		return
	}
	seen := make(map[string]bool, len(cfg.Graph))
	for _, n := range cfg.Graph {
		path := "graph." + n.ID
		if seen[n.ID] {
			v.fail(path, "node declared more than once", nil)
		}
		seen[n.ID] = true
		if _, ok := cfg.Types[n.Type]; !ok {
			v.fail(path+".type", fmt.Sprintf("unknown type %q", n.Type), n.Type)
		}
		for _, d := range n.Dependencies {
			if d == n.ID {
				v.fail(path+".dependencies", "node depends on itself", d)
			}
		}
	}
}

func inferStates(spec config.TypeSpec) []string {
	var out []string
	add := func(s string) {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	add(spec.Initial)
	for _, t := range spec.Transitions {
		add(t.From)
		add(t.To)
	}
	return out
}

package schema

import (
	"fmt"
	"slices"

	"github.com/aretw0/infrasim/pkg/condition"
	"github.com/aretw0/infrasim/pkg/probability"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "hour").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// MaxHour is the last sample point of an hour table.
const MaxHour = 24

// IntType validates integer values within optional bounds.
type IntType struct {
	name     string
	min, max *int
}

func (t *IntType) Name() string { return t.name }

func (t *IntType) Validate(value any) error {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case uint64:
		n = int(v)
	case float64:
		if v != float64(int64(v)) {
			return fmt.Errorf("expected int, got float (not a whole number)")
		}
		n = int(v)
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
	if t.min != nil && n < *t.min {
		return fmt.Errorf("must be >= %d, got %d", *t.min, n)
	}
	if t.max != nil && n > *t.max {
		return fmt.Errorf("must be <= %d, got %d", *t.max, n)
	}
	return nil
}

// ProbabilityType validates a number in [0, 1].
type ProbabilityType struct{}

func (t *ProbabilityType) Name() string { return "probability" }

func (t *ProbabilityType) Validate(value any) error {
	var p float64
	switch v := value.(type) {
	case float64:
		p = v
	case int:
		p = float64(v)
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
	if p < 0 || p > 1 {
		return fmt.Errorf("probability %v out of range [0,1]", p)
	}
	return nil
}

// ProbabilitySpecType validates a serialized probability: absent, a
// probability, or an hour table with hours in [0, 24].
type ProbabilitySpecType struct{}

func (t *ProbabilitySpecType) Name() string { return "probability_spec" }

func (t *ProbabilitySpecType) Validate(value any) error {
	c, err := probability.Parse(value)
	if err != nil {
		return err
	}
	switch c.Kind() {
	case probability.KindConstant:
		return Probability().Validate(c.Probability(0))
	case probability.KindInterpolated:
		for _, pt := range c.Points() {
			if pt.Hour < 0 || pt.Hour > MaxHour {
				return fmt.Errorf("hour %d out of range [0,%d]", pt.Hour, MaxHour)
			}
			if err := Probability().Validate(pt.P); err != nil {
				return fmt.Errorf("hour %d: %w", pt.Hour, err)
			}
		}
	}
	return nil
}

// ConditionSpecType validates a serialized predicate tree.
// When states is non-empty, literals compared at the top level must be
// among them.
type ConditionSpecType struct {
	states []string
}

func (t *ConditionSpecType) Name() string { return "condition_spec" }

func (t *ConditionSpecType) Validate(value any) error {
	c, err := condition.Parse(value)
	if err != nil {
		return err
	}
	if len(t.states) == 0 {
		return nil
	}
	return checkLiterals(c, t.states)
}

// checkLiterals walks the predicate outside of Dep operands, which refer to
// other node types.
func checkLiterals(c condition.Check, states []string) error {
	switch c.Kind {
	case condition.KindEq, condition.KindNeq:
		if !slices.Contains(states, c.Value) {
			return fmt.Errorf("%s compares against undeclared state %q", c, c.Value)
		}
	case condition.KindAnd, condition.KindOr:
		for _, op := range c.Operands {
			if err := checkLiterals(op, states); err != nil {
				return err
			}
		}
	}
	return nil
}

// EnumType validates a string among a fixed set.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string { return fmt.Sprintf("one of %v", t.values) }

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if !slices.Contains(t.values, s) {
		return fmt.Errorf("%q is not %s", s, t.Name())
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// Int creates an integer type validator.
func Int() Type { return &IntType{name: "int"} }

// NonNegative creates a validator for integers >= 0.
func NonNegative() Type {
	zero := 0
	return &IntType{name: "non_negative", min: &zero}
}

// Hour creates a validator for an hour of day in [0, 24].
func Hour() Type {
	lo, hi := 0, MaxHour
	return &IntType{name: "hour", min: &lo, max: &hi}
}

// Probability creates a validator for numbers in [0, 1].
func Probability() Type { return &ProbabilityType{} }

// ProbabilitySpec creates a validator for serialized probabilities.
func ProbabilitySpec() Type { return &ProbabilitySpecType{} }

// ConditionSpec creates a validator for serialized predicates.
func ConditionSpec(states ...string) Type { return &ConditionSpecType{states: states} }

// OneOf creates a validator for a fixed set of strings.
func OneOf(values ...string) Type { return &EnumType{values: values} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

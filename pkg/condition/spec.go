package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidSpec is wrapped by every error returned from Parse.
var ErrInvalidSpec = errors.New("invalid condition spec")

// node is the serialized shape of a single predicate. Exactly one field is set.
type node struct {
	Eq     *string `mapstructure:"eq"`
	Neq    *string `mapstructure:"neq"`
	Dep    any     `mapstructure:"dep"`
	AnyDep any     `mapstructure:"any_dep"`
	And    []any   `mapstructure:"and"`
	Or     []any   `mapstructure:"or"`
}

// Parse decodes a serialized predicate tree, as produced by a YAML or JSON
// decoder. Accepted forms:
//
//	nil | true | "true"
//	{eq: v} | {neq: v}
//	{dep: <spec>} | {any_dep: <spec>}
//	{and: [<spec>, ...]} | {or: [<spec>, ...]}
//
// A nil spec is the always-true predicate.
func Parse(raw any) (Check, error) {
	switch v := raw.(type) {
	case nil:
		return True(), nil
	case Check:
		return v, nil
	case bool:
		if !v {
			return Check{}, fmt.Errorf("%w: literal false is not a predicate", ErrInvalidSpec)
		}
		return True(), nil
	case string:
		if strings.EqualFold(strings.TrimSpace(v), "true") {
			return True(), nil
		}
		return Check{}, fmt.Errorf("%w: unexpected scalar %q", ErrInvalidSpec, v)
	}

	var n node
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &n,
	})
	if err != nil {
		return Check{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Check{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}

	set := 0
	for _, present := range []bool{n.Eq != nil, n.Neq != nil, n.Dep != nil, n.AnyDep != nil, n.And != nil, n.Or != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return Check{}, fmt.Errorf("%w: expected exactly one of eq, neq, dep, any_dep, and, or; got %d", ErrInvalidSpec, set)
	}

	switch {
	case n.Eq != nil:
		return Eq(*n.Eq), nil
	case n.Neq != nil:
		return Neq(*n.Neq), nil
	case n.Dep != nil:
		inner, err := Parse(n.Dep)
		if err != nil {
			return Check{}, fmt.Errorf("dep: %w", err)
		}
		return Dep(inner), nil
	case n.AnyDep != nil:
		inner, err := Parse(n.AnyDep)
		if err != nil {
			return Check{}, fmt.Errorf("any_dep: %w", err)
		}
		return AnyDep(inner), nil
	case n.And != nil:
		ops, err := parseOperands("and", n.And)
		if err != nil {
			return Check{}, err
		}
		return Check{Kind: KindAnd, Operands: ops}, nil
	default:
		ops, err := parseOperands("or", n.Or)
		if err != nil {
			return Check{}, err
		}
		return Check{Kind: KindOr, Operands: ops}, nil
	}
}

// MustParse is like Parse but panics on error. Intended for static presets.
func MustParse(raw any) Check {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func parseOperands(op string, raw []any) ([]Check, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one operand", ErrInvalidSpec, op)
	}
	out := make([]Check, 0, len(raw))
	for i, r := range raw {
		c, err := Parse(r)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", op, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Spec returns the serialized form of c, suitable for YAML or JSON encoding.
// Parse(c.Spec()) yields an equivalent predicate.
func (c Check) Spec() any {
	switch c.Kind {
	case KindTrue:
		return true
	case KindEq:
		return map[string]any{"eq": c.Value}
	case KindNeq:
		return map[string]any{"neq": c.Value}
	case KindDep:
		return map[string]any{"dep": c.Operands[0].Spec()}
	default:
		ops := make([]any, len(c.Operands))
		for i, op := range c.Operands {
			ops[i] = op.Spec()
		}
		return map[string]any{c.Kind.String(): ops}
	}
}

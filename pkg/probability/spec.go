package probability

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidSpec is wrapped by every error returned from Parse.
var ErrInvalidSpec = errors.New("invalid probability spec")

// Parse decodes a serialized probability: nil (NoProb), a scalar (Constant),
// or a mapping of hour to probability (Interpolated). Hour keys may be
// integers or numeric strings, as produced by YAML and JSON decoders.
//
// Ranges are not checked here.
func Parse(raw any) (Check, error) {
	switch v := raw.(type) {
	case nil:
		return NoProb(), nil
	case Check:
		return v, nil
	case float64:
		return Constant(v), nil
	case int:
		return Constant(float64(v)), nil
	case map[int]float64:
		if len(v) == 0 {
			return Check{}, fmt.Errorf("%w: empty hour table", ErrInvalidSpec)
		}
		return Interpolated(v), nil
	}

	var points map[int]float64
	if err := mapstructure.WeakDecode(raw, &points); err == nil {
		if len(points) == 0 {
			return Check{}, fmt.Errorf("%w: empty hour table", ErrInvalidSpec)
		}
		return Interpolated(points), nil
	}

	var p float64
	if err := mapstructure.WeakDecode(raw, &p); err != nil {
		return Check{}, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	return Constant(p), nil
}

// MustParse is like Parse but panics on error. Intended for static presets.
func MustParse(raw any) Check {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Spec returns the serialized form of c.
func (c Check) Spec() any {
	switch c.kind {
	case KindNone:
		return nil
	case KindConstant:
		return c.p
	default:
		out := make(map[int]float64, len(c.points))
		for _, pt := range c.points {
			out[pt.Hour] = pt.P
		}
		return out
	}
}

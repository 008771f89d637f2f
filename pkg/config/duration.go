package config

import (
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written either as a number of seconds
// (`sleep: 0.01`) or as a Go duration string (`sleep: 10ms`).
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	switch value.ShortTag() {
	case "!!int", "!!float":
		var seconds float64
		if err := value.Decode(&seconds); err != nil {
			return err
		}
		if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("line %d: invalid duration %q", value.Line, value.Value)
		}
		*d = Duration(seconds * float64(time.Second))
	case "!!str":
		v, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*d = Duration(v)
	default:
		return fmt.Errorf("line %d: invalid duration %q", value.Line, value.Value)
	}
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

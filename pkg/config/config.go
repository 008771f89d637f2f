// Package config loads simulation descriptions from YAML.
//
// A file declares the node types (states, transitions, triggers), the
// dependency graph and the runtime settings of a run:
//
//	seed: 42
//	types:
//	  host:
//	    initial: "on"
//	    states: ["on", "off"]
//	    transitions:
//	      - {from: "on", to: "off", probability: 0.005}
//	      - {from: "off", to: "on", probability: 0.5}
//	    triggers:
//	      - condition: {eq: "off"}
//	        message: "Host {{.ID}} is down"
//	graph:
//	  s1:switch: []
//	  h1:host: [s1]
//
// Graph entries keep their file order, which is the default visit order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the decoded form of a simulation file.
type Config struct {
	// Seed makes runs reproducible. Nil lets the caller choose one.
	Seed              *uint64             `yaml:"seed,omitempty"`
	StartHour         int                 `yaml:"start_hour,omitempty"`
	Ticks             int                 `yaml:"ticks,omitempty"`
	Sleep             Duration            `yaml:"sleep,omitempty"`
	MinEventsPerBurst *int                `yaml:"min_event_per_burst,omitempty"`
	Order             string              `yaml:"order,omitempty"`
	Types             map[string]TypeSpec `yaml:"types"`
	Graph             Graph               `yaml:"graph"`
}

// TypeSpec declares one node type.
type TypeSpec struct {
	Initial string `yaml:"initial"`
	// States may be omitted, in which case they are inferred from the
	// initial state and the transitions.
	States []string `yaml:"states,omitempty"`
	// Collects names a type whose every node becomes a dependency of the
	// nodes of this type.
	Collects    string           `yaml:"collects,omitempty"`
	Transitions []TransitionSpec `yaml:"transitions,omitempty"`
	Triggers    []TriggerSpec    `yaml:"triggers,omitempty"`
}

// TransitionSpec is the serialized form of a transition.
// Probability and Condition hold raw specs decoded by the probability and
// condition packages.
type TransitionSpec struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Probability any    `yaml:"probability,omitempty"`
	Condition   any    `yaml:"condition,omitempty"`
}

// TriggerSpec is the serialized form of a trigger.
type TriggerSpec struct {
	Condition   any    `yaml:"condition,omitempty"`
	Probability any    `yaml:"probability,omitempty"`
	Message     string `yaml:"message"`
}

// Load reads and decodes a simulation file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a simulation file. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty config")
		}
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes the config back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

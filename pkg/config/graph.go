package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeSpec declares one node of the graph.
type NodeSpec struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Graph is the ordered list of node declarations.
//
// In YAML it is a mapping whose keys are either "name:type" with a list of
// dependency names as value, or a bare name with a {type, dependencies}
// mapping as value.
type Graph []NodeSpec

// UnmarshalYAML decodes the mapping while keeping its key order.
func (g *Graph) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: graph must be a mapping", value.Line)
	}
	out := make(Graph, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		spec, err := decodeNode(key, val)
		if err != nil {
			return err
		}
		out = append(out, spec)
	}
	*g = out
	return nil
}

func decodeNode(key, val *yaml.Node) (NodeSpec, error) {
	var spec NodeSpec
	name := key.Value
	if id, typ, ok := strings.Cut(name, ":"); ok {
		spec.ID, spec.Type = strings.TrimSpace(id), strings.TrimSpace(typ)
		if err := val.Decode(&spec.Dependencies); err != nil {
			return spec, fmt.Errorf("line %d: dependencies of %q: %w", val.Line, name, err)
		}
	} else {
		var body struct {
			Type         string   `yaml:"type"`
			Dependencies []string `yaml:"dependencies"`
		}
		if err := val.Decode(&body); err != nil {
			return spec, fmt.Errorf("line %d: node %q: %w", val.Line, name, err)
		}
		spec.ID, spec.Type, spec.Dependencies = strings.TrimSpace(name), body.Type, body.Dependencies
	}
	if spec.ID == "" {
		return spec, fmt.Errorf("line %d: empty node name in %q", key.Line, name)
	}
	if spec.Type == "" {
		return spec, fmt.Errorf("line %d: node %q has no type", key.Line, name)
	}
	return spec, nil
}

// MarshalYAML encodes the graph in the compact "name:type" form.
func (g Graph) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, n := range g {
		deps := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, d := range n.Dependencies {
			deps.Content = append(deps.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: d})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: n.ID + ":" + n.Type},
			deps,
		)
	}
	return node, nil
}

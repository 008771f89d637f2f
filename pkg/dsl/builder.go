package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/infrasim/pkg/config"
)

// Builder manages the system construction.
type Builder struct {
	types map[string]*TypeBuilder
	nodes []config.NodeSpec
}

// New creates a new system builder.
func New() *Builder {
	return &Builder{
		types: make(map[string]*TypeBuilder),
	}
}

// Type starts the definition of a node type.
// If the type already exists, it returns the existing builder.
func (b *Builder) Type(name string) *TypeBuilder {
	if tb, ok := b.types[name]; ok {
		return tb
	}
	tb := &TypeBuilder{
		def: config.TypeDef{
			Name: name,
		},
		builder: b,
	}
	b.types[name] = tb
	return tb
}

// Node declares a node of type nodeType depending on deps. Nodes are
// visited in declaration order.
func (b *Builder) Node(id, nodeType string, deps ...string) *Builder {
	b.nodes = append(b.nodes, config.NodeSpec{ID: id, Type: nodeType, Dependencies: deps})
	return b
}

// Build compiles the system into a description. Errors recorded while
// building types (e.g. malformed message templates) are joined. Graph
// invariants are checked later by graph.Build.
func (b *Builder) Build() (*config.Description, error) {
	desc := &config.Description{
		Types: make(map[string]config.TypeDef, len(b.types)),
		Nodes: append([]config.NodeSpec(nil), b.nodes...),
	}
	var errs []error
	for name, tb := range b.types {
		for _, err := range tb.errs {
			errs = append(errs, fmt.Errorf("type %s: %w", name, err))
		}
		desc.Types[name] = tb.Build()
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build system: %w", errors.Join(errs...))
	}
	return desc, nil
}

// MustBuild is like Build but panics on error. Intended for static presets.
func (b *Builder) MustBuild() *config.Description {
	desc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return desc
}

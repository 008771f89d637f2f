package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/infrasim/internal/presentation/graph"
	"github.com/aretw0/infrasim/internal/presentation/tui"
	"github.com/aretw0/infrasim/internal/validator"
	"github.com/aretw0/infrasim/pkg/schema"
	simgraph "github.com/aretw0/infrasim/pkg/graph"
)

// Validate checks a system: field values first, then the dependency graph.
// Nodes no event-emitting node can observe are reported as warnings.
func Validate(source string, w io.Writer) error {
	cfg, err := LoadSystem(source)
	if err != nil {
		return err
	}
	if err := schema.ValidateConfig(cfg); err != nil {
		return err
	}
	report := validator.ValidateGraph(cfg)
	if err := report.Err(); err != nil {
		return err
	}
	for _, id := range report.Silent {
		fmt.Fprintf(w, "warning: no event can reflect the state of %q\n", id)
	}
	return nil
}

// Graph writes a Mermaid diagram of the system topology, or of the chain of
// nodeType when it is not empty.
func Graph(source, nodeType string, w io.Writer) error {
	cfg, err := LoadSystem(source)
	if err != nil {
		return err
	}
	desc, err := cfg.Description()
	if err != nil {
		return err
	}
	if nodeType != "" {
		def, ok := desc.Types[nodeType]
		if !ok {
			return fmt.Errorf("unknown type %q (available: %v)", nodeType, desc.TypeNames())
		}
		fmt.Fprint(w, graph.GenerateChain(def))
		return nil
	}
	g, err := simgraph.Build(desc)
	if err != nil {
		return err
	}
	fmt.Fprint(w, graph.GenerateTopology(g, nil))
	return nil
}

// Describe writes a markdown summary of the system, rendered with glamour
// when w is a terminal.
func Describe(source string, w io.Writer) error {
	cfg, err := LoadSystem(source)
	if err != nil {
		return err
	}
	desc, err := cfg.Description()
	if err != nil {
		return err
	}
	md := tui.DescribeMarkdown(source, desc)
	if isTerminal(w) {
		if out, err := tui.NewRenderer()(md); err == nil {
			md = out
		}
	}
	_, err = io.WriteString(w, md)
	return err
}


package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/infrasim/pkg/config"
	simgraph "github.com/aretw0/infrasim/pkg/graph"
)

// Overlay contains run-time state to visualize on the topology.
type Overlay struct {
	// Snapshot maps node ids to their current state.
	Snapshot map[string]string
	// Degraded lists the states styled as degraded (e.g. "off", "stop").
	Degraded []string
}

// GenerateTopology produces a Mermaid flowchart of the node graph.
// It applies semantic styling:
// - Node without dependencies: ((Circle))
// - Aggregate node (collects a type): [/Parallelogram/]
// - Default: [Rectangle]
// Explicit dependencies are solid arrows, collected ones dotted.
func GenerateTopology(g *simgraph.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes() {
		safeID := sanitizeMermaidID(node.ID)
		def, _ := g.Type(node.Type)

		opener, closer := "[", "]"
		switch {
		case def.Collects != "":
			opener, closer = "[/", "/]"
		case len(node.Dependencies) == 0:
			opener, closer = "((", "))"
		}

		label := fmt.Sprintf("%s <br/> %s", node.ID, node.Type)
		if overlay != nil {
			if state, ok := overlay.Snapshot[node.ID]; ok {
				label += ": " + state
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, dep := range node.Dependencies {
			arrow := "-->"
			if def.Collects != "" && dep.Type == def.Collects {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(dep.ID))
		}
	}

	if overlay != nil && len(overlay.Degraded) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef degraded fill:#ffcdd2,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		for _, node := range g.Nodes() {
			if slices.Contains(overlay.Degraded, overlay.Snapshot[node.ID]) {
				fmt.Fprintf(&sb, "    class %s degraded;\n", sanitizeMermaidID(node.ID))
			}
		}
	}

	return sb.String()
}

// GenerateChain produces a Mermaid state diagram of a type's transitions.
// Edge labels carry the probability and, when present, the condition.
func GenerateChain(def config.TypeDef) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    [*] --> %s\n", sanitizeMermaidID(def.Initial))
	for _, t := range def.Chain.Transitions {
		label := t.Probability.String()
		if !t.Condition.IsTrue() {
			label += " when " + t.Condition.String()
		}
		label = strings.ReplaceAll(label, ":", "=")
		fmt.Fprintf(&sb, "    %s --> %s : %s\n", sanitizeMermaidID(t.From), sanitizeMermaidID(t.To), label)
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

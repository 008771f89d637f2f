package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/infrasim/pkg/config"
)

// DescribeMarkdown summarizes a system as markdown: its nodes, then one
// section per type with transition and trigger tables.
func DescribeMarkdown(title string, desc *config.Description) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	sb.WriteString("## Nodes\n\n| Node | Type | Depends on |\n|---|---|---|\n")
	for _, n := range desc.Nodes {
		deps := strings.Join(n.Dependencies, ", ")
		if c := desc.Types[n.Type].Collects; c != "" {
			if deps != "" {
				deps += ", "
			}
			deps += "every " + c
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", n.ID, n.Type, deps)
	}

	for _, name := range desc.TypeNames() {
		def := desc.Types[name]
		fmt.Fprintf(&sb, "\n## %s\n\nStates: %s (initial `%s`)\n", name, strings.Join(def.DeclaredStates(), ", "), def.Initial)

		if def.Chain.Len() > 0 {
			sb.WriteString("\n| From | To | Probability | Condition |\n|---|---|---|---|\n")
			for _, t := range def.Chain.Transitions {
				fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", t.From, t.To, cell(t.Probability.String()), cell(t.Condition.String()))
			}
		}
		if len(def.Triggers) > 0 {
			sb.WriteString("\n| Message | Probability | Condition |\n|---|---|---|\n")
			for _, t := range def.Triggers {
				fmt.Fprintf(&sb, "| %s | %s | %s |\n", cell(t.Message), cell(t.Probability.String()), cell(t.Condition.String()))
			}
		}
	}
	return sb.String()
}

func cell(s string) string {
	return "`" + strings.ReplaceAll(s, "|", "\\|") + "`"
}

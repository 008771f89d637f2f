package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/infrasim/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [preset|file.yaml]",
	Short: "Export the system as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph TD) of the node dependencies, or with --type the state diagram of a type's transitions.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeType, _ := cmd.Flags().GetString("type")
		return cli.Graph(systemArg(args), nodeType, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("type", "t", "", "Draw the transition chain of this node type")
}

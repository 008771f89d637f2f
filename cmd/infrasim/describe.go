package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/infrasim/internal/cli"
)

var describeCmd = &cobra.Command{
	Use:   "describe [preset|file.yaml]",
	Short: "Summarize the nodes, transitions and triggers of a system",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Describe(systemArg(args), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

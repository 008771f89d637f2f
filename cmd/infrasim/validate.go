package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/infrasim/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [preset|file.yaml]",
	Short: "Check a system for consistency",
	Long: `Checks probabilities, hours, states and condition specs, then crawls the graph from
every event-emitting node and reports missing dependencies and nodes whose state no
event can reflect.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.Validate(systemArg(args), cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "System is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

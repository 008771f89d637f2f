package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/infrasim/pkg/presets"
)

var rootCmd = &cobra.Command{
	Use:   "infrasim",
	Short: "infrasim synthesizes infrastructure events from a probabilistic state machine",
	Long: `infrasim simulates a graph of dependent infrastructure components (hosts, switches,
web services, firewalls) tick by tick and emits the human-readable events a monitoring
system would see. Systems are built-in presets or YAML files.

Built-in presets: ` + fmt.Sprint(presets.Names()),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
}

// systemArg returns the system named on the command line, "cloud" by default.
func systemArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "cloud"
}

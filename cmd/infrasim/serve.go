package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/infrasim/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve [preset|file.yaml]",
	Short: "Run a simulation behind an HTTP server",
	Long: `Runs the simulation (one tick per second by default) and serves:

  GET /health      liveness
  GET /info        version
  GET /graph       nodes, dependencies and current states
  GET /graph.mmd   Mermaid topology with degraded nodes highlighted
  GET /events      server-sent events, one batch per tick (?node=a,b to filter)
  GET /metrics     Prometheus metrics`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.Serve(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addSimulationFlags(serveCmd)
	serveCmd.Flags().StringP("addr", "a", cli.DefaultAddr, "Address to listen on")
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/infrasim/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [preset|file.yaml]",
	Short: "Run a simulation and stream its events",
	Long: `Runs the simulation and writes one JSON line per event on stdout:

  {"ctime": 946684800, "event": {"id": "w1", "msg": "Application is down", "tick": 0}}

With --vectorize, each burst is written as event counts per node instead:

  {"from_tick": 0, "to_tick": 0, "features": ["h1", "h2", ...], "counts": [0, 1, ...]}

Events can also be published on a Redis channel with --redis.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.RunSimulation(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addSimulationFlags(runCmd)

	runCmd.Flags().String("redis", "", "Redis address to publish events to (host:port)")
	runCmd.Flags().String("redis-password", "", "Redis password")
	runCmd.Flags().Int("redis-db", 0, "Redis database")
	runCmd.Flags().String("channel", "", "Redis channel (default \"infrasim:events\")")
	runCmd.Flags().Bool("no-stdout", false, "Do not write events to stdout")
	runCmd.Flags().Bool("vectorize", false, "Write per-burst event counts per node instead of events")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}

// addSimulationFlags registers the flags shared by run and serve.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int("ticks", 0, "Number of ticks to simulate (0 runs until interrupted)")
	cmd.Flags().Uint64("seed", 0, "Random seed (default: from the file, else the clock)")
	cmd.Flags().Int("start-hour", 0, "Hour of the first tick (0-24)")
	cmd.Flags().String("order", "", "Node visit order: declaration or dependencies_first")
	cmd.Flags().Duration("sleep", 0, "Pause after each burst of events")
	cmd.Flags().Int("min-events", 0, "Events accumulated before each push")
}

// runOptions maps flags to cli.RunOptions. Only flags given on the command
// line override the system file.
func runOptions(cmd *cobra.Command, args []string) (cli.RunOptions, error) {
	flags := cmd.Flags()
	opts := cli.RunOptions{
		Source: systemArg(args),
		Err:    cmd.ErrOrStderr(),
		Out:    cmd.OutOrStdout(),
	}
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	opts.Order, _ = flags.GetString("order")

	if flags.Changed("ticks") {
		v, _ := flags.GetInt("ticks")
		opts.Ticks = &v
	}
	if flags.Changed("seed") {
		v, _ := flags.GetUint64("seed")
		opts.Seed = &v
	}
	if flags.Changed("start-hour") {
		v, _ := flags.GetInt("start-hour")
		opts.StartHour = &v
	}
	if flags.Changed("sleep") {
		v, _ := flags.GetDuration("sleep")
		opts.Sleep = &v
	}
	if flags.Changed("min-events") {
		v, _ := flags.GetInt("min-events")
		opts.MinEvents = &v
	}

	if f := flags.Lookup("redis"); f != nil {
		opts.RedisAddr, _ = flags.GetString("redis")
		opts.RedisPassword, _ = flags.GetString("redis-password")
		opts.RedisDB, _ = flags.GetInt("redis-db")
		opts.Channel, _ = flags.GetString("channel")
		opts.NoStdout, _ = flags.GetBool("no-stdout")
		opts.Vectorize, _ = flags.GetBool("vectorize")
		opts.Quiet, _ = flags.GetBool("quiet")
	}
	if f := flags.Lookup("addr"); f != nil {
		opts.Addr = f.Value.String()
	}
	return opts, nil
}

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/infrasim"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/presets"
	"github.com/aretw0/infrasim/pkg/runner"
)

// LoadSystem resolves source as a preset name first, then as a file path.
func LoadSystem(source string) (*config.Config, error) {
	if source == "" {
		source = "cloud"
	}
	if desc, err := presets.Lookup(source); err == nil {
		return config.FromDescription(desc), nil
	}
	cfg, err := config.Load(source)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%q is neither a preset %v nor a readable file", source, presets.Names())
	}
	return cfg, err
}

// loadConfig loads the system and applies the command line overrides.
// Without a seed from either the flags or the file, the clock seeds the run
// and the seed is logged so it can be replayed.
func loadConfig(opts RunOptions, logger *slog.Logger) (*config.Config, error) {
	cfg, err := LoadSystem(opts.Source)
	if err != nil {
		return nil, err
	}
	if opts.Seed != nil {
		cfg.Seed = opts.Seed
	}
	if cfg.Seed == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Seed = &seed
		logger.Info("no seed given, using the clock", "seed", seed)
	}
	if opts.Ticks != nil {
		cfg.Ticks = *opts.Ticks
	}
	if opts.StartHour != nil {
		cfg.StartHour = *opts.StartHour
	}
	if opts.Order != "" {
		cfg.Order = opts.Order
	}
	if opts.Sleep != nil {
		cfg.Sleep = config.Duration(*opts.Sleep)
	}
	if opts.MinEvents != nil {
		cfg.MinEventsPerBurst = opts.MinEvents
	}
	return cfg, nil
}

func newSimulator(cfg *config.Config, opts RunOptions, logger *slog.Logger, extra ...infrasim.Option) (*infrasim.Simulator, error) {
	simOpts := append([]infrasim.Option{infrasim.WithLogger(logger)}, extra...)
	if opts.Sleep != nil && *opts.Sleep == 0 {
		// A zero sleep in a file means the default; on the command line it
		// disables pacing.
		simOpts = append(simOpts, infrasim.WithRunnerOptions(runner.WithSleep(0)))
	}
	sim, err := infrasim.FromConfig(cfg, simOpts...)
	if err != nil {
		return nil, err
	}
	sim.Name = opts.Source
	return sim, nil
}

package infrasim

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/aretw0/infrasim/internal/logging"
	"github.com/aretw0/infrasim/pkg/config"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/metrics"
	"github.com/aretw0/infrasim/pkg/ports"
	"github.com/aretw0/infrasim/pkg/presets"
	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/aretw0/infrasim/pkg/runner"
	"github.com/aretw0/infrasim/pkg/schema"
	"github.com/aretw0/infrasim/pkg/sim"
)

// Simulator is the high-level entry point of the library.
// It owns a freshly built graph and the driver stepping it.
type Simulator struct {
	Name string

	graph      *graph.Graph
	driver     *sim.Driver
	logger     *slog.Logger
	simOpts    []sim.Option
	runnerOpts []runner.Option
	hooks      []domain.LifecycleHooks
	graphHooks []func(*graph.Graph) domain.LifecycleHooks
}

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithSeed sets the seed of the random source.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.simOpts = append(s.simOpts, sim.WithSeed(seed))
	}
}

// WithSource injects a random source, taking precedence over WithSeed.
func WithSource(src probability.Source) Option {
	return func(s *Simulator) {
		s.simOpts = append(s.simOpts, sim.WithSource(src))
	}
}

// WithStartHour sets the hour of the first tick.
func WithStartHour(hour int) Option {
	return func(s *Simulator) {
		s.simOpts = append(s.simOpts, sim.WithStartHour(hour))
	}
}

// WithOrder sets the node visit order.
func WithOrder(o graph.VisitOrder) Option {
	return func(s *Simulator) {
		s.simOpts = append(s.simOpts, sim.WithOrder(o))
	}
}

// WithLifecycleHooks registers observability hooks. Hooks of repeated
// options all run, in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = append(s.hooks, hooks)
	}
}

// WithGraphHooks registers hooks built from the graph once it exists, for
// observers that need to read node states (e.g. an HTTP server).
func WithGraphHooks(build func(*graph.Graph) domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.graphHooks = append(s.graphHooks, build)
	}
}

// WithRunnerOptions configures the pacing used by Run.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(s *Simulator) {
		s.runnerOpts = append(s.runnerOpts, opts...)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// New builds a simulator over a description. Descriptions are consumed:
// build a new one for every simulator.
func New(desc *config.Description, opts ...Option) (*Simulator, error) {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.Name != "" {
		s.logger = s.logger.With("system", s.Name)
	}

	g, err := graph.Build(desc, graph.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	simOpts := append([]sim.Option{sim.WithLogger(s.logger)}, s.simOpts...)
	hooks := slices.Clone(s.hooks)
	for _, build := range s.graphHooks {
		hooks = append(hooks, build(g))
	}
	if len(hooks) > 0 {
		simOpts = append(simOpts, sim.WithHooks(metrics.Chain(hooks...)))
	}
	d, err := sim.New(g, simOpts...)
	if err != nil {
		return nil, err
	}
	s.graph, s.driver = g, d
	s.runnerOpts = append([]runner.Option{runner.WithLogger(s.logger)}, s.runnerOpts...)
	return s, nil
}

// FromPreset builds a simulator over a built-in system.
func FromPreset(name string, opts ...Option) (*Simulator, error) {
	desc, err := presets.Lookup(name)
	if err != nil {
		return nil, err
	}
	return New(desc, append([]Option{named(name)}, opts...)...)
}

// FromConfig validates cfg and builds a simulator from it. Settings of the
// file (seed, start hour, order, pacing) apply first so opts override them.
func FromConfig(cfg *config.Config, opts ...Option) (*Simulator, error) {
	if err := schema.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	desc, err := cfg.Description()
	if err != nil {
		return nil, err
	}
	order, err := graph.ParseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}

	base := []Option{WithStartHour(cfg.StartHour), WithOrder(order)}
	if cfg.Seed != nil {
		base = append(base, WithSeed(*cfg.Seed))
	}
	pacing := []runner.Option{runner.WithTicks(cfg.Ticks)}
	if cfg.Sleep > 0 {
		pacing = append(pacing, runner.WithSleep(cfg.Sleep.Std()))
	}
	if cfg.MinEventsPerBurst != nil {
		pacing = append(pacing, runner.WithMinEventsPerBurst(*cfg.MinEventsPerBurst))
	}
	base = append(base, WithRunnerOptions(pacing...))
	return New(desc, append(base, opts...)...)
}

// Load reads a YAML system file and builds a simulator from it.
func Load(path string, opts ...Option) (*Simulator, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, append([]Option{named(path)}, opts...)...)
}

func named(name string) Option {
	return func(s *Simulator) { s.Name = name }
}

// Start returns an iterator over the batches of at most ticks ticks
// (ticks <= 0 is unbounded). A simulator can be started once.
func (s *Simulator) Start(ticks int) (iter.Seq[domain.Batch], error) {
	return s.driver.Start(ticks)
}

// Stop asks the simulation to stop at the next tick boundary.
func (s *Simulator) Stop() { s.driver.Stop() }

// Run drives the simulation with burst pacing, pushing events to sink until
// the tick bound is reached or ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, sink ports.Sink) (runner.Stats, error) {
	return runner.NewRunner(s.driver, sink, s.runnerOpts...).Run(ctx)
}

// Runner returns a runner over the simulation with the configured pacing
// and extra options.
func (s *Simulator) Runner(sink ports.Sink, opts ...runner.Option) *runner.Runner {
	return runner.NewRunner(s.driver, sink, slices.Concat(s.runnerOpts, opts)...)
}

// Graph returns the simulated graph.
func (s *Simulator) Graph() *graph.Graph { return s.graph }

// Driver returns the underlying driver.
func (s *Simulator) Driver() *sim.Driver { return s.driver }

// RunID returns the identifier stamped on every batch.
func (s *Simulator) RunID() string { return s.driver.RunID() }

// Start is a shortcut building the named preset with seed and starting it.
func Start(preset string, seed uint64, ticks int) (iter.Seq[domain.Batch], error) {
	s, err := FromPreset(preset, WithSeed(seed))
	if err != nil {
		return nil, err
	}
	return s.Start(ticks)
}

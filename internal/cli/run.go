package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/infrasim/internal/presentation/tui"
	"github.com/aretw0/infrasim/pkg/adapters/jsonl"
	"github.com/aretw0/infrasim/pkg/adapters/redis"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/ingest"
	"github.com/aretw0/infrasim/pkg/ports"
	"github.com/aretw0/infrasim/pkg/runner"
)

// RunSimulation runs a system until its tick bound or a signal, streaming
// events as JSON lines and optionally to Redis.
func RunSimulation(ctx context.Context, opts RunOptions) error {
	outputs(&opts)
	logger := createLogger(opts.LogLevel, opts.Err)

	if !opts.Quiet && isTerminal(opts.Err) {
		tui.PrintBanner(opts.Err)
	}

	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}
	sim, err := newSimulator(cfg, opts, logger)
	if err != nil {
		return err
	}

	sink, closeSink, err := buildSink(ctx, opts, sim.Graph())
	if err != nil {
		return err
	}
	defer closeSink()

	sm := runner.NewSignalManagerContext(ctx)
	defer sm.Stop()

	logger.Info("simulation started", "system", opts.Source, "run_id", sim.RunID())
	_, err = sim.Run(sm.Context(), sink)
	if errors.Is(err, context.Canceled) {
		logger.Info("simulation interrupted")
		return nil
	}
	return err
}

// buildSink assembles the enabled outputs.
func buildSink(ctx context.Context, opts RunOptions, g *graph.Graph) (ports.Sink, func(), error) {
	var sinks ports.MultiSink
	closer := func() {}
	switch {
	case opts.NoStdout:
	case opts.Vectorize:
		sinks = append(sinks, jsonl.NewVectorWriter(opts.Out, ingest.NewVectorizer(ingest.FeatureList(g), ingest.ByNode)))
	default:
		sinks = append(sinks, jsonl.NewWriter(opts.Out))
	}
	if opts.RedisAddr != "" {
		pub := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, redis.WithChannel(opts.Channel))
		if err := pub.Ping(ctx); err != nil {
			pub.Close()
			return nil, nil, fmt.Errorf("redis %s unreachable: %w", opts.RedisAddr, err)
		}
		sinks = append(sinks, pub)
		closer = func() { pub.Close() }
	}
	if len(sinks) == 0 {
		return ports.Discard, closer, nil
	}
	return sinks, closer, nil
}

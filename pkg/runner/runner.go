package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/infrasim/internal/logging"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/ports"
	"github.com/aretw0/infrasim/pkg/sim"
)

// Runner drives a simulation and pushes its events to a sink in bursts.
type Runner struct {
	Driver *sim.Driver
	Sink   ports.Sink

	// Sleep is the pause after each burst.
	Sleep time.Duration
	// MinEventsPerBurst is the number of events accumulated before a push.
	MinEventsPerBurst int
	// Ticks bounds the run; zero runs until cancelled.
	Ticks int

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Stats summarizes a run.
type Stats struct {
	Ticks  int
	Events int
	Bursts int
}

// NewRunner creates a runner with the default pacing.
func NewRunner(driver *sim.Driver, sink ports.Sink, opts ...Option) *Runner {
	r := &Runner{
		Driver:            driver,
		Sink:              sink,
		Sleep:             DefaultSleep,
		MinEventsPerBurst: DefaultMinEventsPerBurst,
		Logger:            logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the driver and blocks until the tick bound is reached, ctx is
// cancelled or the sink fails. Cancellation stops the driver at the next
// tick boundary; events already produced are still pushed. A cancelled run
// returns ctx.Err().
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	seq, err := r.Driver.Start(r.Ticks)
	if err != nil {
		return stats, err
	}
	var pending []domain.Batch
	pendingEvents := 0
	push := func(pushCtx context.Context) error {
		if len(pending) == 0 {
			return nil
		}
		if err := r.Sink.Push(pushCtx, pending); err != nil {
			return fmt.Errorf("sink push failed at tick %d: %w", pending[len(pending)-1].Tick, err)
		}
		stats.Bursts++
		logger.Debug("burst pushed", "batches", len(pending), "events", pendingEvents)
		pending, pendingEvents = nil, 0
		return nil
	}

	for b := range seq {
		if ctx.Err() != nil {
			r.Driver.Stop()
		}
		stats.Ticks++
		stats.Events += b.Len()
		pending = append(pending, b)
		pendingEvents += b.Len()
		if pendingEvents < r.MinEventsPerBurst {
			continue
		}
		if err := push(ctx); err != nil {
			return stats, err
		}
		r.pause(ctx)
	}

	if err := push(context.WithoutCancel(ctx)); err != nil {
		return stats, err
	}
	logger.Info("simulation finished", "run_id", r.Driver.RunID(), "ticks", stats.Ticks, "events", stats.Events, "bursts", stats.Bursts)
	return stats, ctx.Err()
}

func (r *Runner) pause(ctx context.Context) {
	if r.Sleep <= 0 {
		return
	}
	timer := time.NewTimer(r.Sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/pkg/adapters/memory"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/ports"
	"github.com/aretw0/infrasim/pkg/presets"
	"github.com/aretw0/infrasim/pkg/runner"
	"github.com/aretw0/infrasim/pkg/sim"
)

func newDriver(t *testing.T, opts ...sim.Option) *sim.Driver {
	t.Helper()
	g, err := graph.Build(presets.IPTables())
	require.NoError(t, err)
	d, err := sim.New(g, append([]sim.Option{sim.WithSeed(9)}, opts...)...)
	require.NoError(t, err)
	return d
}

func TestRunner_Bursts(t *testing.T) {
	sink := memory.NewSink(0)
	var bursts []int
	counting := ports.MultiSink{sink, ports.SinkFunc(func(_ context.Context, batches []domain.Batch) error {
		n := 0
		for _, b := range batches {
			n += b.Len()
		}
		bursts = append(bursts, n)
		return nil
	})}

	r := runner.NewRunner(newDriver(t), counting,
		runner.WithTicks(200),
		runner.WithMinEventsPerBurst(20),
		runner.WithSleep(0),
	)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200, stats.Ticks)
	assert.Equal(t, stats.Events, sink.Len())
	assert.Len(t, sink.Batches(), 200, "every batch reaches the sink")
	assert.Equal(t, len(bursts), stats.Bursts)
	for _, n := range bursts[:len(bursts)-1] {
		assert.GreaterOrEqual(t, n, 20)
	}
}

func TestRunner_EveryTick(t *testing.T) {
	sink := memory.NewSink(0)
	r := runner.NewRunner(newDriver(t), sink, runner.WithTicks(10), runner.WithMinEventsPerBurst(0), runner.WithSleep(0))
	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Bursts)
}

func TestRunner_Defaults(t *testing.T) {
	r := runner.NewRunner(newDriver(t), ports.Discard)
	assert.Equal(t, runner.DefaultSleep, r.Sleep)
	assert.Equal(t, 500, r.MinEventsPerBurst)
	assert.Zero(t, r.Ticks)
}

func TestRunner_Cancel(t *testing.T) {
	sink := memory.NewSink(0)
	ctx, cancel := context.WithCancel(context.Background())
	d := newDriver(t, sim.WithHooks(domain.LifecycleHooks{
		OnTick: func(b *domain.Batch) {
			if b.Tick == 49 {
				cancel()
			}
		},
	}))

	r := runner.NewRunner(d, sink, runner.WithMinEventsPerBurst(1_000_000), runner.WithSleep(time.Hour))
	stats, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 50, stats.Ticks, "the driver stops at the next tick boundary")
	assert.Len(t, sink.Batches(), 50, "pending batches are flushed")
	assert.Equal(t, sim.StateStopped, d.State())
}

func TestRunner_CancelDuringSleep(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := runner.NewRunner(newDriver(t), ports.Discard, runner.WithMinEventsPerBurst(0), runner.WithSleep(time.Hour))
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_SinkError(t *testing.T) {
	boom := errors.New("connection refused")
	d := newDriver(t)
	r := runner.NewRunner(d, ports.SinkFunc(func(context.Context, []domain.Batch) error { return boom }),
		runner.WithMinEventsPerBurst(0), runner.WithSleep(0))

	stats, err := r.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, stats.Ticks)
	assert.Equal(t, sim.StateStopped, d.State())
}

func TestRunner_DriverAlreadyStarted(t *testing.T) {
	d := newDriver(t)
	_, err := d.Start(1)
	require.NoError(t, err)

	_, err = runner.NewRunner(d, ports.Discard).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrDriverStarted)
}

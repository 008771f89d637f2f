// Package sim advances a node graph through discrete ticks.
//
// Each tick visits every node once. A visited node first applies its type's
// transition chain (at most one state change) and then evaluates every
// trigger of its type against the possibly updated state. Nodes visited
// later in the same tick observe the changes made earlier.
package sim

import (
	"context"
	"encoding/binary"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/infrasim/internal/logging"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/probability"
)

// HoursPerDay is the size of the hour wheel. Hour 24 is a position of its
// own, matching the last sample point of interpolated probabilities.
const HoursPerDay = 25

// State is the lifecycle state of a Driver.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Driver owns the simulation clock and the random source.
//
// Step and the iterator returned by Start must be used from one goroutine.
// Stop may be called from any goroutine.
type Driver struct {
	graph     *graph.Graph
	nodes     []*domain.StateNode
	src       probability.Source
	seed      uint64
	order     graph.VisitOrder
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	startHour int
	startTime time.Time
	runID     string

	tick  int
	hour  int
	state    atomic.Int32
	stop     atomic.Bool
	stepping atomic.Bool
}

// New creates an idle driver over g.
func New(g *graph.Graph, opts ...Option) (*Driver, error) {
	d := &Driver{
		graph:     g,
		logger:    logging.NewNop(),
		startTime: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	seeded := true
	for _, opt := range opts {
		opt(d)
	}
	if d.startHour < 0 || d.startHour >= HoursPerDay {
		return nil, fmt.Errorf("start hour %d out of range [0,%d]", d.startHour, HoursPerDay-1)
	}
	if d.src == nil {
		d.src = probability.NewSource(d.seed)
	} else {
		seeded = false
	}
	if d.runID == "" {
		id, err := newRunID(d.seed, seeded)
		if err != nil {
			return nil, fmt.Errorf("failed to generate run id: %w", err)
		}
		d.runID = id
	}
	d.nodes = g.Order(d.order)
	d.hour = d.startHour
	return d, nil
}

func newRunID(seed uint64, seeded bool) (string, error) {
	if !seeded {
		return uuid.NewString(), nil
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	id, err := uuid.NewRandomFromReader(rand.NewChaCha8(key))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Start returns an iterator yielding one batch per tick. ticks <= 0 runs
// until Stop is called or the consumer stops ranging. Once the iterator
// returns, the driver is stopped for good.
func (d *Driver) Start(ticks int) (iter.Seq[domain.Batch], error) {
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		if d.State() == StateStopped {
			return nil, domain.ErrDriverStopped
		}
		return nil, domain.ErrDriverStarted
	}
	d.logger.Debug("simulation started",
		"run_id", d.runID, "nodes", len(d.nodes), "order", d.order, "start_hour", d.startHour, "ticks", ticks)

	return func(yield func(domain.Batch) bool) {
		if d.State() != StateRunning {
			return
		}
		defer func() {
			d.state.Store(int32(StateStopped))
			d.logger.Debug("simulation stopped", "run_id", d.runID, "ticks", d.tick)
		}()
		for i := 0; ticks <= 0 || i < ticks; i++ {
			if d.stop.Load() {
				return
			}
			if !yield(d.step()) {
				return
			}
		}
	}, nil
}

// Stop asks the driver to halt at the next tick boundary. A tick in
// progress always completes. Stopping an idle or stepped driver makes it
// unusable.
func (d *Driver) Stop() {
	d.stop.Store(true)
	if d.stepping.Load() {
		d.state.Store(int32(StateStopped))
		return
	}
	d.state.CompareAndSwap(int32(StateIdle), int32(StateStopped))
}

// Step runs exactly one tick outside of Start. The first Step moves an idle
// driver to running; Start is rejected from then on.
func (d *Driver) Step() (domain.Batch, error) {
	if d.State() == StateStopped || d.stop.Load() {
		return domain.Batch{}, domain.ErrDriverStopped
	}
	if !d.stepping.Load() {
		if !d.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
			return domain.Batch{}, domain.ErrDriverStarted
		}
		d.stepping.Store(true)
		d.logger.Debug("simulation stepping", "run_id", d.runID, "nodes", len(d.nodes), "order", d.order)
	}
	return d.step(), nil
}

func (d *Driver) step() domain.Batch {
	ctx := context.Background()
	trace := d.logger.Enabled(ctx, logging.LevelTrace)
	hour := float64(d.hour)
	now := d.startTime.Add(time.Duration(d.tick) * time.Hour)

	batch := domain.Batch{RunID: d.runID, Tick: d.tick, Hour: d.hour, Events: []domain.Event{}}
	for _, n := range d.nodes {
		from := n.State
		if t, ok := d.graph.Chain(n.Type).Select(n, hour, d.src); ok {
			if d.hooks.OnTransition != nil {
				d.hooks.OnTransition(&domain.TransitionEvent{
					NodeID: n.ID, NodeType: n.Type, From: from, To: t.To, Tick: d.tick, Hour: d.hour,
				})
			}
			if trace {
				d.logger.Log(ctx, logging.LevelTrace, "transition", "node", n.ID, "from", from, "to", t.To, "tick", d.tick)
			}
		}
		for _, tr := range d.graph.Triggers(n.Type) {
			ev, ok, err := tr.Evaluate(n, hour, d.tick, d.src)
			if err != nil {
				d.logger.Warn("message rendered as raw text", "node", n.ID, "tick", d.tick, "err", err)
			}
			if !ok {
				continue
			}
			ev.Timestamp = now
			batch.Events = append(batch.Events, ev)
			if d.hooks.OnEvent != nil {
				d.hooks.OnEvent(&ev)
			}
			if trace {
				d.logger.Log(ctx, logging.LevelTrace, "event", "node", n.ID, "msg", ev.Message, "tick", d.tick)
			}
		}
	}

	d.tick++
	d.hour = (d.hour + 1) % HoursPerDay
	if d.hooks.OnTick != nil {
		d.hooks.OnTick(&batch)
	}
	return batch
}

// State returns the lifecycle state.
func (d *Driver) State() State { return State(d.state.Load()) }

// Tick returns the index of the next tick.
func (d *Driver) Tick() int { return d.tick }

// Hour returns the hour of day of the next tick.
func (d *Driver) Hour() int { return d.hour }

// RunID identifies the run on every batch.
func (d *Driver) RunID() string { return d.runID }

// Graph returns the simulated graph.
func (d *Driver) Graph() *graph.Graph { return d.graph }

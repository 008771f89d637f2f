package sim

import (
	"log/slog"
	"time"

	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/probability"
)

// Option configures a Driver.
type Option func(*Driver)

// WithSeed seeds the default random source. Equal seeds over equal graphs
// produce equal batch sequences, run id included. The seed is ignored when a
// source is injected with WithSource.
func WithSeed(seed uint64) Option {
	return func(d *Driver) {
		d.seed = seed
	}
}

// WithSource injects the random source used by every probability draw. It
// takes precedence over WithSeed regardless of option order.
func WithSource(src probability.Source) Option {
	return func(d *Driver) {
		d.src = src
	}
}

// WithStartHour sets the hour of day of the first tick (0..24).
func WithStartHour(hour int) Option {
	return func(d *Driver) {
		d.startHour = hour
	}
}

// WithStartTime sets the simulated wall clock of the first tick.
func WithStartTime(t time.Time) Option {
	return func(d *Driver) {
		d.startTime = t
	}
}

// WithOrder selects the node visit order.
func WithOrder(o graph.VisitOrder) Option {
	return func(d *Driver) {
		d.order = o
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(d *Driver) {
		d.hooks = h
	}
}

// WithLogger sets the logger. Transitions and events are logged at trace level.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(d *Driver) {
		d.runID = id
	}
}

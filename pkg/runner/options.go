package runner

import (
	"log/slog"
	"time"
)

// DefaultSleep is the pause between bursts.
const DefaultSleep = 10 * time.Millisecond

// DefaultMinEventsPerBurst is the number of events accumulated before a push.
const DefaultMinEventsPerBurst = 500

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSleep sets the pause after each burst. Zero disables pacing.
func WithSleep(d time.Duration) Option {
	return func(r *Runner) {
		r.Sleep = d
	}
}

// WithMinEventsPerBurst sets how many events are accumulated before a push.
// Zero pushes every tick.
func WithMinEventsPerBurst(n int) Option {
	return func(r *Runner) {
		r.MinEventsPerBurst = n
	}
}

// WithTicks bounds the run. Zero runs until cancelled.
func WithTicks(n int) Option {
	return func(r *Runner) {
		r.Ticks = n
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// Package metrics exposes simulation activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/infrasim/pkg/domain"
)

// Collector counts ticks, transitions and events of a run.
type Collector struct {
	Ticks       prometheus.Counter
	Transitions *prometheus.CounterVec
	Events      *prometheus.CounterVec
	BatchSize   prometheus.Histogram
}

// NewCollector creates the metrics and registers them on reg.
// A nil registerer leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "infrasim_ticks_total",
			Help: "Total number of simulated ticks",
		}),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infrasim_transitions_total",
				Help: "Total number of node state transitions",
			},
			[]string{"type", "from", "to"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "infrasim_events_total",
				Help: "Total number of emitted events",
			},
			[]string{"node"},
		),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "infrasim_batch_events",
			Help:    "Number of events per tick",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}
	if reg == nil {
		return c, nil
	}
	for _, m := range []prometheus.Collector{c.Ticks, c.Transitions, c.Events, c.BatchSize} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks feeding the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) {
			c.Transitions.WithLabelValues(e.NodeType, e.From, e.To).Inc()
		},
		OnEvent: func(e *domain.Event) {
			c.Events.WithLabelValues(e.NodeID).Inc()
		},
		OnTick: func(b *domain.Batch) {
			c.Ticks.Inc()
			c.BatchSize.Observe(float64(b.Len()))
		},
	}
}

// Chain combines hooks; each callback runs the non-nil callbacks of every
// set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if f, prev := h.OnTransition, out.OnTransition; f != nil {
			out.OnTransition = func(e *domain.TransitionEvent) {
				if prev != nil {
					prev(e)
				}
				f(e)
			}
		}
		if f, prev := h.OnEvent, out.OnEvent; f != nil {
			out.OnEvent = func(e *domain.Event) {
				if prev != nil {
					prev(e)
				}
				f(e)
			}
		}
		if f, prev := h.OnTick, out.OnTick; f != nil {
			out.OnTick = func(b *domain.Batch) {
				if prev != nil {
					prev(b)
				}
				f(b)
			}
		}
	}
	return out
}

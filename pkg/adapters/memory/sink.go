package memory

import (
	"context"
	"sync"

	"github.com/gammazero/deque"

	"github.com/aretw0/infrasim/pkg/domain"
)

// Sink implements ports.Sink in memory, keeping the most recent batches.
// Safe for concurrent use.
type Sink struct {
	mu      sync.RWMutex
	batches deque.Deque[domain.Batch]
	limit   int
	events  int
}

// NewSink creates a sink retaining at most limit batches; limit <= 0 keeps
// everything.
func NewSink(limit int) *Sink {
	return &Sink{limit: limit}
}

// Push stores copies of the batches.
func (s *Sink) Push(_ context.Context, batches []domain.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range batches {
		cp := b
		cp.Events = append([]domain.Event(nil), b.Events...)
		s.batches.PushBack(cp)
		s.events += len(cp.Events)
		if s.limit > 0 && s.batches.Len() > s.limit {
			dropped := s.batches.PopFront()
			s.events -= len(dropped.Events)
		}
	}
	return nil
}

// Batches returns the retained batches, oldest first.
func (s *Sink) Batches() []domain.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Batch, 0, s.batches.Len())
	for i := 0; i < s.batches.Len(); i++ {
		out = append(out, s.batches.At(i))
	}
	return out
}

// Records returns the retained events in wire form, oldest first.
func (s *Sink) Records() []domain.Record {
	var out []domain.Record
	for _, b := range s.Batches() {
		for _, e := range b.Events {
			out = append(out, e.Record())
		}
	}
	return out
}

// Len returns the number of retained events.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// Reset drops everything.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches.Clear()
	s.events = 0
}

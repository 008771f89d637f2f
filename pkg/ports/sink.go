package ports

import (
	"context"
	"errors"

	"github.com/aretw0/infrasim/pkg/domain"
)

// Sink receives event batches produced by a simulation.
// The engine makes no assumption on how they are persisted or transported.
type Sink interface {
	// Push hands over batches in tick order. An error aborts the run.
	Push(ctx context.Context, batches []domain.Batch) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, batches []domain.Batch) error

// Push calls f.
func (f SinkFunc) Push(ctx context.Context, batches []domain.Batch) error {
	return f(ctx, batches)
}

// MultiSink pushes to every sink in order and joins their errors.
type MultiSink []Sink

// Push implements Sink.
func (m MultiSink) Push(ctx context.Context, batches []domain.Batch) error {
	var errs []error
	for _, s := range m {
		if err := s.Push(ctx, batches); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a Sink that drops everything.
var Discard Sink = SinkFunc(func(context.Context, []domain.Batch) error { return nil })

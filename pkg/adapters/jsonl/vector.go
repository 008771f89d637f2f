package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/ingest"
)

// Vector is one line of a VectorWriter: the event counts of a burst, in
// feature order.
type Vector struct {
	FromTick int       `json:"from_tick"`
	ToTick   int       `json:"to_tick"`
	Features []string  `json:"features"`
	Counts   []float64 `json:"counts"`
}

// VectorWriter implements ports.Sink by writing one count vector per push
// instead of one line per event.
type VectorWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
	vec *ingest.Vectorizer
}

// NewVectorWriter creates a writer on w counting with vec.
func NewVectorWriter(w io.Writer, vec *ingest.Vectorizer) *VectorWriter {
	return &VectorWriter{enc: json.NewEncoder(w), vec: vec}
}

// Push writes the vector of the batches. An empty push writes nothing.
func (w *VectorWriter) Push(ctx context.Context, batches []domain.Batch) error {
	if len(batches) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	line := Vector{
		FromTick: batches[0].Tick,
		ToTick:   batches[len(batches)-1].Tick,
		Features: w.vec.Features(),
		Counts:   w.vec.Vectorize(batches...),
	}
	if err := w.enc.Encode(line); err != nil {
		return fmt.Errorf("failed to write vector: %w", err)
	}
	return nil
}

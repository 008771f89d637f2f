// Package jsonl writes simulation events as JSON lines.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/infrasim/pkg/domain"
)

// Writer implements ports.Sink by writing one record per line.
// Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Push writes every event of the batches.
func (w *Writer) Push(ctx context.Context, batches []domain.Batch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, e := range b.Events {
			if err := w.enc.Encode(e.Record()); err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
		}
	}
	return nil
}

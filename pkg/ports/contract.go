package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/pkg/domain"
)

// RunSinkContract runs a suite of tests to verify that a Sink implementation
// adheres to the defined interface contract. received returns the records
// the sink delivered so far, in delivery order.
func RunSinkContract(t *testing.T, sink Sink, received func(t *testing.T) []domain.Record) {
	ctx := context.Background()
	at := time.Date(2000, time.January, 1, 3, 0, 0, 0, time.UTC)

	batches := []domain.Batch{
		{RunID: "contract", Tick: 3, Hour: 3, Events: []domain.Event{
			{NodeID: "w1", Message: "Application is down", Tick: 3, Hour: 3, Timestamp: at},
			{NodeID: "h1", Message: "Host is unreachable or down", Tick: 3, Hour: 3, Timestamp: at},
		}},
		{RunID: "contract", Tick: 4, Hour: 4, Events: []domain.Event{}},
		{RunID: "contract", Tick: 5, Hour: 5, Events: []domain.Event{
			{NodeID: "support_1", Message: "User complained for poor web service", Tick: 5, Hour: 5, Timestamp: at.Add(2 * time.Hour)},
		}},
	}

	t.Run("Push preserves order", func(t *testing.T) {
		require.NoError(t, sink.Push(ctx, batches))

		want := []domain.Record{
			batches[0].Events[0].Record(),
			batches[0].Events[1].Record(),
			batches[2].Events[0].Record(),
		}
		assert.Equal(t, want, received(t))
	})

	t.Run("Push empty", func(t *testing.T) {
		before := len(received(t))
		require.NoError(t, sink.Push(ctx, nil))
		require.NoError(t, sink.Push(ctx, []domain.Batch{{RunID: "contract", Tick: 6}}))
		assert.Len(t, received(t), before)
	})
}

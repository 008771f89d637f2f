package jsonl_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/pkg/adapters/jsonl"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/ingest"
	"github.com/aretw0/infrasim/pkg/ports"
)

func TestWriter_Contract(t *testing.T) {
	var buf bytes.Buffer
	w := jsonl.NewWriter(&buf)
	ports.RunSinkContract(t, w, func(t *testing.T) []domain.Record {
		var out []domain.Record
		sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
		for sc.Scan() {
			var r domain.Record
			require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
			out = append(out, r)
		}
		return out
	})
}

func TestWriter_Format(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	err := jsonl.NewWriter(&buf).Push(context.Background(), []domain.Batch{{Events: []domain.Event{
		{NodeID: "w1", Message: "Application is down", Tick: 3, Timestamp: at},
	}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ctime": 946684800, "event": {"id": "w1", "msg": "Application is down", "tick": 3}}`, buf.String())
}

type failing struct{}

func (failing) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_Errors(t *testing.T) {
	err := jsonl.NewWriter(failing{}).Push(context.Background(), []domain.Batch{{Events: []domain.Event{{NodeID: "a"}}}})
	assert.ErrorContains(t, err, "disk full")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = jsonl.NewWriter(&bytes.Buffer{}).Push(ctx, []domain.Batch{{}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVectorWriter(t *testing.T) {
	var buf bytes.Buffer
	vec := ingest.NewVectorizer([]string{"h1", "w1"}, nil)
	w := jsonl.NewVectorWriter(&buf, vec)

	require.NoError(t, w.Push(context.Background(), nil))
	assert.Empty(t, buf.String())

	err := w.Push(context.Background(), []domain.Batch{
		{Tick: 4, Events: []domain.Event{{NodeID: "w1"}, {NodeID: "w1"}, {NodeID: "s1"}}},
		{Tick: 5, Events: []domain.Event{{NodeID: "h1"}}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from_tick": 4, "to_tick": 5, "features": ["h1", "w1"], "counts": [1, 2]}`, buf.String())

	err = jsonl.NewVectorWriter(failing{}, vec).Push(context.Background(), []domain.Batch{{}})
	assert.ErrorContains(t, err, "disk full")
}

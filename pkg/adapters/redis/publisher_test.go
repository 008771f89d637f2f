package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/infrasim/pkg/adapters/redis"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/ports"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestPublisher_Contract(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "test:events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	messages := sub.Channel()

	var got []domain.Record
	received := func(t *testing.T) []domain.Record {
		for {
			select {
			case msg := <-messages:
				var r domain.Record
				require.NoError(t, json.Unmarshal([]byte(msg.Payload), &r))
				got = append(got, r)
			case <-time.After(200 * time.Millisecond):
				return got
			}
		}
	}

	pub := redis.NewFromClient(client, redis.WithChannel("test:events"))
	assert.Equal(t, "test:events", pub.Channel())
	require.NoError(t, pub.Ping(ctx))
	ports.RunSinkContract(t, pub, received)
}

func TestPublisher_DefaultChannel(t *testing.T) {
	_, client := setup(t)
	pub := redis.NewFromClient(client, redis.WithChannel(""))
	assert.Equal(t, redis.DefaultChannel, pub.Channel())
}

func TestPublisher_ConnectionError(t *testing.T) {
	mr, client := setup(t)
	pub := redis.NewFromClient(client)
	mr.Close()

	err := pub.Push(context.Background(), []domain.Batch{{Events: []domain.Event{{NodeID: "w1"}}}})
	assert.Error(t, err)
}

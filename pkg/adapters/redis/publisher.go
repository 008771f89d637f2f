// Package redis publishes simulation events on a Redis channel.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/infrasim/pkg/domain"
)

// DefaultChannel is the channel events are published on.
const DefaultChannel = "infrasim:events"

// Publisher implements ports.Sink using Redis PUBLISH.
// Nothing is stored; subscribers that are not listening miss the events.
type Publisher struct {
	client  *backend.Client
	channel string
}

type Option func(*Publisher)

// WithChannel sets the channel events are published on.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		if channel != "" {
			p.channel = channel
		}
	}
}

// New creates a publisher with its own client.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		channel: DefaultChannel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Channel returns the channel events are published on.
func (p *Publisher) Channel() string { return p.channel }

// Ping checks the connection.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Push publishes one JSON record per event, pipelined per call.
func (p *Publisher) Push(ctx context.Context, batches []domain.Batch) error {
	pipe := p.client.Pipeline()
	queued := 0
	for _, b := range batches {
		for _, e := range b.Events {
			data, err := json.Marshal(e.Record())
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			pipe.Publish(ctx, p.channel, data)
			queued++
		}
	}
	if queued == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", queued, err)
	}
	return nil
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

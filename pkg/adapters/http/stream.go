package http

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/infrasim/internal/logging"
	"github.com/aretw0/infrasim/pkg/domain"
)

// Message is a batch broadcast to SSE subscribers, with its encoded form.
type Message struct {
	Batch   domain.Batch
	Payload string
}

func (m Message) mentions(nodes []string) bool {
	for _, e := range m.Batch.Events {
		if slices.Contains(nodes, e.NodeID) {
			return true
		}
	}
	return false
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates a manager logging dropped batches to logger.
// A nil logger discards them.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan Message]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel.
func (sm *StreamManager) Subscribe() (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 64)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Len returns the number of subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber without blocking.
func (sm *StreamManager) Broadcast(msg Message) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping batch", "tick", msg.Batch.Tick)
		}
	}
}

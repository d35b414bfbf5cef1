// Package pubsub delivers events to channel subscribers.
//
// Hub keeps subscribers in process and suits a single instance. RedisBroker relays
// channels through Redis pub/sub so every instance sees every event. KafkaPublisher
// appends selected events to a durable topic for other services, and Fanout
// publishes one event through several publishers.
package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"marketplace/internal/core/ports"
)

// DefaultBuffer is the number of events a subscriber may lag behind before
// further events to it are dropped.
const DefaultBuffer = 64

// Hub is an in-memory ports.EventPublisher and ports.EventSubscriber.
//
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	buffer int
	closed bool
	logger *slog.Logger
}

type subscription struct {
	ch chan ports.Event
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
// A non-positive buffer selects DefaultBuffer.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[*subscription]struct{}),
		buffer: buffer,
		logger: logger.With("component", "pubsub_hub"),
	}
}

// Publish delivers event to every current subscriber of channel.
func (h *Hub) Publish(ctx context.Context, channel string, event ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[channel] {
		select {
		case sub.ch <- event:
		default:
			h.logger.WarnContext(ctx, "subscriber is lagging, event dropped",
				"channel", channel,
				"event", event.Name,
			)
		}
	}
	return nil
}

// Subscribe registers a subscriber on channel until ctx is done.
func (h *Hub) Subscribe(ctx context.Context, channel string) (<-chan ports.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &subscription{ch: make(chan ports.Event, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[*subscription]struct{})
	}
	h.subs[channel][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.unsubscribe(channel, sub)
	}()

	return sub.ch, nil
}

// Subscribers returns the number of subscribers of channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}

// Close ends every subscription. Later Subscribe calls fail with ErrClosed.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for channel, subs := range h.subs {
		for sub := range subs {
			close(sub.ch)
		}
		delete(h.subs, channel)
	}
	return nil
}

func (h *Hub) unsubscribe(channel string, sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subs[channel]
	if !ok {
		return
	}
	if _, ok = subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.subs, channel)
	}
}

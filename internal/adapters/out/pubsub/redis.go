package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"marketplace/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisBroker relays channels through Redis pub/sub. Events travel as the JSON
// encoding of ports.Event.
type RedisBroker struct {
	client *redis.Client
	prefix string
	buffer int
	logger *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewRedisBroker creates a broker whose Redis channel names are prefix + channel.
func NewRedisBroker(client *redis.Client, prefix string, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{
		client: client,
		prefix: prefix,
		buffer: DefaultBuffer,
		logger: logger.With("component", "pubsub_redis"),
		done:   make(chan struct{}),
	}
}

// Publish sends event to channel.
func (b *RedisBroker) Publish(ctx context.Context, channel string, event ports.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Name, err)
	}

	if err = b.client.Publish(ctx, b.prefix+channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe listens on channel until ctx is done. The subscription is confirmed by
// Redis before Subscribe returns, so events published afterwards are not missed.
func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan ports.Event, error) {
	select {
	case <-b.done:
		return nil, ErrClosed
	default:
	}

	ps := b.client.Subscribe(ctx, b.prefix+channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe to %s: %w", channel, err)
	}

	out := make(chan ports.Event, b.buffer)
	go func() {
		defer close(out)
		defer ps.Close()

		messages := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event ports.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.WarnContext(ctx, "skip malformed event", "channel", channel, "error", err)
					continue
				}

				select {
				case out <- event:
				case <-ctx.Done():
					return
				case <-b.done:
					return
				}
			}
		}
	}()

	return out, nil
}

// Close ends every open subscription. The Redis client stays open and is
// released by its owner.
func (b *RedisBroker) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}

// Ping checks the Redis connection.
func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

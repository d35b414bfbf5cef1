package pubsub

import (
	"context"
	"errors"

	"marketplace/internal/core/ports"
)

// Fanout publishes every event through all of its publishers. A failing publisher
// does not stop the others; their errors are joined.
type Fanout []ports.EventPublisher

// Publish implements ports.EventPublisher.
func (f Fanout) Publish(ctx context.Context, channel string, event ports.Event) error {
	var joined error
	for _, p := range f {
		if err := p.Publish(ctx, channel, event); err != nil {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}

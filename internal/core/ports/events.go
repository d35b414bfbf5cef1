package ports

import (
	"context"
	"encoding/json"
)

// AdminsChannel is the role-wide channel sellers and admins subscribe to for new orders.
const AdminsChannel = "admins"

// Event is a named message published on a channel. Payload holds the JSON encoding
// of the event body so that events survive a trip through an external broker
// unchanged.
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// EventPublisher delivers events to every current subscriber of a channel.
// Channels are order ids, user ids, or AdminsChannel.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

// EventSubscriber opens a subscription to a channel. The returned channel is
// closed when ctx is done or the subscription fails.
type EventSubscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan Event, error)
}

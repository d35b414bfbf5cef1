package pubsub

import "errors"

// ErrClosed is returned when subscribing to a closed broker.
var ErrClosed = errors.New("pubsub: broker is closed")

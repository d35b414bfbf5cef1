// Package courier runs the simulated courier of confirmed orders: one tracking session
// per order that walks from a reference city to the buyer's destination and streams its
// position to the order channel.
//
// # Concurrency
//
// Registry.mu guards the session map; every session carries its own mutex so ticks of
// one session never interleave. Locks are always taken registry first, session second,
// and a tick releases its session lock before it touches the registry.
package courier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/tracking"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

const (
	// DefaultInterval is the pause between two courier positions.
	DefaultInterval = time.Second

	// maxPublishTimeout caps a single publish. The effective limit is also at
	// most half the interval so a slow broker cannot hold a tick past the next one.
	maxPublishTimeout = 5 * time.Second
)

// Registry owns the active tracking sessions keyed by order id.
type Registry struct {
	mu       sync.Mutex
	sessions map[kernel.UUID]*broadcast

	ticker         Ticker
	publisher      ports.EventPublisher
	origins        tracking.OriginPicker
	interval       time.Duration
	publishTimeout time.Duration
	totalSteps     int
	metrics        *metrics.Recorder
	logger         *slog.Logger
}

type broadcast struct {
	mu      sync.Mutex
	session *tracking.Session
	stop    func()
	done    bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(r *Registry) { r.interval = d }
}

// WithTotalSteps overrides tracking.TotalSteps.
func WithTotalSteps(n int) Option {
	return func(r *Registry) { r.totalSteps = n }
}

// WithMetrics reports the number of active sessions and emitted events to m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates an empty registry.
func NewRegistry(
	ticker Ticker,
	publisher ports.EventPublisher,
	origins tracking.OriginPicker,
	logger *slog.Logger,
	opts ...Option,
) (*Registry, error) {
	if ticker == nil {
		return nil, errs.NewValueIsRequiredError("ticker")
	}
	if publisher == nil {
		return nil, errs.NewValueIsRequiredError("publisher")
	}
	if origins == nil {
		return nil, errs.NewValueIsRequiredError("origins")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	r := &Registry{
		sessions:   make(map[kernel.UUID]*broadcast),
		ticker:     ticker,
		publisher:  publisher,
		origins:    origins,
		interval:   DefaultInterval,
		totalSteps: tracking.TotalSteps,
		logger:     logger.With("component", "courier_registry"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.interval <= 0 {
		return nil, errs.NewValueIsInvalidError("interval")
	}
	r.publishTimeout = min(maxPublishTimeout, r.interval/2)
	return r, nil
}

// Start begins tracking orderID toward destination.
//
// Start is a no-op returning false when a session for the order is already active.
// Otherwise it picks an origin, schedules a tick every interval and returns true.
// An invalid destination is rejected before anything is scheduled.
func (r *Registry) Start(orderID kernel.UUID, destination kernel.GeoPoint) (bool, error) {
	if err := errors.Join(orderID.Validate(), destination.Validate()); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[orderID]; ok {
		return false, nil
	}

	origin := r.origins.Pick()
	session, err := tracking.NewSession(orderID, origin, destination, r.totalSteps)
	if err != nil {
		return false, err
	}

	b := &broadcast{session: session}
	b.mu.Lock()
	defer b.mu.Unlock()

	stop, err := r.ticker.Every(r.interval, func() { r.tick(orderID, b) })
	if err != nil {
		return false, err
	}
	b.stop = stop
	r.sessions[orderID] = b
	r.metrics.ActiveSessions(len(r.sessions))

	r.logger.Info("tracking started",
		"order_id", orderID.String(),
		"origin", origin.Name(),
		"destination", destination.String(),
	)
	return true, nil
}

// Cancel stops the session of orderID. Nothing is published for it afterwards.
// It reports whether a session was active.
func (r *Registry) Cancel(orderID kernel.UUID) bool {
	r.mu.Lock()
	b, ok := r.sessions[orderID]
	if ok {
		delete(r.sessions, orderID)
		r.metrics.ActiveSessions(len(r.sessions))
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	b.mu.Lock()
	b.done = true
	b.mu.Unlock()
	b.stop()

	r.logger.Info("tracking cancelled", "order_id", orderID.String())
	return true
}

// CancelAll stops every session and returns how many were active.
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	ids := make([]kernel.UUID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	cancelled := 0
	for _, id := range ids {
		if r.Cancel(id) {
			cancelled++
		}
	}
	return cancelled
}

// Active reports whether orderID is being tracked.
func (r *Registry) Active(orderID kernel.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[orderID]
	return ok
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) tick(orderID kernel.UUID, b *broadcast) {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return
	}

	pos, err := b.session.Advance()
	if err != nil {
		r.logger.Error("advance tracking session", "order_id", orderID.String(), "error", err)
		b.done = true
	} else {
		location, err := events.Location(pos)
		r.emit(orderID, location, err)
		if pos.Final {
			delivered, err := events.Delivered(orderID)
			r.emit(orderID, delivered, err)
			b.done = true
		}
	}
	finished := b.done
	b.mu.Unlock()

	if finished {
		r.finish(orderID, b)
	}
}

func (r *Registry) finish(orderID kernel.UUID, b *broadcast) {
	b.stop()

	r.mu.Lock()
	if r.sessions[orderID] == b {
		delete(r.sessions, orderID)
		r.metrics.ActiveSessions(len(r.sessions))
	}
	r.mu.Unlock()

	r.logger.Info("tracking finished", "order_id", orderID.String())
}

func (r *Registry) emit(orderID kernel.UUID, event ports.Event, err error) {
	if err != nil {
		r.logger.Error("encode tracking event", "order_id", orderID.String(), "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.publishTimeout)
	defer cancel()

	if err := r.publisher.Publish(ctx, events.OrderChannel(orderID), event); err != nil {
		r.metrics.PublishFailed(event.Name)
		r.logger.ErrorContext(ctx, "publish tracking event",
			"order_id", orderID.String(),
			"event", event.Name,
			"error", err,
		)
		return
	}
	r.metrics.TrackingEvent(event.Name)
}

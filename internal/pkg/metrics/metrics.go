// Package metrics exposes the prometheus collectors of the order lifecycle and
// the courier tracking registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marketplace"

// Recorder groups the service collectors. A nil *Recorder is valid and records
// nothing, which keeps tests and optional wiring simple.
type Recorder struct {
	ordersPlaced    prometheus.Counter
	statusChanges   *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	trackingEvents  *prometheus.CounterVec
	publishFailures *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of orders placed.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Total number of order status changes by target status.",
		}, []string{"status"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracking",
			Name:      "active_sessions",
			Help:      "Number of courier tracking sessions currently broadcasting.",
		}),
		trackingEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracking",
			Name:      "events_total",
			Help:      "Total number of tracking events emitted by event name.",
		}, []string{"event"}),
		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "publish_failures_total",
			Help:      "Total number of events that could not be published by event name.",
		}, []string{"event"}),
	}

	for _, c := range []prometheus.Collector{
		r.ordersPlaced, r.statusChanges, r.activeSessions, r.trackingEvents, r.publishFailures,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// OrderPlaced counts a placed order.
func (r *Recorder) OrderPlaced() {
	if r == nil {
		return
	}
	r.ordersPlaced.Inc()
}

// StatusChanged counts a status change to status.
func (r *Recorder) StatusChanged(status string) {
	if r == nil {
		return
	}
	r.statusChanges.WithLabelValues(status).Inc()
}

// ActiveSessions sets the number of running tracking sessions.
func (r *Recorder) ActiveSessions(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}

// TrackingEvent counts an emitted tracking event.
func (r *Recorder) TrackingEvent(event string) {
	if r == nil {
		return
	}
	r.trackingEvents.WithLabelValues(event).Inc()
}

// PublishFailed counts an event that could not be published.
func (r *Recorder) PublishFailed(event string) {
	if r == nil {
		return
	}
	r.publishFailures.WithLabelValues(event).Inc()
}

package metrics_test

import (
	"testing"

	"marketplace/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	r.OrderPlaced()
	r.OrderPlaced()
	r.StatusChanged("CONFIRMED")
	r.ActiveSessions(3)
	r.TrackingEvent("courier-location")

	count, err := testutil.GatherAndCount(reg,
		"marketplace_orders_placed_total",
		"marketplace_orders_status_changes_total",
		"marketplace_tracking_active_sessions",
		"marketplace_tracking_events_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRecorder_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	_, err = metrics.NewRecorder(reg)
	require.Error(t, err)
}

func TestRecorder_Nil(t *testing.T) {
	var r *metrics.Recorder

	assert.NotPanics(t, func() {
		r.OrderPlaced()
		r.StatusChanged("REJECTED")
		r.ActiveSessions(1)
		r.TrackingEvent("courier-delivered")
		r.PublishFailed("new-order")
	})
}

package courier_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace/internal/core/application/courier"
	"marketplace/internal/core/application/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/tracking"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	mu    sync.Mutex
	next  int
	ticks map[int]func()
	err   error
}

func newManualTicker() *manualTicker {
	return &manualTicker{ticks: make(map[int]func())}
}

func (m *manualTicker) Every(_ time.Duration, tick func()) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	id := m.next
	m.next++
	m.ticks[id] = tick
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.ticks, id)
	}, nil
}

// Fire runs every registered tick once.
func (m *manualTicker) Fire() {
	m.mu.Lock()
	ticks := make([]func(), 0, len(m.ticks))
	for _, tick := range m.ticks {
		ticks = append(ticks, tick)
	}
	m.mu.Unlock()

	for _, tick := range ticks {
		tick()
	}
}

func (m *manualTicker) Registered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ticks)
}

type published struct {
	channel string
	event   ports.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, event ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{channel: channel, event: event})
	return nil
}

func (p *recordingPublisher) Events() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

func fixedOrigin(t *testing.T, lat, lng float64) tracking.OriginPicker {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	origin, err := tracking.NewOrigin("Testville", point)
	require.NoError(t, err)
	return tracking.OriginPickerFunc(func() tracking.Origin { return origin })
}

func newRegistry(t *testing.T) (*courier.Registry, *manualTicker, *recordingPublisher) {
	t.Helper()
	ticker := newManualTicker()
	publisher := &recordingPublisher{}
	registry, err := courier.NewRegistry(ticker, publisher, fixedOrigin(t, 12.30, 77.30), logging.Discard())
	require.NoError(t, err)
	return registry, ticker, publisher
}

func destination(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(12.00, 77.00)
	require.NoError(t, err)
	return point
}

func TestRegistry_FullJourney(t *testing.T) {
	registry, ticker, publisher := newRegistry(t)
	orderID := kernel.NewUUID()

	started, err := registry.Start(orderID, destination(t))
	require.NoError(t, err)
	require.True(t, started)
	assert.True(t, registry.Active(orderID))

	for range tracking.TotalSteps + 5 {
		ticker.Fire()
	}

	got := publisher.Events()
	require.Len(t, got, tracking.TotalSteps+1)

	for i, p := range got[:tracking.TotalSteps] {
		assert.Equal(t, orderID.String(), p.channel)
		require.Equal(t, events.CourierLocation, p.event.Name, "event %d", i)
	}

	first, err := events.Decode[events.LocationPayload](got[0].event)
	require.NoError(t, err)
	assert.InDelta(t, 12.28, first.Lat, 1e-9)
	assert.InDelta(t, 77.28, first.Lng, 1e-9)
	assert.Equal(t, "Testville", first.City)

	last, err := events.Decode[events.LocationPayload](got[tracking.TotalSteps-1].event)
	require.NoError(t, err)
	assert.InDelta(t, 12.00, last.Lat, 1e-9)
	assert.InDelta(t, 77.00, last.Lng, 1e-9)

	done := got[tracking.TotalSteps]
	assert.Equal(t, events.CourierDelivered, done.event.Name)
	delivered, err := events.Decode[events.DeliveredPayload](done.event)
	require.NoError(t, err)
	assert.True(t, orderID.IsEqual(delivered.OrderID))

	assert.False(t, registry.Active(orderID))
	assert.Zero(t, registry.Count())
	assert.Zero(t, ticker.Registered())
}

func TestRegistry_StartIsIdempotent(t *testing.T) {
	registry, ticker, _ := newRegistry(t)
	orderID := kernel.NewUUID()

	started, err := registry.Start(orderID, destination(t))
	require.NoError(t, err)
	assert.True(t, started)

	started, err = registry.Start(orderID, destination(t))
	require.NoError(t, err)
	assert.False(t, started)

	assert.Equal(t, 1, registry.Count())
	assert.Equal(t, 1, ticker.Registered())
}

func TestRegistry_ConcurrentStart(t *testing.T) {
	registry, ticker, _ := newRegistry(t)
	orderID := kernel.NewUUID()
	dest := destination(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started, err := registry.Start(orderID, dest)
			assert.NoError(t, err)
			if started {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, ticker.Registered())
}

func TestRegistry_CancelStopsEvents(t *testing.T) {
	registry, ticker, publisher := newRegistry(t)
	orderID := kernel.NewUUID()

	_, err := registry.Start(orderID, destination(t))
	require.NoError(t, err)

	for range 3 {
		ticker.Fire()
	}
	require.True(t, registry.Cancel(orderID))

	for range 5 {
		ticker.Fire()
	}

	assert.Len(t, publisher.Events(), 3)
	assert.False(t, registry.Active(orderID))
	assert.Zero(t, ticker.Registered())
	assert.False(t, registry.Cancel(orderID))
}

func TestRegistry_StartAfterDeliveryBeginsNewSession(t *testing.T) {
	registry, ticker, publisher := newRegistry(t)
	orderID := kernel.NewUUID()

	_, err := registry.Start(orderID, destination(t))
	require.NoError(t, err)
	for range tracking.TotalSteps {
		ticker.Fire()
	}
	require.False(t, registry.Active(orderID))

	started, err := registry.Start(orderID, destination(t))
	require.NoError(t, err)
	assert.True(t, started)

	ticker.Fire()
	assert.Len(t, publisher.Events(), tracking.TotalSteps+2)
}

func TestRegistry_RejectsInvalidDestination(t *testing.T) {
	registry, ticker, publisher := newRegistry(t)

	started, err := registry.Start(kernel.NewUUID(), kernel.GeoPoint{})

	require.Error(t, err)
	assert.False(t, started)
	assert.Zero(t, ticker.Registered())
	assert.Zero(t, registry.Count())
	assert.Empty(t, publisher.Events())
}

func TestRegistry_TickerFailure(t *testing.T) {
	registry, ticker, _ := newRegistry(t)
	ticker.err = errors.New("scheduler stopped")

	started, err := registry.Start(kernel.NewUUID(), destination(t))

	require.ErrorContains(t, err, "scheduler stopped")
	assert.False(t, started)
	assert.Zero(t, registry.Count())
}

func TestRegistry_CancelAll(t *testing.T) {
	registry, ticker, _ := newRegistry(t)
	for range 3 {
		_, err := registry.Start(kernel.NewUUID(), destination(t))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, registry.CancelAll())
	assert.Zero(t, registry.Count())
	assert.Zero(t, ticker.Registered())
}

func TestRegistry_Sessions_AreIndependent(t *testing.T) {
	registry, ticker, publisher := newRegistry(t)
	a, b := kernel.NewUUID(), kernel.NewUUID()

	_, err := registry.Start(a, destination(t))
	require.NoError(t, err)
	ticker.Fire()
	_, err = registry.Start(b, destination(t))
	require.NoError(t, err)

	for range tracking.TotalSteps - 1 {
		ticker.Fire()
	}

	assert.False(t, registry.Active(a))
	assert.True(t, registry.Active(b))

	perChannel := map[string]int{}
	for _, p := range publisher.Events() {
		perChannel[p.channel]++
	}
	assert.Equal(t, tracking.TotalSteps+1, perChannel[a.String()])
	assert.Equal(t, tracking.TotalSteps-1, perChannel[b.String()])
}

func TestNewRegistry_Validation(t *testing.T) {
	picker := fixedOrigin(t, 1, 1)

	_, err := courier.NewRegistry(nil, &recordingPublisher{}, picker, logging.Discard())
	require.Error(t, err)

	_, err = courier.NewRegistry(newManualTicker(), nil, picker, logging.Discard())
	require.Error(t, err)

	_, err = courier.NewRegistry(newManualTicker(), &recordingPublisher{}, picker, logging.Discard(),
		courier.WithInterval(0))
	require.Error(t, err)
}

type deadlinePublisher struct {
	mu        sync.Mutex
	remaining []time.Duration
}

func (p *deadlinePublisher) Publish(ctx context.Context, _ string, _ ports.Event) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return errors.New("publish without deadline")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remaining = append(p.remaining, time.Until(deadline))
	return nil
}

func TestRegistry_PublishTimeoutFitsInterval(t *testing.T) {
	testCases := []struct {
		name     string
		interval time.Duration
		limit    time.Duration
	}{
		{name: "default interval", interval: time.Second, limit: 500 * time.Millisecond},
		{name: "slow interval is capped", interval: time.Minute, limit: 5 * time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ticker := newManualTicker()
			publisher := &deadlinePublisher{}
			registry, err := courier.NewRegistry(ticker, publisher, fixedOrigin(t, 12.30, 77.30), logging.Discard(),
				courier.WithInterval(tc.interval))
			require.NoError(t, err)

			_, err = registry.Start(kernel.NewUUID(), destination(t))
			require.NoError(t, err)
			ticker.Fire()

			publisher.mu.Lock()
			defer publisher.mu.Unlock()
			require.Len(t, publisher.remaining, 1)
			assert.Positive(t, publisher.remaining[0])
			assert.LessOrEqual(t, publisher.remaining[0], tc.limit)
		})
	}
}

package http_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/logging"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlaceOrderHandler struct{ mock.Mock }

func (m *MockPlaceOrderHandler) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUpdateOrderStatusHandler struct{ mock.Mock }

func (m *MockUpdateOrderStatusHandler) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStartTrackingHandler struct{ mock.Mock }

func (m *MockStartTrackingHandler) Handle(ctx context.Context, cmd commands.StartTrackingCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

type MockCancelTrackingHandler struct{ mock.Mock }

func (m *MockCancelTrackingHandler) Handle(ctx context.Context, cmd commands.CancelTrackingCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockListBuyerOrdersHandler struct{ mock.Mock }

func (m *MockListBuyerOrdersHandler) Handle(ctx context.Context, query queries.ListBuyerOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.OrderView)
	return views, args.Error(1)
}

type MockListSellerOrdersHandler struct{ mock.Mock }

func (m *MockListSellerOrdersHandler) Handle(ctx context.Context, query queries.ListSellerOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.OrderView)
	return views, args.Error(1)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

// closedSubscriber replays a fixed set of events and then ends the subscription.
type closedSubscriber struct {
	events   []ports.Event
	channels []string
}

func (s *closedSubscriber) Subscribe(_ context.Context, channel string) (<-chan ports.Event, error) {
	s.channels = append(s.channels, channel)
	ch := make(chan ports.Event, len(s.events))
	for _, e := range s.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

type fixture struct {
	echo             *echo.Echo
	placeOrder       *MockPlaceOrderHandler
	updateStatus     *MockUpdateOrderStatusHandler
	startTracking    *MockStartTrackingHandler
	cancelTracking   *MockCancelTrackingHandler
	listBuyerOrders  *MockListBuyerOrdersHandler
	listSellerOrders *MockListSellerOrdersHandler
	getOrder         *MockGetOrderHandler
	subscriber       *closedSubscriber
}

func newFixture() *fixture {
	f := &fixture{
		echo:             echo.New(),
		placeOrder:       new(MockPlaceOrderHandler),
		updateStatus:     new(MockUpdateOrderStatusHandler),
		startTracking:    new(MockStartTrackingHandler),
		cancelTracking:   new(MockCancelTrackingHandler),
		listBuyerOrders:  new(MockListBuyerOrdersHandler),
		listSellerOrders: new(MockListSellerOrdersHandler),
		getOrder:         new(MockGetOrderHandler),
		subscriber:       &closedSubscriber{},
	}

	server := httpadapter.NewServer(httpadapter.Handlers{
		PlaceOrder:        f.placeOrder,
		UpdateOrderStatus: f.updateStatus,
		StartTracking:     f.startTracking,
		CancelTracking:    f.cancelTracking,
		ListBuyerOrders:   f.listBuyerOrders,
		ListSellerOrders:  f.listSellerOrders,
		GetOrder:          f.getOrder,
	}, f.subscriber, logging.Discard(),
		httpadapter.WithGatherer(prometheus.NewRegistry()),
		httpadapter.WithHeartbeat(time.Hour),
	)
	server.Register(f.echo)
	return f
}

func (f *fixture) do(method, path, body string, userID kernel.UUID, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != (kernel.UUID{}) {
		req.Header.Set(httpadapter.HeaderUserID, userID.String())
	}
	if role != "" {
		req.Header.Set(httpadapter.HeaderUserRole, role)
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func testOrder(t *testing.T, buyerID, sellerID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), 2, decimal.NewFromInt(15))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), buyerID, sellerID, []order.LineItem{item}, time.Now())
	require.NoError(t, err)
	return o
}

package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockProductCatalog struct{ mock.Mock }

func (m *MockProductCatalog) Get(ctx context.Context, id kernel.UUID) (product.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(product.Product), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, channel string, event ports.Event) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

type MockTracker struct{ mock.Mock }

func (m *MockTracker) Start(orderID kernel.UUID, destination kernel.GeoPoint) (bool, error) {
	args := m.Called(orderID, destination)
	return args.Bool(0), args.Error(1)
}

func (m *MockTracker) Cancel(orderID kernel.UUID) bool {
	args := m.Called(orderID)
	return args.Bool(0)
}

func eventNamed(name string) any {
	return mock.MatchedBy(func(e ports.Event) bool { return e.Name == name })
}

func newOrder(t *testing.T, buyerID, sellerID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), buyerID, sellerID, []order.LineItem{item}, time.Now())
	require.NoError(t, err)
	return o
}

func confirmedOrder(t *testing.T, buyerID, sellerID kernel.UUID) *order.Order {
	t.Helper()
	o := newOrder(t, buyerID, sellerID)
	require.NoError(t, o.ChangeStatus(sellerID, order.Confirmed, time.Now()))
	return o
}

package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items").Error)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.assertCount("orders", 1)
	suite.assertCount("order_items", 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NotConstructedOrder_Fails() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertCount("orders", 0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()
	original := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.BuyerID(), retrieved.BuyerID())
	suite.Equal(original.SellerID(), retrieved.SellerID())
	suite.Equal(order.Pending, retrieved.Status())
	suite.True(original.TotalAmount().Equal(retrieved.TotalAmount()),
		"total %s != %s", original.TotalAmount(), retrieved.TotalAmount())
	suite.WithinDuration(original.CreatedAt(), retrieved.CreatedAt(), time.Millisecond)

	suite.Require().Len(retrieved.Items(), len(original.Items()))
	for i, item := range original.Items() {
		got := retrieved.Items()[i]
		suite.Equal(item.ProductID(), got.ProductID())
		suite.Equal(item.Quantity(), got.Quantity())
		suite.True(item.UnitPrice().Equal(got.UnitPrice()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusTransitions() {
	testCases := []struct {
		name   string
		target []order.Status
		want   order.Status
	}{
		{name: "pending to confirmed", target: []order.Status{order.Confirmed}, want: order.Confirmed},
		{name: "pending to rejected", target: []order.Status{order.Rejected}, want: order.Rejected},
		{name: "confirmed to delivered", target: []order.Status{order.Confirmed, order.Delivered}, want: order.Delivered},
	}

	ctx := context.Background()
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			o := suite.createTestOrder()
			suite.Require().NoError(suite.repository.Add(ctx, o))

			changedAt := o.CreatedAt().Add(time.Hour)
			for _, status := range tc.target {
				suite.Require().NoError(o.ChangeStatus(o.SellerID(), status, changedAt))
				suite.Require().NoError(suite.repository.Update(ctx, o))
			}

			retrieved, err := suite.repository.Get(ctx, o.ID())
			suite.Require().NoError(err)
			suite.Equal(tc.want, retrieved.Status())
			suite.WithinDuration(changedAt, retrieved.UpdatedAt(), time.Millisecond)
			suite.Len(retrieved.Items(), 2, "items are never rewritten")
		})
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFound() {
	err := suite.repository.Update(context.Background(), suite.createTestOrder())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_BlocksSecondLockerUntilCommit() {
	ctx := context.Background()
	o := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first := suite.db.Begin()
	suite.Require().NoError(first.Error)
	defer first.Rollback()

	locked, err := orderrepo.NewGormOrderRepository(first).GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(locked.Items(), 2)

	second := suite.db.Begin()
	suite.Require().NoError(second.Error)
	defer second.Rollback()

	acquired := make(chan error, 1)
	go func() {
		_, err := orderrepo.NewGormOrderRepository(second).GetForUpdate(ctx, o.ID())
		acquired <- err
	}()

	select {
	case err := <-acquired:
		suite.FailNow("second lock acquired while the first is held", "err: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(first.Commit().Error)

	select {
	case err := <-acquired:
		suite.Require().NoError(err)
	case <-time.After(5 * time.Second):
		suite.FailNow("second lock not acquired after commit")
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_NonExistentOrder_ReturnsNotFoundError() {
	_, err := suite.repository.GetForUpdate(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	first, err := order.NewLineItem(kernel.NewUUID(), 3, decimal.RequireFromString("19.99"))
	suite.Require().NoError(err)
	second, err := order.NewLineItem(kernel.NewUUID(), 1, decimal.RequireFromString("0.01"))
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.LineItem{first, second}, time.Now())
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertCount(table string, expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table(table).Count(&count).Error)
	suite.Equal(expected, count, table)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

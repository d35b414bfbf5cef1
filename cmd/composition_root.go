package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/productrepo"
	"marketplace/internal/adapters/out/pubsub"
	"marketplace/internal/core/application/courier"
	"marketplace/internal/core/application/events"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/tracking"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// broker carries events between publishers and SSE subscribers. Close ends all
// open subscriptions.
type broker interface {
	ports.EventPublisher
	ports.EventSubscriber
	Close() error
}

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	registry *prometheus.Registry
	recorder *metrics.Recorder

	broker    broker
	publisher ports.EventPublisher
	ticker    *jobs.CronTicker
	tracker   *courier.Registry

	closers []func() error
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		registry:   prometheus.NewRegistry(),
	}

	c.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(c.registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	c.recorder = recorder

	c.broker = c.createBroker()
	c.closers = append(c.closers, c.broker.Close)
	c.publisher = c.createPublisher()

	origins, err := tracking.NewRandomOriginPicker(tracking.ReferenceOrigins())
	if err != nil {
		return nil, fmt.Errorf("create origin picker: %w", err)
	}

	if configs.TrackingTickInterval < time.Second {
		return nil, fmt.Errorf("tracking tick interval %s: %w", configs.TrackingTickInterval, jobs.ErrIntervalTooShort)
	}
	c.ticker = jobs.NewCronTicker(logger)
	c.tracker, err = courier.NewRegistry(c.ticker, c.broker, origins, logger,
		courier.WithInterval(configs.TrackingTickInterval),
		courier.WithMetrics(c.recorder),
	)
	if err != nil {
		return nil, fmt.Errorf("create tracking registry: %w", err)
	}

	return c, nil
}

func (c *CompositionRoot) createBroker() broker {
	if c.configs.RedisAddr == "" {
		return pubsub.NewHub(pubsub.DefaultBuffer, c.logger)
	}

	client := redis.NewClient(&redis.Options{Addr: c.configs.RedisAddr})
	c.closers = append(c.closers, client.Close)
	return pubsub.NewRedisBroker(client, c.configs.RedisChannelPrefix, c.logger)
}

func (c *CompositionRoot) createPublisher() ports.EventPublisher {
	if c.configs.KafkaHost == "" {
		return c.broker
	}

	stream := pubsub.NewKafkaPublisher(
		pubsub.NewKafkaWriter(c.configs.KafkaHost, c.configs.KafkaOrderEventsTopic),
		events.NewOrder,
		events.OrderStatusUpdated,
	)
	c.closers = append(c.closers, stream.Close)
	return pubsub.Fanout{c.broker, stream}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(
		c.orderUoWFactory(),
		productrepo.NewGormProductRepository(c.gormDB),
		c.publisher,
		c.logger,
		c.recorder,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.publisher, c.logger, c.recorder)
}

func (c *CompositionRoot) CreateStartTrackingCommandHandler() commands.StartTrackingCommandHandler {
	return commands.NewStartTrackingCommandHandler(c.orderUoWFactory(), c.tracker)
}

func (c *CompositionRoot) CreateCancelTrackingCommandHandler() commands.CancelTrackingCommandHandler {
	return commands.NewCancelTrackingCommandHandler(c.orderUoWFactory(), c.tracker)
}

func (c *CompositionRoot) CreateListBuyerOrdersQueryHandler() queries.ListBuyerOrdersQueryHandler {
	return queries.NewListBuyerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListSellerOrdersQueryHandler() queries.ListSellerOrdersQueryHandler {
	return queries.NewListSellerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		PlaceOrder:        c.CreatePlaceOrderCommandHandler(),
		UpdateOrderStatus: c.CreateUpdateOrderStatusCommandHandler(),
		StartTracking:     c.CreateStartTrackingCommandHandler(),
		CancelTracking:    c.CreateCancelTrackingCommandHandler(),
		ListBuyerOrders:   c.CreateListBuyerOrdersQueryHandler(),
		ListSellerOrders:  c.CreateListSellerOrdersQueryHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),
	}, c.broker, c.logger, httpadapter.WithGatherer(c.registry))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.ticker, c.tracker, c.logger)
}

// CloseStreams ends every open event subscription so that SSE handlers return.
// It is safe to call before Close.
func (c *CompositionRoot) CloseStreams() error {
	return c.broker.Close()
}

// Close releases the broker and stream connections.
func (c *CompositionRoot) Close() error {
	var joined error
	for i := len(c.closers) - 1; i >= 0; i-- {
		joined = errors.Join(joined, c.closers[i]())
	}
	return joined
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

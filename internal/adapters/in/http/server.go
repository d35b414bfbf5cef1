// Package http exposes the order lifecycle and courier tracking over a JSON API and
// streams pub/sub channels to browsers as server-sent events.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultHeartbeat is the interval of SSE keep-alive comments.
const DefaultHeartbeat = 15 * time.Second

type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	StartTrackingHandler interface {
		Handle(ctx context.Context, cmd commands.StartTrackingCommand) (bool, error)
	}
	CancelTrackingHandler interface {
		Handle(ctx context.Context, cmd commands.CancelTrackingCommand) error
	}
	ListBuyerOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListBuyerOrdersQuery) ([]queries.OrderView, error)
	}
	ListSellerOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListSellerOrdersQuery) ([]queries.OrderView, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	PlaceOrder        PlaceOrderHandler
	UpdateOrderStatus UpdateOrderStatusHandler
	StartTracking     StartTrackingHandler
	CancelTracking    CancelTrackingHandler
	ListBuyerOrders   ListBuyerOrdersHandler
	ListSellerOrders  ListSellerOrdersHandler
	GetOrder          GetOrderHandler
}

// Server handles HTTP requests and coordinates between them and the application use cases.
type Server struct {
	handlers   Handlers
	subscriber ports.EventSubscriber
	gatherer   prometheus.Gatherer
	heartbeat  time.Duration
	logger     *slog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.heartbeat = d
		}
	}
}

// WithGatherer exposes the metrics of g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, subscriber ports.EventSubscriber, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		handlers:   handlers,
		subscriber: subscriber,
		gatherer:   prometheus.DefaultGatherer,
		heartbeat:  DefaultHeartbeat,
		logger:     logger.With("component", "http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1", Authenticate)

	api.POST("/orders", s.PlaceOrder, RequireRole(RoleBuyer))
	api.GET("/orders/my", s.ListMyOrders, RequireRole(RoleBuyer))
	api.GET("/orders/seller", s.ListSellerOrders, RequireRole(RoleSeller))
	api.PUT("/orders/:id/status", s.UpdateOrderStatus, RequireRole(RoleSeller))
	api.POST("/orders/:id/tracking", s.StartTracking, RequireRole(RoleBuyer))
	api.DELETE("/orders/:id/tracking", s.CancelTracking, RequireRole(RoleBuyer))
	api.GET("/orders/:id/events", s.StreamOrderEvents)

	api.GET("/events/me", s.StreamMyEvents)
	api.GET("/events/admins", s.StreamAdminEvents, RequireRole(RoleSeller, RoleAdmin))
}

// CloseStreamsOnShutdown runs closeStreams as soon as e begins a graceful shutdown.
// Event streams return only when their subscription ends, so Shutdown would
// otherwise wait for its deadline while any SSE client is connected.
func CloseStreamsOnShutdown(e *echo.Echo, closeStreams func() error, logger *slog.Logger) {
	e.Server.RegisterOnShutdown(func() {
		if err := closeStreams(); err != nil {
			logger.Error("close event streams", "error", err)
		}
	})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

// PlaceOrderCommandHandler creates Pending orders and announces them to admins.
//
// Every product is resolved through the catalog before the transaction starts, so an
// unknown product aborts the request with nothing persisted. After commit a new-order
// event carrying the full order is published to ports.AdminsChannel. A failed publish
// is logged and does not fail the request: the order already exists.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, catalog, publisher, logger, recorder)
//	placed, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // one of the products does not exist
//	}
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ProductCatalog
	publisher  ports.EventPublisher
	composer   services.OrderComposer
	metrics    *metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
// recorder may be nil.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.ProductCatalog,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		publisher:  publisher,
		composer:   services.NewOrderComposer(),
		metrics:    recorder,
		logger:     logger.With("component", "place_order_handler"),
		now:        time.Now,
	}
}

// Handle resolves the products, persists the order and publishes new-order.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	requested := cmd.Items()
	resolved := make([]product.Product, 0, len(requested))
	for _, item := range requested {
		p, err := h.catalog.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, p)
	}

	placed, err := h.composer.Compose(kernel.NewUUID(), cmd.BuyerID(), requested, resolved, h.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.OrderPlaced()
	h.announce(ctx, placed)

	return placed, nil
}

func (h PlaceOrderCommandHandler) announce(ctx context.Context, placed *order.Order) {
	event, err := events.OrderPlaced(placed)
	if err == nil {
		err = h.publisher.Publish(ctx, ports.AdminsChannel, event)
	}
	if err != nil {
		h.metrics.PublishFailed(events.NewOrder)
		h.logger.ErrorContext(ctx, "publish new order",
			"order_id", placed.ID().String(),
			"error", err,
		)
	}
}

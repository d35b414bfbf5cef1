package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

// UpdateOrderStatusCommandHandler applies a seller's status change and notifies the
// buyer on their private channel with an order-status-updated event.
//
// Errors:
//   - errs.ObjectNotFoundError when the order does not exist
//   - errs.AccessDeniedError when the order belongs to another seller
//   - errs.ValueIsInvalidError wrapping order.ErrStatusIsFinal for terminal orders
//
// Nothing is persisted or published when any check fails.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	metrics    *metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewUpdateOrderStatusCommandHandler creates a handler for status changes.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		metrics:    recorder,
		logger:     logger.With("component", "update_order_status_handler"),
		now:        time.Now,
	}
}

// Handle loads the order, changes its status and persists it in one transaction.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	current, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = current.ChangeStatus(cmd.SellerID(), cmd.Status(), h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.StatusChanged(current.Status().String())
	h.notifyBuyer(ctx, current)

	return current, nil
}

func (h UpdateOrderStatusCommandHandler) notifyBuyer(ctx context.Context, updated *order.Order) {
	event, err := events.StatusUpdated(updated)
	if err == nil {
		err = h.publisher.Publish(ctx, events.BuyerChannel(updated.BuyerID()), event)
	}
	if err != nil {
		h.metrics.PublishFailed(events.OrderStatusUpdated)
		h.logger.ErrorContext(ctx, "publish status update",
			"order_id", updated.ID().String(),
			"status", updated.Status().String(),
			"error", err,
		)
	}
}

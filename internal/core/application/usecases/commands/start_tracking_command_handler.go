package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// ErrOrderIsNotInFlight is the cause reported when tracking is requested for an order
// that is not Confirmed.
var ErrOrderIsNotInFlight = errors.New("order is not in flight")

// StartTrackingCommandHandler starts the simulated courier of a confirmed order.
//
// The order is only read; the tracker holds no database state. Handle reports
// started=false when a session for the order already runs.
type StartTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	tracker    Tracker
}

// NewStartTrackingCommandHandler creates a handler for tracking requests.
func NewStartTrackingCommandHandler(uowFactory OrderUoWFactory, tracker Tracker) StartTrackingCommandHandler {
	return StartTrackingCommandHandler{
		uowFactory: uowFactory,
		tracker:    tracker,
	}
}

// Handle checks the order and starts tracking.
//
// Errors:
//   - errs.ObjectNotFoundError when the order does not exist
//   - errs.AccessDeniedError when the caller did not place the order
//   - errs.ValueIsInvalidError wrapping ErrOrderIsNotInFlight unless the order is Confirmed
func (h StartTrackingCommandHandler) Handle(ctx context.Context, cmd StartTrackingCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	tracked, err := loadBuyerOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.BuyerID())
	if err != nil {
		return false, err
	}

	if !tracked.IsInFlight() {
		return false, errs.NewValueIsInvalidErrorWithCause("order status", ErrOrderIsNotInFlight)
	}

	return h.tracker.Start(cmd.OrderID(), cmd.Destination())
}

// loadBuyerOrder reads an order and checks that buyerID placed it.
func loadBuyerOrder(ctx context.Context, uowFactory OrderUoWFactory, orderID, buyerID kernel.UUID) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	found, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !found.IsPlacedBy(buyerID) {
		return nil, errs.NewAccessDeniedErrorWithCause(
			"buyer "+buyerID.String(),
			"order "+orderID.String(),
			errors.New("order was placed by another buyer"),
		)
	}

	return found, nil
}

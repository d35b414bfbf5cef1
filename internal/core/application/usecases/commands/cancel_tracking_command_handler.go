package commands

import (
	"context"
	"errors"

	"marketplace/internal/pkg/errs"
)

// ErrNoActiveTracking is the cause reported when there is no session to cancel.
var ErrNoActiveTracking = errors.New("no active tracking session")

// CancelTrackingCommandHandler stops the courier session of an order. Subscribers of
// the order channel receive nothing further once Handle returns.
type CancelTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	tracker    Tracker
}

// NewCancelTrackingCommandHandler creates a handler for tracking cancellation.
func NewCancelTrackingCommandHandler(uowFactory OrderUoWFactory, tracker Tracker) CancelTrackingCommandHandler {
	return CancelTrackingCommandHandler{
		uowFactory: uowFactory,
		tracker:    tracker,
	}
}

// Handle checks that the caller placed the order and cancels its session.
// It returns errs.ObjectNotFoundError wrapping ErrNoActiveTracking when nothing runs.
func (h CancelTrackingCommandHandler) Handle(ctx context.Context, cmd CancelTrackingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := loadBuyerOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.BuyerID()); err != nil {
		return err
	}

	if !h.tracker.Cancel(cmd.OrderID()) {
		return errs.NewObjectNotFoundErrorWithCause("tracking session", cmd.OrderID().String(), ErrNoActiveTracking)
	}

	return nil
}

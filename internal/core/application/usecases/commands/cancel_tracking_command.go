package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCancelTrackingCommandIsNotConstructed = errors.New(
	"CancelTrackingCommand must be created via NewCancelTrackingCommand constructor",
)

// CancelTrackingCommand is a buyer's request to stop following an order's courier.
type CancelTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	buyerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelTrackingCommand validates the identifiers.
func NewCancelTrackingCommand(orderID, buyerID kernel.UUID) (CancelTrackingCommand, error) {
	cmd := CancelTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyerID(buyerID),
	); err != nil {
		return CancelTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelTrackingCommand) Validate() error {
	return c.guard.Validate(ErrCancelTrackingCommandIsNotConstructed)
}

// OrderID returns the tracked order.
func (c CancelTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerID returns the buyer cancelling tracking.
func (c CancelTrackingCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

func (c *CancelTrackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	c.orderID = orderID
	return nil
}

func (c *CancelTrackingCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyer id", err)
	}
	c.buyerID = buyerID
	return nil
}

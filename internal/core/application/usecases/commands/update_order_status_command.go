package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand is a seller's request to move an order to a new status.
// The status arrives as its wire name and must be one of CONFIRMED, REJECTED or
// DELIVERED; anything else fails at construction.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	sellerID kernel.UUID
	status   order.Status

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand parses status and validates the identifiers.
func NewUpdateOrderStatusCommand(orderID, sellerID kernel.UUID, status string) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setSellerID(sellerID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to update.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SellerID returns the seller acting on the order.
func (c UpdateOrderStatusCommand) SellerID() kernel.UUID {
	return c.sellerID
}

// Status returns the requested status.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("seller id", err)
	}
	c.sellerID = sellerID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(s string) error {
	status, err := order.ParseStatus(s)
	if err != nil {
		return err
	}
	if err = status.ValidateTarget(); err != nil {
		return err
	}
	c.status = status
	return nil
}

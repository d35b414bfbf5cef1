package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrStartTrackingCommandIsNotConstructed = errors.New(
	"StartTrackingCommand must be created via NewStartTrackingCommand constructor",
)

// StartTrackingCommand is a buyer's request to follow the courier of an order to
// the given delivery point.
type StartTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	buyerID     kernel.UUID
	destination kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewStartTrackingCommand validates the identifiers and the destination coordinates.
// Coordinates outside [-90, 90] x [-180, 180] are rejected before any session exists.
func NewStartTrackingCommand(orderID, buyerID kernel.UUID, lat, lng float64) (StartTrackingCommand, error) {
	cmd := StartTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyerID(buyerID),
		cmd.setDestination(lat, lng),
	); err != nil {
		return StartTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartTrackingCommand) Validate() error {
	return c.guard.Validate(ErrStartTrackingCommandIsNotConstructed)
}

// OrderID returns the tracked order.
func (c StartTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerID returns the buyer requesting tracking.
func (c StartTrackingCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// Destination returns the delivery point.
func (c StartTrackingCommand) Destination() kernel.GeoPoint {
	return c.destination
}

func (c *StartTrackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	c.orderID = orderID
	return nil
}

func (c *StartTrackingCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyer id", err)
	}
	c.buyerID = buyerID
	return nil
}

func (c *StartTrackingCommand) setDestination(lat, lng float64) error {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return err
	}
	c.destination = point
	return nil
}

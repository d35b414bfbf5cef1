package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// PlaceOrderCommand represents a buyer's request to order one or more products.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(buyerID, []services.RequestedItem{
//	    {ProductID: productID, Quantity: 2},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	buyerID kernel.UUID
	items   []services.RequestedItem

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the buyer and every requested item.
// An empty item list, a quantity below 1 or an invalid product id is rejected.
func NewPlaceOrderCommand(buyerID kernel.UUID, items []services.RequestedItem) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setItems(items),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// BuyerID returns the buyer placing the order.
func (c PlaceOrderCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// Items returns a copy of the requested items.
func (c PlaceOrderCommand) Items() []services.RequestedItem {
	return append([]services.RequestedItem(nil), c.items...)
}

func (c *PlaceOrderCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyer id", err)
	}

	c.buyerID = buyerID
	return nil
}

func (c *PlaceOrderCommand) setItems(items []services.RequestedItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	var joined error
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			joined = errors.Join(joined, errs.NewValueIsRequiredErrorWithCause(
				fmt.Sprintf("items[%d].productId", i), err))
		}
		if item.Quantity < 1 {
			joined = errors.Join(joined, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("%d is not greater than 0", item.Quantity)))
		}
	}
	if joined != nil {
		return joined
	}

	c.items = append([]services.RequestedItem(nil), items...)
	return nil
}

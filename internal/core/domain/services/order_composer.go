package services

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/errs"
)

// ErrMixedSellers is the cause reported when the products of one order belong to
// different sellers.
var ErrMixedSellers = errors.New("all products of an order must belong to one seller")

// RequestedItem is a buyer's request for quantity units of a product.
type RequestedItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// OrderComposer is a domain service that turns a buyer's requested items and the
// catalog products they resolved to into a Pending order.
//
// Key responsibilities:
//   - Snapshotting each product's current price into its line item
//   - Attributing the order to the single seller of all products
//   - Delegating total computation and validation to order.NewOrder
//
// Business rules:
//   - At least one item is required
//   - Every requested item must be matched by the product it resolved to
//   - Products from different sellers are rejected; the order is never split
//
// Example usage:
//
//	composer := services.NewOrderComposer()
//	o, err := composer.Compose(kernel.NewUUID(), buyerID, requested, resolved, time.Now())
type OrderComposer struct{}

// NewOrderComposer creates a new OrderComposer instance.
func NewOrderComposer() OrderComposer {
	return OrderComposer{}
}

// Compose builds the order.
//
// Parameters:
//   - orderID: identifier of the new order
//   - buyerID: the buyer placing the order
//   - requested: the requested items, in order
//   - resolved: resolved[i] is the catalog product of requested[i]
//   - now: creation time
//
// Returns:
//   - *order.Order: a Pending order sold by the products' seller
//   - error: ValueIsRequiredError for no items, ValueIsInvalidError wrapping
//     ErrMixedSellers for a multi-seller request, or item validation errors
func (c OrderComposer) Compose(
	orderID, buyerID kernel.UUID,
	requested []RequestedItem,
	resolved []product.Product,
	now time.Time,
) (*order.Order, error) {
	if len(requested) == 0 {
		return nil, order.ErrItemsAreRequired
	}
	if len(requested) != len(resolved) {
		return nil, errs.NewValueIsInvalidErrorWithCause("items",
			fmt.Errorf("%d items requested but %d products resolved", len(requested), len(resolved)))
	}

	sellerID, err := c.attributeSeller(resolved)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(requested))
	for i, req := range requested {
		p := resolved[i]
		if !p.ID().IsEqual(req.ProductID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("item %d resolved to product %s instead of %s", i, p.ID(), req.ProductID))
		}

		item, itemErr := order.NewLineItem(req.ProductID, req.Quantity, p.Price())
		if itemErr != nil {
			return nil, fmt.Errorf("item %d: %w", i, itemErr)
		}
		items = append(items, item)
	}

	return order.NewOrder(orderID, buyerID, sellerID, items, now)
}

func (c OrderComposer) attributeSeller(resolved []product.Product) (kernel.UUID, error) {
	var sellerID kernel.UUID
	for i, p := range resolved {
		if err := p.Validate(); err != nil {
			return kernel.UUID{}, err
		}
		if i == 0 {
			sellerID = p.SellerID()
			continue
		}
		if !sellerID.IsEqual(p.SellerID()) {
			return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("items", ErrMixedSellers)
		}
	}
	return sellerID, nil
}

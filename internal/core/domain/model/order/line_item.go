package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product position of an order. The unit price is a snapshot taken
// from the catalog when the order was placed; later price changes never affect it.
type LineItem struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	quantity  int
	unitPrice decimal.Decimal

	guard guard.ConstructorGuard
}

// NewLineItem validates and builds a line item.
//
// Parameters:
//   - productID: catalog identifier of the product (must be valid)
//   - quantity: number of units (must be at least 1)
//   - unitPrice: price of one unit at order time (must not be negative)
func NewLineItem(productID kernel.UUID, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	item := LineItem{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the item was built by NewLineItem.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the catalog identifier of the product.
func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the number of units ordered.
func (i LineItem) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price snapshot of a single unit.
func (i LineItem) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Subtotal returns quantity × unit price.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product id", err)
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%s is negative", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}

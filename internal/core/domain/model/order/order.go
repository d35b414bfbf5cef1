package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrItemsAreRequired is returned for an order without line items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order represents a buyer's purchase from a single seller. It is the aggregate root
// of the order lifecycle.
//
// Order follows these invariants:
//   - id, buyer and seller are valid identifiers and never change
//   - there is at least one line item and every item is valid
//   - the total amount is computed once at creation and never recomputed
//   - status starts at Pending; Rejected and Delivered are terminal
//
// The Order struct uses private fields; state changes go through ChangeStatus only.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// buyerID references the user who placed the order
	buyerID kernel.UUID

	// sellerID references the user who sells every product of the order
	sellerID kernel.UUID

	// items are the ordered product positions with price snapshots
	items []LineItem

	// totalAmount is the sum of all item subtotals
	totalAmount decimal.Decimal

	// status represents the current state in the order lifecycle
	status Status

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a Pending order and computes its total amount.
//
// Parameters:
//   - id: unique identifier of the order
//   - buyerID: the user placing the order
//   - sellerID: the seller owning every product of the order
//   - items: non-empty list of line items
//   - now: creation time, stored as both created and updated timestamp
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: the joined validation errors otherwise
//
// Example:
//
//	item, _ := order.NewLineItem(productID, 2, decimal.NewFromInt(100))
//	o, err := order.NewOrder(kernel.NewUUID(), buyerID, sellerID, []order.LineItem{item}, time.Now())
//	// o.TotalAmount() == 200, o.Status() == order.Pending
func NewOrder(id, buyerID, sellerID kernel.UUID, items []LineItem, now time.Time) (*Order, error) {
	order := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setParties(buyerID, sellerID),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range order.items {
		total = total.Add(item.Subtotal())
	}
	order.totalAmount = total

	return order, nil
}

// RestoreOrder rebuilds an order from persisted state. The stored total amount is
// taken as is; it is not recomputed from the items.
func RestoreOrder(
	id, buyerID, sellerID kernel.UUID,
	items []LineItem,
	totalAmount decimal.Decimal,
	status Status,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	order := &Order{
		totalAmount:   totalAmount,
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setParties(buyerID, sellerID),
		order.setItems(items),
		order.setStatus(status),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BuyerID returns the identifier of the user who placed the order.
func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// SellerID returns the identifier of the seller of the order.
func (o *Order) SellerID() kernel.UUID {
	return o.sellerID
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	return slices.Clone(o.items)
}

// TotalAmount returns the total computed at creation.
func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsPlacedBy reports whether buyerID placed the order.
func (o *Order) IsPlacedBy(buyerID kernel.UUID) bool {
	return o.buyerID.IsEqual(buyerID)
}

// IsSoldBy reports whether sellerID owns the order.
func (o *Order) IsSoldBy(sellerID kernel.UUID) bool {
	return o.sellerID.IsEqual(sellerID)
}

// IsInFlight reports whether the order was confirmed and is waiting for delivery.
func (o *Order) IsInFlight() bool {
	return o.status == Confirmed
}

// ChangeStatus moves the order to target on behalf of sellerID.
//
// Checks, in order:
//   - target must be Confirmed, Rejected or Delivered (ValueIsInvalidError)
//   - sellerID must own the order (AccessDeniedError)
//   - the current status must not be terminal (ValueIsInvalidError wrapping ErrStatusIsFinal)
//
// Nothing is modified when any check fails.
func (o *Order) ChangeStatus(sellerID kernel.UUID, target Status, at time.Time) error {
	if err := target.ValidateTarget(); err != nil {
		return err
	}

	if !o.IsSoldBy(sellerID) {
		return errs.NewAccessDeniedErrorWithCause(
			"seller "+sellerID.String(),
			"order "+o.id.String(),
			errors.New("order belongs to another seller"),
		)
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = next
	o.updatedAt = at.UTC()
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(buyerID, sellerID kernel.UUID) error {
	var joined error
	if err := buyerID.Validate(); err != nil {
		joined = errors.Join(joined, errs.NewValueIsRequiredErrorWithCause("buyer id", err))
	}
	if err := sellerID.Validate(); err != nil {
		joined = errors.Join(joined, errs.NewValueIsRequiredErrorWithCause("seller id", err))
	}
	if joined != nil {
		return joined
	}

	o.buyerID = buyerID
	o.sellerID = sellerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}

	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

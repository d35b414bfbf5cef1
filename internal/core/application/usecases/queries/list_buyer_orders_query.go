package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListBuyerOrdersQueryIsNotConstructed = errors.New(
	"ListBuyerOrdersQuery must be created via NewListBuyerOrdersQuery constructor",
)

// ListBuyerOrdersQuery lists every order a buyer placed, newest first.
//
// Example:
//
//	query, err := NewListBuyerOrdersQuery(buyerID)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type ListBuyerOrdersQuery struct {
	buyerID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewListBuyerOrdersQuery creates the query for buyerID.
func NewListBuyerOrdersQuery(buyerID kernel.UUID) (ListBuyerOrdersQuery, error) {
	if err := buyerID.Validate(); err != nil {
		return ListBuyerOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("buyer id", err)
	}
	return ListBuyerOrdersQuery{buyerID: buyerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListBuyerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListBuyerOrdersQueryIsNotConstructed)
}

// BuyerID returns the buyer whose orders are listed.
func (q ListBuyerOrdersQuery) BuyerID() kernel.UUID {
	return q.buyerID
}

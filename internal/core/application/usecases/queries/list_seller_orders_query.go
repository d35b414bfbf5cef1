package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListSellerOrdersQueryIsNotConstructed = errors.New(
	"ListSellerOrdersQuery must be created via NewListSellerOrdersQuery constructor",
)

// ListSellerOrdersQuery lists every order containing a seller's products, newest first.
type ListSellerOrdersQuery struct {
	sellerID kernel.UUID
	guard    guard.ConstructorGuard
}

// NewListSellerOrdersQuery creates the query for sellerID.
func NewListSellerOrdersQuery(sellerID kernel.UUID) (ListSellerOrdersQuery, error) {
	if err := sellerID.Validate(); err != nil {
		return ListSellerOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("seller id", err)
	}
	return ListSellerOrdersQuery{sellerID: sellerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListSellerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListSellerOrdersQueryIsNotConstructed)
}

// SellerID returns the seller whose orders are listed.
func (q ListSellerOrdersQuery) SellerID() kernel.UUID {
	return q.sellerID
}

package queries

import (
	"context"

	"gorm.io/gorm"
)

// ListSellerOrdersQueryHandler reads a seller's orders with buyer details.
type ListSellerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListSellerOrdersQueryHandler creates a handler for seller order listings.
func NewListSellerOrdersQueryHandler(db *gorm.DB) ListSellerOrdersQueryHandler {
	return ListSellerOrdersQueryHandler{db: db}
}

// Handle returns the seller's orders, newest first.
func (h ListSellerOrdersQueryHandler) Handle(ctx context.Context, query ListSellerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return loadOrders(ctx, h.db, orderFilter{column: "seller_id", value: query.SellerID().Bytes()})
}

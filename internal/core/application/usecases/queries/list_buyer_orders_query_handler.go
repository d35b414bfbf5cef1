package queries

import (
	"context"

	"gorm.io/gorm"
)

// ListBuyerOrdersQueryHandler reads a buyer's orders with seller details.
type ListBuyerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListBuyerOrdersQueryHandler creates a handler for buyer order listings.
func NewListBuyerOrdersQueryHandler(db *gorm.DB) ListBuyerOrdersQueryHandler {
	return ListBuyerOrdersQueryHandler{db: db}
}

// Handle returns the buyer's orders, newest first. An empty slice is returned for a
// buyer without orders.
func (h ListBuyerOrdersQueryHandler) Handle(ctx context.Context, query ListBuyerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return loadOrders(ctx, h.db, orderFilter{column: "buyer_id", value: query.BuyerID().Bytes()})
}

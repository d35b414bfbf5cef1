// Package queries contains read-only operations over the order store.
// Queries bypass the domain model and read straight from the database with raw SQL,
// joining in product names and user details owned by other services.
package queries

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Party identifies a buyer or seller. Name and Email are empty when the user is
// unknown to the identity service.
type Party struct {
	ID    kernel.UUID
	Name  string
	Email string
}

// OrderItemView is one line item with the product's current catalog name.
type OrderItemView struct {
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// OrderView is the read model of an order.
type OrderView struct {
	ID          kernel.UUID
	Buyer       Party
	Seller      Party
	Status      string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []OrderItemView
}

type orderFilter struct {
	column string
	value  uuid.UUID
}

const selectOrders = `
	SELECT
		o.id,
		o.buyer_id,
		COALESCE(b.name, ''),
		COALESCE(b.email, ''),
		o.seller_id,
		COALESCE(s.name, ''),
		COALESCE(s.email, ''),
		o.status,
		o.total_amount,
		o.created_at,
		o.updated_at
	FROM orders o
	LEFT JOIN users b ON b.id = o.buyer_id
	LEFT JOIN users s ON s.id = o.seller_id
`

const selectItems = `
	SELECT
		i.order_id,
		i.product_id,
		COALESCE(p.name, ''),
		i.quantity,
		i.unit_price
	FROM order_items i
	LEFT JOIN products p ON p.id = i.product_id
	WHERE i.order_id IN ?
	ORDER BY i.order_id, i.position
`

// loadOrders reads the orders matching filter, newest first, with their items.
// filter.column is always a constant of this package.
func loadOrders(ctx context.Context, db *gorm.DB, filter orderFilter) ([]OrderView, error) {
	rows, err := db.WithContext(ctx).Raw(
		selectOrders+fmt.Sprintf("WHERE o.%s = ?\nORDER BY o.created_at DESC, o.id", filter.column),
		filter.value,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var (
			view                  OrderView
			id, buyerID, sellerID uuid.UUID
			status                int
		)

		err = rows.Scan(
			&id,
			&buyerID,
			&view.Buyer.Name,
			&view.Buyer.Email,
			&sellerID,
			&view.Seller.Name,
			&view.Seller.Email,
			&status,
			&view.TotalAmount,
			&view.CreatedAt,
			&view.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if view.Buyer.ID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
			return nil, err
		}
		if view.Seller.ID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
			return nil, err
		}
		view.Status = order.Status(status).String()
		view.Items = make([]OrderItemView, 0)

		views = append(views, view)
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return views, nil
	}

	items, err := loadItems(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Items = append(views[i].Items, items[views[i].ID]...)
	}

	return views, nil
}

func loadItems(ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID) (map[kernel.UUID][]OrderItemView, error) {
	rows, err := db.WithContext(ctx).Raw(selectItems, orderIDs).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[kernel.UUID][]OrderItemView)
	for rows.Next() {
		var (
			item               OrderItemView
			orderID, productID uuid.UUID
		)

		if err = rows.Scan(&orderID, &productID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}

		key, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		if item.ProductID, idErr = kernel.UUIDFromBytes(productID[:]); idErr != nil {
			return nil, idErr
		}

		items[key] = append(items[key], item)
	}

	return items, rows.Err()
}

// Package ports defines the contracts between the order lifecycle core and the
// infrastructure around it: persistence, the product catalog and pub/sub channels.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate together with its line items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a status change of an existing order.
	// Line items and total amount are immutable and never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get that also locks the order until the enclosing unit of
	// work commits or rolls back, so concurrent status changes of one order are
	// applied one after another.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

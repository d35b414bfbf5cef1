package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"
)

// ProductCatalog resolves product identifiers to their current price and seller.
// The catalog is owned elsewhere; the order core only reads it.
type ProductCatalog interface {
	// Get returns the product snapshot, or errs.ObjectNotFoundError when the id
	// does not resolve.
	Get(ctx context.Context, id kernel.UUID) (product.Product, error)
}

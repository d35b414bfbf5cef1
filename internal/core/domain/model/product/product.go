// Package product holds the read-only view of a catalog product that the order
// lifecycle needs: who sells it and what it costs right now.
package product

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrProductIsNotConstructed is returned when a Product was not created via NewProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a snapshot of a catalog entry resolved at order time.
type Product struct { //nolint:recvcheck //using for validation
	id       kernel.UUID
	sellerID kernel.UUID
	name     string
	price    decimal.Decimal

	guard guard.ConstructorGuard
}

// NewProduct validates and builds a product snapshot. The price must not be negative.
func NewProduct(id, sellerID kernel.UUID, name string, price decimal.Decimal) (Product, error) {
	p := Product{name: name, guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setID(id), p.setSellerID(sellerID), p.setPrice(price)); err != nil {
		return Product{}, err
	}

	return p, nil
}

// Validate ensures the product was built by NewProduct.
func (p Product) Validate() error {
	return p.guard.Validate(ErrProductIsNotConstructed)
}

// ID returns the catalog identifier.
func (p Product) ID() kernel.UUID { return p.id }

// SellerID returns the owner of the product.
func (p Product) SellerID() kernel.UUID { return p.sellerID }

// Name returns the display name.
func (p Product) Name() string { return p.name }

// Price returns the current unit price.
func (p Product) Price() decimal.Decimal { return p.price }

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("seller id", err)
	}
	p.sellerID = sellerID
	return nil
}

func (p *Product) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	p.price = price
	return nil
}

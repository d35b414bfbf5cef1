// Package productrepo reads catalog products for the order lifecycle. The products
// table is owned by the catalog; this package never edits existing rows.
package productrepo

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the database structure of a catalog product.
type ProductDTO struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SellerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name     string          `gorm:"type:varchar(255);not null"`
	Price    decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p product.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID().Bytes(),
		SellerID: p.SellerID().Bytes(),
		Name:     p.Name(),
		Price:    p.Price(),
	}
}

func toDomain(dto ProductDTO) (product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return product.Product{}, err
	}

	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return product.Product{}, err
	}

	return product.NewProduct(id, sellerID, dto.Name, dto.Price)
}

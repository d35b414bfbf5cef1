// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items live in their own table and are loaded with the order.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null"`
	Status      int             `gorm:"type:smallint;not null;index"`
	CreatedAt   time.Time       `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime:false"`
	Items       []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line item row. Position keeps the order in which the buyer
// listed the products.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"type:int;not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName specifies the database table name for line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			Position:  i,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return OrderDTO{
		ID:          orderID,
		BuyerID:     aggregate.BuyerID().Bytes(),
		SellerID:    aggregate.SellerID().Bytes(),
		TotalAmount: aggregate.TotalAmount(),
		Status:      int(aggregate.Status()),
		CreatedAt:   aggregate.CreatedAt(),
		UpdatedAt:   aggregate.UpdatedAt(),
		Items:       items,
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
// Items must be sorted by Position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}

	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, idErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}

		item, itemErr := order.NewLineItem(productID, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		buyerID,
		sellerID,
		items,
		dto.TotalAmount,
		order.Status(dto.Status),
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

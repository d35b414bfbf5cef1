package postgres

import (
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/productrepo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO is the part of the identity service's users table that order listings
// read for counterparty details.
type UserDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"type:varchar(255);not null"`
	Email string    `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName specifies the database table name for users.
func (UserDTO) TableName() string {
	return "users"
}

// Models lists every table the service reads or writes.
func Models() []any {
	return []any{
		&UserDTO{},
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
	}
}

// AutoMigrate creates or updates the schema of Models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

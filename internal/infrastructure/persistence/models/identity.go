package models

import (
	"github.com/khata/backend/internal/domain/identity"
)

// OwnerModel is the read-only persistence model for shop owners. The
// ledger core never writes this table; it is owned by the identity
// collaborator.
type OwnerModel struct {
	BaseModel
	OwnerName string `gorm:"type:varchar(200);not null"`
	ShopName  string `gorm:"type:varchar(200);not null"`
	Email     string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the persistence model to a domain Owner
func (m *OwnerModel) ToDomain() *identity.Owner {
	return &identity.Owner{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerName:  m.OwnerName,
		ShopName:   m.ShopName,
		Email:      m.Email,
	}
}

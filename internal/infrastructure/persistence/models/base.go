package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OwnerAggregateModel provides common persistence fields for owner-scoped
// aggregate roots: identity, optimistic-lock version, and the owning shop.
type OwnerAggregateModel struct {
	BaseModel
	Version int       `gorm:"not null;default:1"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainOwnerAggregateRoot populates OwnerAggregateModel from domain OwnerAggregateRoot
func (m *OwnerAggregateModel) FromDomainOwnerAggregateRoot(a shared.OwnerAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
	m.OwnerID = a.OwnerID
}

// ToDomainOwnerAggregateRoot converts the model fields back to a domain
// OwnerAggregateRoot. The hydrated aggregate starts with its loaded
// version in sync with the row it came from.
func (m *OwnerAggregateModel) ToDomainOwnerAggregateRoot() shared.OwnerAggregateRoot {
	root := shared.OwnerAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		OwnerID: m.OwnerID,
	}
	root.MarkPersisted()
	return root
}

package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version       int           `gorm:"not null;default:1"`
	loadedVersion int           `gorm:"-"`
	domainEvents  []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// LoadedVersion returns the version this aggregate last held in storage.
// The optimistic-lock guard compares against this value, so any number
// of domain mutations between load and save contend on exactly one
// compare-and-swap.
func (a *BaseAggregateRoot) LoadedVersion() int {
	return a.loadedVersion
}

// MarkPersisted records that the current version is now the stored one.
// Repositories call this after hydrating an aggregate and after every
// successful version-guarded write.
func (a *BaseAggregateRoot) MarkPersisted() {
	a.loadedVersion = a.Version
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:    NewBaseEntity(),
		Version:       1,
		loadedVersion: 1,
		domainEvents:  make([]DomainEvent, 0),
	}
}

// OwnerAggregateRoot extends BaseAggregateRoot with shop-owner scoping.
// Every khata aggregate belongs to exactly one owner; owner isolation is
// enforced at this level.
type OwnerAggregateRoot struct {
	BaseAggregateRoot
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewOwnerAggregateRoot creates a new owner-scoped aggregate root
func NewOwnerAggregateRoot(ownerID uuid.UUID) OwnerAggregateRoot {
	return OwnerAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		OwnerID:           ownerID,
	}
}

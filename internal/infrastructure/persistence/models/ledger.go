package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/ledger"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerAccountModel is the persistence model for the CustomerAccount
// aggregate. The ledger lives in its own table (LedgerEntryModel) keyed
// by account and ordered by position; uniqueness of (owner_id, phone) is
// a partial index over is_deleted = false so deleted accounts never block
// recreation.
type CustomerAccountModel struct {
	OwnerAggregateModel
	Name       string           `gorm:"type:varchar(200);not null"`
	Phone      string           `gorm:"type:varchar(10);not null;index"`
	CurrentDue decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	IsDeleted  bool             `gorm:"not null;default:false;index"`
	DeletedAt  *time.Time       `gorm:"index"`
	Entries    []LedgerEntryModel `gorm:"-"`
}

// TableName returns the table name for GORM
func (CustomerAccountModel) TableName() string {
	return "customer_accounts"
}

// ToDomain converts the persistence model to a domain CustomerAccount.
// Entries must already be loaded in position order.
func (m *CustomerAccountModel) ToDomain() *ledger.CustomerAccount {
	entries := make([]ledger.LedgerEntry, len(m.Entries))
	for i := range m.Entries {
		entries[i] = *m.Entries[i].ToDomain()
	}
	return &ledger.CustomerAccount{
		OwnerAggregateRoot: m.ToDomainOwnerAggregateRoot(),
		Name:               m.Name,
		Phone:              ledger.PhoneKey(m.Phone),
		Ledger:             entries,
		CurrentDue:         m.CurrentDue,
		IsDeleted:          m.IsDeleted,
		DeletedAt:          m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain CustomerAccount
func (m *CustomerAccountModel) FromDomain(a *ledger.CustomerAccount) {
	m.FromDomainOwnerAggregateRoot(a.OwnerAggregateRoot)
	m.Name = a.Name
	m.Phone = a.Phone.String()
	m.CurrentDue = a.CurrentDue
	m.IsDeleted = a.IsDeleted
	m.DeletedAt = a.DeletedAt
	m.Entries = make([]LedgerEntryModel, len(a.Ledger))
	for i := range a.Ledger {
		m.Entries[i] = *LedgerEntryModelFromDomain(&a.Ledger[i])
	}
}

// CustomerAccountModelFromDomain creates a new persistence model from a
// domain CustomerAccount
func CustomerAccountModelFromDomain(a *ledger.CustomerAccount) *CustomerAccountModel {
	m := &CustomerAccountModel{}
	m.FromDomain(a)
	return m
}

// LedgerEntryModel is the persistence model for one immutable ledger
// entry. Rows are only ever inserted or, on a bulk rewrite, replaced
// wholesale inside the same transaction as their account row.
type LedgerEntryModel struct {
	BaseModel
	AccountID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_account_position,priority:1"`
	Position     int              `gorm:"not null;uniqueIndex:idx_ledger_account_position,priority:2"`
	Type         ledger.EntryType `gorm:"type:varchar(10);not null"`
	Amount       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Note         string           `gorm:"type:varchar(500)"`
	OccurredAt   time.Time        `gorm:"not null;index"`
	BalanceAfter decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *ledger.LedgerEntry {
	return &ledger.LedgerEntry{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		AccountID:    m.AccountID,
		Position:     m.Position,
		Type:         m.Type,
		Amount:       m.Amount,
		Note:         m.Note,
		OccurredAt:   m.OccurredAt,
		BalanceAfter: m.BalanceAfter,
	}
}

// LedgerEntryModelFromDomain creates a new persistence model from a
// domain LedgerEntry
func LedgerEntryModelFromDomain(e *ledger.LedgerEntry) *LedgerEntryModel {
	return &LedgerEntryModel{
		BaseModel: BaseModel{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		},
		AccountID:    e.AccountID,
		Position:     e.Position,
		Type:         e.Type,
		Amount:       e.Amount,
		Note:         e.Note,
		OccurredAt:   e.OccurredAt,
		BalanceAfter: e.BalanceAfter,
	}
}

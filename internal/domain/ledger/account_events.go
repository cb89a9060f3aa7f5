package ledger

import (
	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCustomerAccount = "CustomerAccount"

// Event type constants
const (
	EventTypeAccountCreated      = "CustomerAccountCreated"
	EventTypeTransactionAppended = "TransactionAppended"
	EventTypeLedgerRewritten     = "LedgerRewritten"
	EventTypeAccountRenamed      = "CustomerAccountRenamed"
	EventTypeAccountDeleted      = "CustomerAccountDeleted"
	EventTypeAccountRestored     = "CustomerAccountRestored"
)

// AccountCreatedEvent is published when a new customer account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	Phone     PhoneKey  `json:"phone"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(account *CustomerAccount) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeCustomerAccount, account.ID, account.OwnerID),
		AccountID:       account.ID,
		Name:            account.Name,
		Phone:           account.Phone,
	}
}

// TransactionAppendedEvent is published when a transaction is appended to a ledger
type TransactionAppendedEvent struct {
	shared.BaseDomainEvent
	AccountID    uuid.UUID       `json:"account_id"`
	EntryID      uuid.UUID       `json:"entry_id"`
	EntryType    EntryType       `json:"entry_type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NewTransactionAppendedEvent creates a new TransactionAppendedEvent
func NewTransactionAppendedEvent(account *CustomerAccount, entry *LedgerEntry) *TransactionAppendedEvent {
	return &TransactionAppendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionAppended, AggregateTypeCustomerAccount, account.ID, account.OwnerID),
		AccountID:       account.ID,
		EntryID:         entry.ID,
		EntryType:       entry.Type,
		Amount:          entry.Amount,
		BalanceAfter:    entry.BalanceAfter,
	}
}

// LedgerRewrittenEvent is published when an account's ledger is replaced wholesale
type LedgerRewrittenEvent struct {
	shared.BaseDomainEvent
	AccountID  uuid.UUID       `json:"account_id"`
	EntryCount int             `json:"entry_count"`
	CurrentDue decimal.Decimal `json:"current_due"`
}

// NewLedgerRewrittenEvent creates a new LedgerRewrittenEvent
func NewLedgerRewrittenEvent(account *CustomerAccount) *LedgerRewrittenEvent {
	return &LedgerRewrittenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerRewritten, AggregateTypeCustomerAccount, account.ID, account.OwnerID),
		AccountID:       account.ID,
		EntryCount:      len(account.Ledger),
		CurrentDue:      account.CurrentDue,
	}
}

// AccountRenamedEvent is published when an account's name or phone changes
type AccountRenamedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	Phone     PhoneKey  `json:"phone"`
}

// NewAccountRenamedEvent creates a new AccountRenamedEvent
func NewAccountRenamedEvent(account *CustomerAccount) *AccountRenamedEvent {
	return &AccountRenamedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountRenamed, AggregateTypeCustomerAccount, account.ID, account.OwnerID),
		AccountID:       account.ID,
		Name:            account.Name,
		Phone:           account.Phone,
	}
}

// AccountDeletedEvent is published when an account is soft-deleted
type AccountDeletedEvent struct {
	shared.BaseDomainEvent
	AccountID  uuid.UUID       `json:"account_id"`
	Phone      PhoneKey        `json:"phone"`
	CurrentDue decimal.Decimal `json:"current_due"`
}

// NewAccountDeletedEvent creates a new AccountDeletedEvent
func NewAccountDeletedEvent(account *CustomerAccount) *AccountDeletedEvent {
	return &AccountDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDeleted, AggregateTypeCustomerAccount, account.ID, account.OwnerID),
		AccountID:       account.ID,
		Phone:           account.Phone,
		CurrentDue:      account.CurrentDue,
	}
}

// AccountRestoredEvent is published when a soft-deleted account is restored
type AccountRestoredEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Phone     PhoneKey  `json:"phone"`
}

// NewAccountRestoredEvent creates a new AccountRestoredEvent
func NewAccountRestoredEvent(account *CustomerAccount) *AccountRestoredEvent {
	return &AccountRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountRestored, AggregateTypeCustomerAccount, account.ID, account.OwnerID),
		AccountID:       account.ID,
		Phone:           account.Phone,
	}
}

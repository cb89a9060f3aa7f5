package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ActiveConflict errors surface when a restore would collide with an
// active account for the same (owner, phone) key. The two ledgers are
// never merged silently.
var ErrActiveConflict = shared.NewDomainError("ACTIVE_CONFLICT", "An active account already exists for this owner and phone")

// Lifecycle state errors
var (
	ErrAlreadyDeleted = shared.NewDomainError("INVALID_STATE", "Account is already deleted")
	ErrNotDeleted     = shared.NewDomainError("INVALID_STATE", "Account is not deleted")
)

// CustomerAccount is the aggregate root for one customer's khata within
// one owner's shop. It owns the ordered ledger and enforces that
// CurrentDue always equals the BalanceAfter of the last entry (zero when
// the ledger is empty).
//
// Accounts are never hard-deleted: SoftDelete preserves the full ledger
// for audit and restore, and the (OwnerID, Phone) uniqueness constraint
// applies to active accounts only.
type CustomerAccount struct {
	shared.OwnerAggregateRoot
	Name       string
	Phone      PhoneKey
	Ledger     []LedgerEntry
	CurrentDue decimal.Decimal
	IsDeleted  bool
	DeletedAt  *time.Time
}

// NewCustomerAccount creates a new account with an empty ledger and zero
// due. The phone must already be a validated PhoneKey; uniqueness per
// (owner, phone) is the repository's responsibility.
func NewCustomerAccount(ownerID uuid.UUID, name string, phone PhoneKey) (*CustomerAccount, error) {
	if err := validateAccountName(name); err != nil {
		return nil, err
	}
	if len(phone) != 10 {
		return nil, ErrInvalidPhone
	}

	account := &CustomerAccount{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		Name:               name,
		Phone:              phone,
		Ledger:             []LedgerEntry{},
		CurrentDue:         decimal.Zero,
	}

	account.AddDomainEvent(NewAccountCreatedEvent(account))

	return account, nil
}

// AppendTransaction appends one entry to the end of the ledger using the
// replay engine with CurrentDue as the prior balance. The ledger grows
// monotonically; no entry is ever removed by this operation.
func (a *CustomerAccount) AppendTransaction(entryType EntryType, amount decimal.Decimal, note string, occurredAt time.Time) (*LedgerEntry, error) {
	entry, newBalance, err := NextEntry(a.ID, len(a.Ledger), EntryInput{
		Type:       entryType,
		Amount:     amount,
		Note:       note,
		OccurredAt: occurredAt,
	}, a.CurrentDue)
	if err != nil {
		return nil, err
	}

	a.Ledger = append(a.Ledger, entry)
	a.CurrentDue = newBalance
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewTransactionAppendedEvent(a, &entry))

	return &entry, nil
}

// RewriteLedger discards the existing ledger and replays the given inputs
// from balance zero, in the given order. All-or-nothing: one malformed
// input leaves the account unchanged.
func (a *CustomerAccount) RewriteLedger(inputs []EntryInput) error {
	entries, finalBalance, err := Replay(a.ID, inputs)
	if err != nil {
		return err
	}

	a.Ledger = entries
	a.CurrentDue = finalBalance
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewLedgerRewrittenEvent(a))

	return nil
}

// Rename changes the customer's display name. Identity-only: ledger and
// CurrentDue are untouched.
func (a *CustomerAccount) Rename(name string) error {
	if err := validateAccountName(name); err != nil {
		return err
	}

	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountRenamedEvent(a))

	return nil
}

// ChangePhone re-keys the account to a new validated PhoneKey. The
// repository must re-check (owner, phone) uniqueness before persisting.
func (a *CustomerAccount) ChangePhone(phone PhoneKey) error {
	if len(phone) != 10 {
		return ErrInvalidPhone
	}

	a.Phone = phone
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountRenamedEvent(a))

	return nil
}

// SoftDelete marks the account deleted and stamps DeletedAt. Ledger and
// CurrentDue survive verbatim so the history can be audited or restored.
func (a *CustomerAccount) SoftDelete() error {
	if a.IsDeleted {
		return ErrAlreadyDeleted
	}

	now := time.Now()
	a.IsDeleted = true
	a.DeletedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountDeletedEvent(a))

	return nil
}

// Restore clears the deletion marker. The caller must have verified that
// no active account holds the same (owner, phone) key; see
// ErrActiveConflict.
func (a *CustomerAccount) Restore() error {
	if !a.IsDeleted {
		return ErrNotDeleted
	}

	a.IsDeleted = false
	a.DeletedAt = nil
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountRestoredEvent(a))

	return nil
}

// LastEntry returns the most recent ledger entry, or nil for an empty
// ledger.
func (a *CustomerAccount) LastEntry() *LedgerEntry {
	if len(a.Ledger) == 0 {
		return nil
	}
	return &a.Ledger[len(a.Ledger)-1]
}

// HasDue returns true if the customer owes the shop money
func (a *CustomerAccount) HasDue() bool {
	return a.CurrentDue.GreaterThan(decimal.Zero)
}

// InAdvance returns true if the shop owes the customer (negative due)
func (a *CustomerAccount) InAdvance() bool {
	return a.CurrentDue.LessThan(decimal.Zero)
}

func validateAccountName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryType represents the direction of a ledger entry
type EntryType string

const (
	// EntryTypeCredit increases the customer's debt to the shop (udhaar)
	EntryTypeCredit EntryType = "credit"
	// EntryTypePayment decreases the customer's debt
	EntryTypePayment EntryType = "payment"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeCredit, EntryTypePayment:
		return true
	}
	return false
}

// ErrMalformedEntry is returned when a ledger entry input carries an
// invalid type.
var ErrMalformedEntry = shared.NewDomainError("MALFORMED_ENTRY", "Ledger entry type must be 'credit' or 'payment'")

// LedgerEntry is an immutable record of one signed transaction plus the
// running balance it produced. Entries are never edited in place; a bulk
// rewrite replaces the whole ledger and replays every entry.
type LedgerEntry struct {
	shared.BaseEntity
	AccountID    uuid.UUID
	Position     int // zero-based order within the account's ledger
	Type         EntryType
	Amount       decimal.Decimal // always signed: credit positive, payment negative
	Note         string
	OccurredAt   time.Time
	BalanceAfter decimal.Decimal
}

// SignedAmount normalizes a caller-supplied amount to the stored sign
// convention, regardless of the sign the caller used.
func SignedAmount(entryType EntryType, amount decimal.Decimal) decimal.Decimal {
	if entryType == EntryTypePayment {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// EntryInput is the caller-facing shape of a transaction before it is
// sealed into a LedgerEntry by the replay engine.
type EntryInput struct {
	Type       EntryType
	Amount     decimal.Decimal
	Note       string
	OccurredAt time.Time // zero value means "now"
}

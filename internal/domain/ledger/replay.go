package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// NextEntry seals one EntryInput into a LedgerEntry on top of the prior
// balance and returns the new balance. This is the single place where a
// running balance is computed: single appends and full rewrites both go
// through it, so the two paths can never drift.
//
// A zero amount is valid history and is recorded as-is. The only failure
// mode is an invalid entry type.
func NextEntry(accountID uuid.UUID, position int, in EntryInput, priorBalance decimal.Decimal) (LedgerEntry, decimal.Decimal, error) {
	if !in.Type.IsValid() {
		return LedgerEntry{}, priorBalance, ErrMalformedEntry
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	signed := SignedAmount(in.Type, in.Amount)
	newBalance := priorBalance.Add(signed)

	entry := LedgerEntry{
		BaseEntity:   shared.NewBaseEntity(),
		AccountID:    accountID,
		Position:     position,
		Type:         in.Type,
		Amount:       signed,
		Note:         in.Note,
		OccurredAt:   occurredAt,
		BalanceAfter: newBalance,
	}
	return entry, newBalance, nil
}

// Replay recomputes a full ledger from scratch. Starting from balance
// zero it applies every input in the given order; the caller's order is
// authoritative and is not re-sorted by timestamp. Identical ordered
// input always yields identical balances.
//
// Replay is all-or-nothing: one malformed input fails the whole call and
// nothing is returned.
func Replay(accountID uuid.UUID, inputs []EntryInput) ([]LedgerEntry, decimal.Decimal, error) {
	entries := make([]LedgerEntry, 0, len(inputs))
	balance := decimal.Zero

	for i, in := range inputs {
		entry, newBalance, err := NextEntry(accountID, i, in, balance)
		if err != nil {
			return nil, decimal.Zero, err
		}
		entries = append(entries, entry)
		balance = newBalance
	}
	return entries, balance, nil
}

package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the persistence boundary for customer
// accounts. Every mutation is atomic per account: the implementation
// must apply "read state, compute state, write state" as one unit,
// guarded by the aggregate version, so two concurrent mutations on the
// same account can never interleave into a CurrentDue that diverges from
// the signed sum of the ledger.
type AccountRepository interface {
	// FindByID finds an account by its ID, deleted or not
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerAccount, error)

	// FindByIDForOwner finds an account by ID within an owner's scope,
	// deleted or not. Used by the restore workflow.
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*CustomerAccount, error)

	// FindActive finds the active (non-deleted) account for (owner, phone)
	FindActive(ctx context.Context, ownerID uuid.UUID, phone PhoneKey) (*CustomerAccount, error)

	// FindAnyByPhone finds all active accounts holding this phone key
	// across every owner, most-recently-updated first. This is the
	// customer-facing cross-shop view.
	FindAnyByPhone(ctx context.Context, phone PhoneKey) ([]CustomerAccount, error)

	// ExistsActive reports whether an active account exists for (owner, phone)
	ExistsActive(ctx context.Context, ownerID uuid.UUID, phone PhoneKey) (bool, error)

	// ListActive lists an owner's active accounts, most-recently-created first
	ListActive(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]CustomerAccount, error)

	// CountActive counts an owner's active accounts matching the filter
	CountActive(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// ListDeleted lists an owner's soft-deleted accounts, used by the
	// restore workflow
	ListDeleted(ctx context.Context, ownerID uuid.UUID) ([]CustomerAccount, error)

	// Create persists a brand-new account. Fails with ErrAlreadyExists
	// when an active account for the same (owner, phone) exists.
	Create(ctx context.Context, account *CustomerAccount) error

	// AppendEntry persists an appended transaction: the account row is
	// updated under a version check and the last ledger entry inserted,
	// in one transaction.
	AppendEntry(ctx context.Context, account *CustomerAccount) error

	// ReplaceLedger persists a full ledger rewrite: the account row is
	// updated under a version check, existing entries are removed, and
	// the new ledger inserted, in one transaction. No partial state is
	// ever visible.
	ReplaceLedger(ctx context.Context, account *CustomerAccount) error

	// SaveWithLock persists account-row changes (rename, soft delete,
	// restore) under a version check. Ledger entries are untouched.
	SaveWithLock(ctx context.Context, account *CustomerAccount) error
}

// MonthlyTotal is one row of the monthly credit/payment summary. Credit
// and Paid are unsigned magnitudes.
type MonthlyTotal struct {
	Year   int
	Month  time.Month
	Credit decimal.Decimal
	Paid   decimal.Decimal
}

// ReportRepository is the read-only reporting view over ledger entries.
// It never participates in the write path and may run at weaker
// isolation.
type ReportRepository interface {
	// MonthlySummary aggregates an owner's ledger entries per calendar
	// month: total credit extended and total payments received.
	MonthlySummary(ctx context.Context, ownerID uuid.UUID) ([]MonthlyTotal, error)
}

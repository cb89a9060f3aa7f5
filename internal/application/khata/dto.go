package khata

import (
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/identity"
	"github.com/khata/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Requests
// =============================================================================

// CreateAccountRequest represents a request to register a customer with a shop
type CreateAccountRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"required"`
}

// AppendTransactionRequest represents a request to record one credit or payment
type AppendTransactionRequest struct {
	Type       string          `json:"type" validate:"required,oneof=credit payment"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" validate:"max=500"`
	OccurredAt *time.Time      `json:"occurred_at"`
}

// RewriteEntryRequest is one entry of a bulk ledger rewrite
type RewriteEntryRequest struct {
	Type       string          `json:"type" validate:"required,oneof=credit payment"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" validate:"max=500"`
	OccurredAt *time.Time      `json:"occurred_at"`
}

// RewriteLedgerRequest represents a request to replace an account's full
// ledger with a corrected history, in caller order
type RewriteLedgerRequest struct {
	Entries []RewriteEntryRequest `json:"entries" validate:"dive"`
}

// RenameAccountRequest represents an identity-only edit. Nil fields are
// left unchanged.
type RenameAccountRequest struct {
	NewName  *string `json:"new_name" validate:"omitempty,min=1,max=200"`
	NewPhone *string `json:"new_phone"`
}

// ListAccountsFilter narrows and paginates an owner's account listing
type ListAccountsFilter struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
}

// =============================================================================
// Responses
// =============================================================================

// LedgerEntryResponse represents one ledger entry in API responses
type LedgerEntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	Position     int             `json:"position"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// AccountResponse represents a customer account with its full ledger
type AccountResponse struct {
	ID         uuid.UUID             `json:"id"`
	OwnerID    uuid.UUID             `json:"owner_id"`
	Name       string                `json:"name"`
	Phone      string                `json:"phone"`
	Ledger     []LedgerEntryResponse `json:"ledger"`
	CurrentDue decimal.Decimal       `json:"current_due"`
	IsDeleted  bool                  `json:"is_deleted"`
	DeletedAt  *time.Time            `json:"deleted_at,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Version    int                   `json:"version"`
}

// AccountListResponse is the slim listing shape without the ledger
type AccountListResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	CurrentDue decimal.Decimal `json:"current_due"`
	EntryCount int             `json:"entry_count"`
	DeletedAt  *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// KhataResponse is one shop's ledger in the customer-facing cross-shop
// view, labelled with the shop it belongs to
type KhataResponse struct {
	AccountResponse
	ShopName  string `json:"shop_name"`
	OwnerName string `json:"owner_name"`
}

// MonthlySummaryResponse is one month of aggregate credit/payment totals
type MonthlySummaryResponse struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Credit decimal.Decimal `json:"credit"`
	Paid   decimal.Decimal `json:"paid"`
}

// =============================================================================
// Converters
// =============================================================================

// ToLedgerEntryResponse converts a domain LedgerEntry to LedgerEntryResponse
func ToLedgerEntryResponse(e *ledger.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           e.ID,
		Position:     e.Position,
		Type:         e.Type.String(),
		Amount:       e.Amount,
		Note:         e.Note,
		OccurredAt:   e.OccurredAt,
		BalanceAfter: e.BalanceAfter,
	}
}

// ToAccountResponse converts a domain CustomerAccount to AccountResponse
func ToAccountResponse(a *ledger.CustomerAccount) AccountResponse {
	entries := make([]LedgerEntryResponse, len(a.Ledger))
	for i := range a.Ledger {
		entries[i] = ToLedgerEntryResponse(&a.Ledger[i])
	}
	return AccountResponse{
		ID:         a.ID,
		OwnerID:    a.OwnerID,
		Name:       a.Name,
		Phone:      a.Phone.String(),
		Ledger:     entries,
		CurrentDue: a.CurrentDue,
		IsDeleted:  a.IsDeleted,
		DeletedAt:  a.DeletedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Version:    a.Version,
	}
}

// ToAccountListResponse converts a domain CustomerAccount to AccountListResponse
func ToAccountListResponse(a *ledger.CustomerAccount) AccountListResponse {
	return AccountListResponse{
		ID:         a.ID,
		Name:       a.Name,
		Phone:      a.Phone.String(),
		CurrentDue: a.CurrentDue,
		EntryCount: len(a.Ledger),
		DeletedAt:  a.DeletedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToAccountListResponses converts a slice of accounts to listing responses
func ToAccountListResponses(accounts []ledger.CustomerAccount) []AccountListResponse {
	responses := make([]AccountListResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountListResponse(&accounts[i])
	}
	return responses
}

// ToKhataResponse converts an account plus its owner into the customer-facing shape
func ToKhataResponse(a *ledger.CustomerAccount, owner *identity.Owner) KhataResponse {
	resp := KhataResponse{AccountResponse: ToAccountResponse(a)}
	if owner != nil {
		resp.ShopName = owner.ShopName
		resp.OwnerName = owner.OwnerName
	}
	return resp
}

// ToMonthlySummaryResponses converts domain monthly totals to responses
func ToMonthlySummaryResponses(totals []ledger.MonthlyTotal) []MonthlySummaryResponse {
	responses := make([]MonthlySummaryResponse, len(totals))
	for i, total := range totals {
		responses[i] = MonthlySummaryResponse{
			Year:   total.Year,
			Month:  int(total.Month),
			Credit: total.Credit,
			Paid:   total.Paid,
		}
	}
	return responses
}

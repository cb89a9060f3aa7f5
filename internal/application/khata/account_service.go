// Package khata exposes the ledger core to its collaborators (HTTP
// layer, report generator, PDF renderer). It consumes an already
// authenticated owner or customer identity; credential checking and
// transport belong to the callers.
package khata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/identity"
	"github.com/khata/backend/internal/domain/ledger"
	"github.com/khata/backend/internal/domain/shared"
)

// AccountService handles customer-account and ledger mutations for shop
// owners, plus the cross-shop view for customers.
type AccountService struct {
	accounts ledger.AccountRepository
	owners   identity.OwnerRepository
	validate *validator.Validate
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts ledger.AccountRepository, owners identity.OwnerRepository) *AccountService {
	return &AccountService{
		accounts: accounts,
		owners:   owners,
		validate: validator.New(),
	}
}

// NormalizePhone canonicalizes raw phone input into the 10-digit key used
// throughout the service. Exposed so collaborators resolve identity the
// same way the core does.
func (s *AccountService) NormalizePhone(raw string) (string, error) {
	key, err := ledger.NormalizePhone(raw)
	if err != nil {
		return "", err
	}
	return key.String(), nil
}

// CreateAccount registers a customer with a shop. The ledger starts empty
// with zero due. Fails with ALREADY_EXISTS when the owner already has an
// active account for this phone; a soft-deleted account does not block
// recreation.
func (s *AccountService) CreateAccount(ctx context.Context, ownerID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	phone, err := ledger.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	account, err := ledger.NewCustomerAccount(ownerID, req.Name, phone)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// GetAccount fetches one active account with its full ledger
func (s *AccountService) GetAccount(ctx context.Context, ownerID uuid.UUID, rawPhone string) (*AccountResponse, error) {
	account, err := s.findActive(ctx, ownerID, rawPhone)
	if err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// AppendTransaction records one credit or payment against the account and
// returns the updated state. The entry is appended on top of the current
// due, so the ledger's running balances never need recomputation on read.
func (s *AccountService) AppendTransaction(ctx context.Context, ownerID uuid.UUID, rawPhone string, req AppendTransactionRequest) (*AccountResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	account, err := s.findActive(ctx, ownerID, rawPhone)
	if err != nil {
		return nil, err
	}

	var occurredAt time.Time
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	if _, err := account.AppendTransaction(ledger.EntryType(req.Type), req.Amount, req.Note, occurredAt); err != nil {
		return nil, err
	}

	if err := s.accounts.AppendEntry(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// RewriteLedger replaces the account's full history with the given
// entries, replayed in caller order from balance zero. All-or-nothing: a
// malformed entry fails the whole request and persists nothing.
func (s *AccountService) RewriteLedger(ctx context.Context, ownerID uuid.UUID, rawPhone string, req RewriteLedgerRequest) (*AccountResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	account, err := s.findActive(ctx, ownerID, rawPhone)
	if err != nil {
		return nil, err
	}

	inputs := make([]ledger.EntryInput, len(req.Entries))
	for i, e := range req.Entries {
		var occurredAt time.Time
		if e.OccurredAt != nil {
			occurredAt = *e.OccurredAt
		}
		inputs[i] = ledger.EntryInput{
			Type:       ledger.EntryType(e.Type),
			Amount:     e.Amount,
			Note:       e.Note,
			OccurredAt: occurredAt,
		}
	}

	if err := account.RewriteLedger(inputs); err != nil {
		return nil, err
	}

	if err := s.accounts.ReplaceLedger(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// RenameAccount applies an identity-only edit: name, phone, or both. The
// ledger and due are untouched. A phone change re-checks (owner, phone)
// uniqueness against active accounts.
func (s *AccountService) RenameAccount(ctx context.Context, ownerID uuid.UUID, rawPhone string, req RenameAccountRequest) (*AccountResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	account, err := s.findActive(ctx, ownerID, rawPhone)
	if err != nil {
		return nil, err
	}

	if req.NewName != nil {
		if err := account.Rename(*req.NewName); err != nil {
			return nil, err
		}
	}

	if req.NewPhone != nil {
		newPhone, err := ledger.NormalizePhone(*req.NewPhone)
		if err != nil {
			return nil, err
		}
		if newPhone != account.Phone {
			exists, err := s.accounts.ExistsActive(ctx, ownerID, newPhone)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.ErrAlreadyExists
			}
			if err := account.ChangePhone(newPhone); err != nil {
				return nil, err
			}
		}
	}

	if err := s.accounts.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// SoftDeleteAccount marks the account deleted while preserving its full
// ledger for audit and restore. The (owner, phone) key becomes free for a
// new active account.
func (s *AccountService) SoftDeleteAccount(ctx context.Context, ownerID uuid.UUID, rawPhone string) error {
	account, err := s.findActive(ctx, ownerID, rawPhone)
	if err != nil {
		return err
	}

	if err := account.SoftDelete(); err != nil {
		return err
	}

	return s.accounts.SaveWithLock(ctx, account)
}

// RestoreAccount brings a soft-deleted account back, ledger and due
// intact. Fails with ACTIVE_CONFLICT when an active account has taken the
// same (owner, phone) key in the meantime; the two ledgers are never
// merged.
func (s *AccountService) RestoreAccount(ctx context.Context, ownerID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForOwner(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	exists, err := s.accounts.ExistsActive(ctx, ownerID, account.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ledger.ErrActiveConflict
	}

	if err := account.Restore(); err != nil {
		return nil, err
	}

	if err := s.accounts.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// ListActiveAccounts lists an owner's active accounts, newest first
func (s *AccountService) ListActiveAccounts(ctx context.Context, ownerID uuid.UUID, filter ListAccountsFilter) ([]AccountListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
	}

	accounts, err := s.accounts.ListActive(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.accounts.CountActive(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAccountListResponses(accounts), total, nil
}

// ListDeletedAccounts lists an owner's soft-deleted accounts for the
// restore workflow
func (s *AccountService) ListDeletedAccounts(ctx context.Context, ownerID uuid.UUID) ([]AccountListResponse, error) {
	accounts, err := s.accounts.ListDeleted(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ToAccountListResponses(accounts), nil
}

// ListAccountsForPhone is the customer-facing cross-shop view: every
// active ledger held against this phone, across all owners, labelled with
// the shop it belongs to and ordered most-recently-updated first.
func (s *AccountService) ListAccountsForPhone(ctx context.Context, rawPhone string) ([]KhataResponse, error) {
	phone, err := ledger.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.FindAnyByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]uuid.UUID, 0, len(accounts))
	for i := range accounts {
		ownerIDs = append(ownerIDs, accounts[i].OwnerID)
	}
	owners, err := s.owners.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]KhataResponse, len(accounts))
	for i := range accounts {
		var owner *identity.Owner
		if o, ok := owners[accounts[i].OwnerID]; ok {
			owner = &o
		}
		responses[i] = ToKhataResponse(&accounts[i], owner)
	}
	return responses, nil
}

// findActive resolves raw phone input to the owner's active account.
func (s *AccountService) findActive(ctx context.Context, ownerID uuid.UUID, rawPhone string) (*ledger.CustomerAccount, error) {
	phone, err := ledger.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}
	return s.accounts.FindActive(ctx, ownerID, phone)
}

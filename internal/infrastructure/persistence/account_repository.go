package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/ledger"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/khata/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// accountColumns are the account-row fields written on every mutation.
// Listed explicitly so zero values (is_deleted = false on restore,
// deleted_at = nil) are written rather than skipped by GORM's
// struct-update semantics.
var accountColumns = []string{"name", "phone", "current_due", "is_deleted", "deleted_at", "version", "updated_at"}

// GormAccountRepository implements ledger.AccountRepository using GORM.
// Every mutation runs "update row where id and previous version" inside a
// transaction, so concurrent mutations on the same account serialize: the
// loser of the race gets ErrConcurrencyConflict instead of overwriting a
// balance it never saw.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID, deleted or not
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.CustomerAccount, error) {
	var model models.CustomerAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadEntries(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner finds an account by ID within an owner's scope,
// deleted or not
func (r *GormAccountRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.CustomerAccount, error) {
	var model models.CustomerAccountModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadEntries(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds the active account for (owner, phone)
func (r *GormAccountRepository) FindActive(ctx context.Context, ownerID uuid.UUID, phone ledger.PhoneKey) (*ledger.CustomerAccount, error) {
	var model models.CustomerAccountModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND phone = ? AND is_deleted = ?", ownerID, phone.String(), false).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadEntries(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAnyByPhone finds all active accounts for a phone across every
// owner, most-recently-updated first
func (r *GormAccountRepository) FindAnyByPhone(ctx context.Context, phone ledger.PhoneKey) ([]ledger.CustomerAccount, error) {
	var accountModels []models.CustomerAccountModel
	if err := r.db.WithContext(ctx).
		Where("phone = ? AND is_deleted = ?", phone.String(), false).
		Order("updated_at DESC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainWithEntries(ctx, accountModels)
}

// ExistsActive reports whether an active account exists for (owner, phone)
func (r *GormAccountRepository) ExistsActive(ctx context.Context, ownerID uuid.UUID, phone ledger.PhoneKey) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerAccountModel{}).
		Where("owner_id = ? AND phone = ? AND is_deleted = ?", ownerID, phone.String(), false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive lists an owner's active accounts, most-recently-created first
func (r *GormAccountRepository) ListActive(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.CustomerAccount, error) {
	var accountModels []models.CustomerAccountModel
	query := r.applyFilter(
		r.db.WithContext(ctx).
			Model(&models.CustomerAccountModel{}).
			Where("owner_id = ? AND is_deleted = ?", ownerID, false),
		filter,
	)
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainWithEntries(ctx, accountModels)
}

// CountActive counts an owner's active accounts matching the filter
func (r *GormAccountRepository) CountActive(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).
			Model(&models.CustomerAccountModel{}).
			Where("owner_id = ? AND is_deleted = ?", ownerID, false),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListDeleted lists an owner's soft-deleted accounts, most recently
// deleted first
func (r *GormAccountRepository) ListDeleted(ctx context.Context, ownerID uuid.UUID) ([]ledger.CustomerAccount, error) {
	var accountModels []models.CustomerAccountModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, true).
		Order("deleted_at DESC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainWithEntries(ctx, accountModels)
}

// Create persists a brand-new account. The active-uniqueness check runs
// here and is backed by the partial unique index on
// (owner_id, phone) WHERE is_deleted = false, so a concurrent create
// loses on the index even when both pass the pre-check.
func (r *GormAccountRepository) Create(ctx context.Context, account *ledger.CustomerAccount) error {
	exists, err := r.ExistsActive(ctx, account.OwnerID, account.Phone)
	if err != nil {
		return err
	}
	if exists {
		return shared.ErrAlreadyExists
	}

	model := models.CustomerAccountModelFromDomain(account)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if len(model.Entries) > 0 {
			if err := tx.Create(model.Entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	account.MarkPersisted()
	return nil
}

// AppendEntry persists an appended transaction: account row updated under
// a version check plus the new last entry inserted, atomically
func (r *GormAccountRepository) AppendEntry(ctx context.Context, account *ledger.CustomerAccount) error {
	if len(account.Ledger) == 0 {
		return shared.NewDomainError("INVALID_STATE", "No entry to append")
	}
	entry := models.LedgerEntryModelFromDomain(&account.Ledger[len(account.Ledger)-1])

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateWithVersionCheck(tx, account); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return err
	}
	account.MarkPersisted()
	return nil
}

// ReplaceLedger persists a full ledger rewrite: account row updated under
// a version check, old entries removed, new ledger inserted, atomically
func (r *GormAccountRepository) ReplaceLedger(ctx context.Context, account *ledger.CustomerAccount) error {
	model := models.CustomerAccountModelFromDomain(account)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateWithVersionCheck(tx, account); err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).
			Delete(&models.LedgerEntryModel{}).Error; err != nil {
			return err
		}
		if len(model.Entries) > 0 {
			if err := tx.Create(model.Entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	account.MarkPersisted()
	return nil
}

// SaveWithLock persists account-row changes (rename, soft delete,
// restore) under a version check; ledger entries are untouched
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *ledger.CustomerAccount) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.updateWithVersionCheck(tx, account)
	})
	if err != nil {
		return err
	}
	account.MarkPersisted()
	return nil
}

// updateWithVersionCheck writes the account row guarded by the version
// the aggregate was loaded with, so a save carrying several domain
// mutations (or none) still contends on one compare-and-swap. Zero rows
// affected means another transaction won the race.
func (r *GormAccountRepository) updateWithVersionCheck(tx *gorm.DB, account *ledger.CustomerAccount) error {
	model := models.CustomerAccountModelFromDomain(account)
	result := tx.Model(&models.CustomerAccountModel{}).
		Select(accountColumns).
		Where("id = ? AND version = ?", account.ID, account.LoadedVersion()).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// loadEntries fills one account model's ledger in position order
func (r *GormAccountRepository) loadEntries(ctx context.Context, model *models.CustomerAccountModel) error {
	return r.db.WithContext(ctx).
		Where("account_id = ?", model.ID).
		Order("position ASC").
		Find(&model.Entries).Error
}

// toDomainWithEntries batch-loads ledgers for a set of accounts with one
// query and converts to domain entities
func (r *GormAccountRepository) toDomainWithEntries(ctx context.Context, accountModels []models.CustomerAccountModel) ([]ledger.CustomerAccount, error) {
	if len(accountModels) == 0 {
		return []ledger.CustomerAccount{}, nil
	}

	ids := make([]uuid.UUID, len(accountModels))
	for i := range accountModels {
		ids[i] = accountModels[i].ID
	}

	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("account_id IN ?", ids).
		Order("position ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	byAccount := make(map[uuid.UUID][]models.LedgerEntryModel, len(accountModels))
	for _, entry := range entryModels {
		byAccount[entry.AccountID] = append(byAccount[entry.AccountID], entry)
	}

	accounts := make([]ledger.CustomerAccount, len(accountModels))
	for i := range accountModels {
		accountModels[i].Entries = byAccount[accountModels[i].ID]
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, nil
}

// applyFilter applies search, ordering, and pagination to the query
func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderDir := "DESC"
	if filter.OrderDir == "asc" {
		orderDir = "ASC"
	}
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applySearch applies the name/phone search without pagination
func (r *GormAccountRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Ensure GormAccountRepository implements AccountRepository
var _ ledger.AccountRepository = (*GormAccountRepository)(nil)

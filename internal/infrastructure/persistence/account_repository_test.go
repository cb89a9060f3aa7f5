package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/ledger"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/khata/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAccountTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.CustomerAccountModel{}, &models.LedgerEntryModel{})
	require.NoError(t, err)

	return db
}

func newPersistedAccount(t *testing.T, repo *GormAccountRepository, ownerID uuid.UUID, name, phone string) *ledger.CustomerAccount {
	t.Helper()
	account, err := ledger.NewCustomerAccount(ownerID, name, ledger.PhoneKey(phone))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestGormAccountRepository_Create(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("creates and finds account by phone", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Ravi Kumar", "9876543210")

		found, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
		assert.Equal(t, "Ravi Kumar", found.Name)
		assert.True(t, found.CurrentDue.IsZero())
		assert.Empty(t, found.Ledger)
		assert.False(t, found.IsDeleted)
	})

	t.Run("rejects duplicate active phone for same owner", func(t *testing.T) {
		newPersistedAccount(t, repo, ownerID, "First", "9000000001")

		dup, err := ledger.NewCustomerAccount(ownerID, "Second", ledger.PhoneKey("9000000001"))
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("allows same phone for a different owner", func(t *testing.T) {
		otherOwner := uuid.New()
		account, err := ledger.NewCustomerAccount(otherOwner, "Other Shop Customer", ledger.PhoneKey("9000000001"))
		require.NoError(t, err)

		assert.NoError(t, repo.Create(ctx, account))
	})

	t.Run("allows recreation after soft delete", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Old Account", "9000000002")

		require.NoError(t, account.SoftDelete())
		require.NoError(t, repo.SaveWithLock(ctx, account))

		fresh, err := ledger.NewCustomerAccount(ownerID, "New Account", ledger.PhoneKey("9000000002"))
		require.NoError(t, err)
		assert.NoError(t, repo.Create(ctx, fresh))
	})
}

func TestGormAccountRepository_AppendEntry(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("persists appended entries in order", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Ravi Kumar", "9876543210")

		_, err := account.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(500), "groceries", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.AppendEntry(ctx, account))

		_, err = account.AppendTransaction(ledger.EntryTypePayment, decimal.NewFromInt(200), "", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.AppendEntry(ctx, account))

		found, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		require.Len(t, found.Ledger, 2)
		assert.Equal(t, 0, found.Ledger[0].Position)
		assert.Equal(t, 1, found.Ledger[1].Position)
		assert.True(t, found.Ledger[0].Amount.Equal(decimal.NewFromInt(500)))
		assert.True(t, found.Ledger[1].Amount.Equal(decimal.NewFromInt(-200)))
		assert.True(t, found.Ledger[1].BalanceAfter.Equal(decimal.NewFromInt(300)))
		assert.True(t, found.CurrentDue.Equal(decimal.NewFromInt(300)))
	})

	t.Run("rejects stale version", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Race Target", "9000000003")

		first, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		second, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)

		_, err = first.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(100), "", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.AppendEntry(ctx, first))

		_, err = second.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(50), "", time.Time{})
		require.NoError(t, err)
		err = repo.AppendEntry(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		// the losing write left nothing behind
		found, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		require.Len(t, found.Ledger, 1)
		assert.True(t, found.CurrentDue.Equal(decimal.NewFromInt(100)))
	})
}

func TestGormAccountRepository_ReplaceLedger(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("replaces entries wholesale", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Ravi Kumar", "9876543210")

		_, err := account.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(500), "", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.AppendEntry(ctx, account))

		err = account.RewriteLedger([]ledger.EntryInput{
			{Type: ledger.EntryTypePayment, Amount: decimal.NewFromInt(100)},
			{Type: ledger.EntryTypePayment, Amount: decimal.NewFromInt(50)},
		})
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceLedger(ctx, account))

		found, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		require.Len(t, found.Ledger, 2)
		assert.Equal(t, ledger.EntryTypePayment, found.Ledger[0].Type)
		assert.True(t, found.CurrentDue.Equal(decimal.NewFromInt(-150)))
	})

	t.Run("rewrite to empty ledger clears due", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Empty Rewrite", "9000000004")

		_, err := account.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(75), "", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.AppendEntry(ctx, account))

		require.NoError(t, account.RewriteLedger(nil))
		require.NoError(t, repo.ReplaceLedger(ctx, account))

		found, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		assert.Empty(t, found.Ledger)
		assert.True(t, found.CurrentDue.IsZero())
	})

	t.Run("rejects stale version", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Rewrite Race", "9000000005")

		stale, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)

		_, err = account.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(10), "", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.AppendEntry(ctx, account))

		require.NoError(t, stale.RewriteLedger(nil))
		err = repo.ReplaceLedger(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormAccountRepository_SoftDeleteAndRestore(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	account := newPersistedAccount(t, repo, ownerID, "Ravi Kumar", "9876543210")
	_, err := account.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(500), "", time.Time{})
	require.NoError(t, err)
	require.NoError(t, repo.AppendEntry(ctx, account))

	t.Run("soft delete hides account from active lookups", func(t *testing.T) {
		require.NoError(t, account.SoftDelete())
		require.NoError(t, repo.SaveWithLock(ctx, account))

		_, err := repo.FindActive(ctx, ownerID, account.Phone)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		exists, err := repo.ExistsActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("deleted account is listed with its ledger intact", func(t *testing.T) {
		deleted, err := repo.ListDeleted(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, deleted, 1)
		assert.Equal(t, account.ID, deleted[0].ID)
		assert.NotNil(t, deleted[0].DeletedAt)
		require.Len(t, deleted[0].Ledger, 1)
		assert.True(t, deleted[0].CurrentDue.Equal(decimal.NewFromInt(500)))
	})

	t.Run("restore brings the account back verbatim", func(t *testing.T) {
		found, err := repo.FindByIDForOwner(ctx, ownerID, account.ID)
		require.NoError(t, err)

		require.NoError(t, found.Restore())
		require.NoError(t, repo.SaveWithLock(ctx, found))

		restored, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		assert.False(t, restored.IsDeleted)
		assert.Nil(t, restored.DeletedAt)
		require.Len(t, restored.Ledger, 1)
		assert.True(t, restored.CurrentDue.Equal(decimal.NewFromInt(500)))
	})
}

func TestGormAccountRepository_Listing(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	newPersistedAccount(t, repo, ownerID, "Ravi Kumar", "9876543210")
	newPersistedAccount(t, repo, ownerID, "Sita Devi", "9123456789")
	deleted := newPersistedAccount(t, repo, ownerID, "Gone Customer", "9000000009")
	require.NoError(t, deleted.SoftDelete())
	require.NoError(t, repo.SaveWithLock(ctx, deleted))

	t.Run("lists only active accounts", func(t *testing.T) {
		accounts, err := repo.ListActive(ctx, ownerID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	})

	t.Run("counts active accounts", func(t *testing.T) {
		count, err := repo.CountActive(ctx, ownerID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("search matches name and phone", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "Sita"
		accounts, err := repo.ListActive(ctx, ownerID, filter)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "Sita Devi", accounts[0].Name)

		filter.Search = "98765"
		accounts, err = repo.ListActive(ctx, ownerID, filter)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "Ravi Kumar", accounts[0].Name)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 1

		page1, err := repo.ListActive(ctx, ownerID, filter)
		require.NoError(t, err)
		require.Len(t, page1, 1)

		filter.Page = 2
		page2, err := repo.ListActive(ctx, ownerID, filter)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})

	t.Run("does not leak accounts across owners", func(t *testing.T) {
		accounts, err := repo.ListActive(ctx, uuid.New(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})
}

func TestGormAccountRepository_FindAnyByPhone(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	shopA := uuid.New()
	shopB := uuid.New()
	phone := ledger.PhoneKey("9876543210")

	a := newPersistedAccount(t, repo, shopA, "Ravi at Shop A", phone.String())
	_, err := a.AppendTransaction(ledger.EntryTypeCredit, decimal.NewFromInt(120), "", time.Time{})
	require.NoError(t, err)
	require.NoError(t, repo.AppendEntry(ctx, a))

	newPersistedAccount(t, repo, shopB, "Ravi at Shop B", phone.String())

	hidden := newPersistedAccount(t, repo, uuid.New(), "Deleted Shop", phone.String())
	require.NoError(t, hidden.SoftDelete())
	require.NoError(t, repo.SaveWithLock(ctx, hidden))

	accounts, err := repo.FindAnyByPhone(ctx, phone)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	byOwner := make(map[uuid.UUID]ledger.CustomerAccount, len(accounts))
	for _, acc := range accounts {
		byOwner[acc.OwnerID] = acc
	}
	require.Contains(t, byOwner, shopA)
	require.Contains(t, byOwner, shopB)
	assert.True(t, byOwner[shopA].CurrentDue.Equal(decimal.NewFromInt(120)))
	assert.Len(t, byOwner[shopA].Ledger, 1)
}

func TestGormAccountRepository_SaveWithLock(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("persists a combined name and phone edit in one save", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Ravi Kumar", "9876543210")

		require.NoError(t, account.Rename("Ravi K."))
		require.NoError(t, account.ChangePhone(ledger.PhoneKey("9000000009")))
		require.NoError(t, repo.SaveWithLock(ctx, account))

		found, err := repo.FindActive(ctx, ownerID, ledger.PhoneKey("9000000009"))
		require.NoError(t, err)
		assert.Equal(t, "Ravi K.", found.Name)
		assert.Equal(t, account.Version, found.Version)
	})

	t.Run("saving without a mutation is not a conflict", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "No Change", "9000000010")

		assert.NoError(t, repo.SaveWithLock(ctx, account))
	})

	t.Run("consecutive saves on the same aggregate succeed", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Twice Edited", "9000000011")

		require.NoError(t, account.Rename("First Edit"))
		require.NoError(t, repo.SaveWithLock(ctx, account))

		require.NoError(t, account.Rename("Second Edit"))
		require.NoError(t, repo.SaveWithLock(ctx, account))

		found, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)
		assert.Equal(t, "Second Edit", found.Name)
	})

	t.Run("a stale aggregate still loses the race", func(t *testing.T) {
		account := newPersistedAccount(t, repo, ownerID, "Contended", "9000000012")

		stale, err := repo.FindActive(ctx, ownerID, account.Phone)
		require.NoError(t, err)

		require.NoError(t, account.Rename("Winner"))
		require.NoError(t, repo.SaveWithLock(ctx, account))

		require.NoError(t, stale.Rename("Loser"))
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormAccountRepository_FindByID(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	account := newPersistedAccount(t, repo, ownerID, "Ravi Kumar", "9876543210")

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
	})

	t.Run("scoped lookup rejects wrong owner", func(t *testing.T) {
		_, err := repo.FindByIDForOwner(ctx, uuid.New(), account.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

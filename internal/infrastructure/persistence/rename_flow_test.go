package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/application/khata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drives the rename operation through the application service and the
// real repository, since the interesting failure modes live in the
// interaction between domain version bumps and the persistence guard.
func TestAccountService_RenameAccount_AgainstRepository(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	service := khata.NewAccountService(repo, NewGormOwnerRepository(db))
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("name and phone changed together", func(t *testing.T) {
		created, err := service.CreateAccount(ctx, ownerID, khata.CreateAccountRequest{
			Name:  "Ravi Kumar",
			Phone: "9876543210",
		})
		require.NoError(t, err)

		_, err = service.AppendTransaction(ctx, ownerID, "9876543210", khata.AppendTransactionRequest{
			Type:   "credit",
			Amount: decimal.NewFromInt(500),
		})
		require.NoError(t, err)

		newName := "Ravi K."
		newPhone := "09000000009"
		resp, err := service.RenameAccount(ctx, ownerID, "9876543210", khata.RenameAccountRequest{
			NewName:  &newName,
			NewPhone: &newPhone,
		})
		require.NoError(t, err)
		assert.Equal(t, "Ravi K.", resp.Name)
		assert.Equal(t, "9000000009", resp.Phone)

		// ledger and due survived the identity edit
		found, err := service.GetAccount(ctx, ownerID, "9000000009")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		require.Len(t, found.Ledger, 1)
		assert.True(t, found.CurrentDue.Equal(decimal.NewFromInt(500)))
	})

	t.Run("edit with nothing to change succeeds", func(t *testing.T) {
		_, err := service.CreateAccount(ctx, ownerID, khata.CreateAccountRequest{
			Name:  "Sita Devi",
			Phone: "9123456789",
		})
		require.NoError(t, err)

		samePhone := "+91 91234-56789"
		resp, err := service.RenameAccount(ctx, ownerID, "9123456789", khata.RenameAccountRequest{
			NewPhone: &samePhone,
		})
		require.NoError(t, err)
		assert.Equal(t, "Sita Devi", resp.Name)
		assert.Equal(t, "9123456789", resp.Phone)
	})
}

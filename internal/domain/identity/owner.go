// Package identity holds the shop-owner read model. Owners are an
// external identity: the ledger core reads them to label cross-shop
// customer views but never creates or mutates them.
package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/shared"
)

// Owner is a shop owner as seen by the ledger core
type Owner struct {
	shared.BaseEntity
	OwnerName string
	ShopName  string
	Email     string
}

// OwnerRepository is the read-only lookup for owners
type OwnerRepository interface {
	// FindByID finds an owner by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Owner, error)

	// FindByIDs finds multiple owners by their IDs. Missing IDs are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Owner, error)
}

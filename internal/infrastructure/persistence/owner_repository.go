package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/identity"
	"github.com/khata/backend/internal/domain/shared"
	"github.com/khata/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOwnerRepository implements identity.OwnerRepository using GORM.
// Read-only: the owners table belongs to the identity collaborator.
type GormOwnerRepository struct {
	db *gorm.DB
}

// NewGormOwnerRepository creates a new GormOwnerRepository
func NewGormOwnerRepository(db *gorm.DB) *GormOwnerRepository {
	return &GormOwnerRepository{db: db}
}

// FindByID finds an owner by ID
func (r *GormOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Owner, error) {
	var model models.OwnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple owners by their IDs; missing IDs are absent
// from the result
func (r *GormOwnerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]identity.Owner, error) {
	owners := make(map[uuid.UUID]identity.Owner, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	var ownerModels []models.OwnerModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&ownerModels).Error; err != nil {
		return nil, err
	}

	for i := range ownerModels {
		owners[ownerModels[i].ID] = *ownerModels[i].ToDomain()
	}
	return owners, nil
}

// Ensure GormOwnerRepository implements OwnerRepository
var _ identity.OwnerRepository = (*GormOwnerRepository)(nil)

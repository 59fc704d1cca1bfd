package pets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// Repository encapsulates pet persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a pets repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a pet row and returns the persisted model.
func (r *Repository) Create(ctx context.Context, pet *models.Pet) (*models.Pet, error) {
	if err := r.db.WithContext(ctx).Create(pet).Error; err != nil {
		return nil, err
	}
	return pet, nil
}

// FindByID loads a pet by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// ListByOwner returns all pets for a user ordered by registration time.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error) {
	var rows []models.Pet
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByIDs loads pets by primary key, skipping ids with no row.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Pet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Pet
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FirstByOwner returns the owner's earliest registered pet.
func (r *Repository) FirstByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").Order("id ASC").
		First(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// Update applies the provided column updates and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Pet, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Pet{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the pet row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id).Error
}

// CountByOwner returns how many pets the user has registered.
func (r *Repository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

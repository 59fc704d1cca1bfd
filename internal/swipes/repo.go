package swipes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// Repository wraps swipe persistence plus the candidate deck query.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a swipes repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a swipe row.
func (r *Repository) Create(ctx context.Context, swipe *models.Swipe) (*models.Swipe, error) {
	if err := r.db.WithContext(ctx).Create(swipe).Error; err != nil {
		return nil, err
	}
	return swipe, nil
}

// FindByPair loads the swipe from one pet toward another, if any.
func (r *Repository) FindByPair(ctx context.Context, swiperPetID, swipedPetID uuid.UUID) (*models.Swipe, error) {
	var swipe models.Swipe
	err := r.db.WithContext(ctx).
		First(&swipe, "swiper_pet_id = ? AND swiped_pet_id = ?", swiperPetID, swipedPetID).Error
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// ListSwipedPetIDs returns every pet id already swiped by any of the given
// swiper pets.
func (r *Repository) ListSwipedPetIDs(ctx context.Context, swiperPetIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(swiperPetIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Swipe{}).
		Where("swiper_pet_id IN ?", swiperPetIDs).
		Distinct().
		Pluck("swiped_pet_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListCandidates returns pets owned by other users that none of the caller's
// pets has swiped yet, oldest registration first.
func (r *Repository) ListCandidates(ctx context.Context, ownerID uuid.UUID, excludedPetIDs []uuid.UUID) ([]models.Pet, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("owner_id <> ?", ownerID)
	if len(excludedPetIDs) > 0 {
		query = query.Where("id NOT IN ?", excludedPetIDs)
	}

	var candidates []models.Pet
	if err := query.Order("created_at ASC, id ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

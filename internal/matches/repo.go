package matches

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// Repository wraps match persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a matches repository bound to the provided database.
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

// OrderPetPair returns the two pet ids in canonical storage order. Match rows
// always hold the byte-wise smaller uuid in pet1_id.
func OrderPetPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// Create inserts a match row, normalizing the pair order.
func (r *Repository) Create(ctx context.Context, petA, petB uuid.UUID) (*models.Match, error) {
	pet1, pet2 := OrderPetPair(petA, petB)
	match := &models.Match{Pet1ID: pet1, Pet2ID: pet2}
	if err := r.db.WithContext(ctx).Create(match).Error; err != nil {
		return nil, err
	}
	return match, nil
}

// FindByID loads a match by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	var match models.Match
	if err := r.db.WithContext(ctx).First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// FindByPetPair loads the match between two pets regardless of argument order.
func (r *Repository) FindByPetPair(ctx context.Context, petA, petB uuid.UUID) (*models.Match, error) {
	pet1, pet2 := OrderPetPair(petA, petB)
	var match models.Match
	if err := r.db.WithContext(ctx).First(&match, "pet1_id = ? AND pet2_id = ?", pet1, pet2).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForPets returns all matches touching any of the given pets, newest first.
func (r *Repository) ListForPets(ctx context.Context, petIDs []uuid.UUID) ([]models.Match, error) {
	if len(petIDs) == 0 {
		return nil, nil
	}
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("pet1_id IN ? OR pet2_id IN ?", petIDs, petIDs).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

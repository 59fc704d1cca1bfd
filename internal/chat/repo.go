package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// Repository wraps message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a messages repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a message row.
func (r *Repository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// ListByMatch returns the full history for a match, oldest first.
func (r *Repository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

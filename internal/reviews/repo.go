package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	"github.com/pawmatch/pawmatch-backend/pkg/pagination"
)

// Repository wraps review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a reviews repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByBookingID loads the review attached to a booking, if any.
func (r *Repository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "booking_id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListBySitter returns one page of a sitter's reviews, newest first.
func (r *Repository) ListBySitter(ctx context.Context, sitterID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Review, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("sitter_id = ?", sitterID)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var reviews []models.Review
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&reviews).Error; err != nil {
		return nil, nil, err
	}

	if len(reviews) > normalized {
		reviews = reviews[:normalized]
		last := reviews[len(reviews)-1]
		return reviews, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return reviews, nil, nil
}

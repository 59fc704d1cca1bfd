package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	"github.com/pawmatch/pawmatch-backend/pkg/enums"
	"github.com/pawmatch/pawmatch-backend/pkg/pagination"
)

// Repository wraps booking persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a bookings repository bound to the provided database.
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

type listBookingsParams struct {
	OwnerID      uuid.UUID
	SitterID     uuid.UUID
	Status       enums.BookingStatus
	StatusFilter bool
	Limit        int
	Cursor       *pagination.Cursor
}

// Create inserts a booking row.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// FindByID loads a booking by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns one page of bookings scoped to an owner or a sitter profile.
func (r *Repository) List(ctx context.Context, params listBookingsParams) ([]models.Booking, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if params.OwnerID != uuid.Nil {
		query = query.Where("owner_id = ?", params.OwnerID)
	}
	if params.SitterID != uuid.Nil {
		query = query.Where("sitter_id = ?", params.SitterID)
	}
	if params.StatusFilter {
		query = query.Where("status = ?", params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&bookings).Error; err != nil {
		return nil, nil, err
	}

	if len(bookings) > normalized {
		bookings = bookings[:normalized]
		last := bookings[len(bookings)-1]
		return bookings, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return bookings, nil, nil
}

// UpdateStatus moves a booking from one status to another. The previous
// status is part of the predicate so concurrent transitions cannot race.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CreateServiceUpdate inserts a sitter progress note.
func (r *Repository) CreateServiceUpdate(ctx context.Context, update *models.ServiceUpdate) (*models.ServiceUpdate, error) {
	if err := r.db.WithContext(ctx).Create(update).Error; err != nil {
		return nil, err
	}
	return update, nil
}

// ListServiceUpdates returns all progress notes for a booking, oldest first.
func (r *Repository) ListServiceUpdates(ctx context.Context, bookingID uuid.UUID) ([]models.ServiceUpdate, error) {
	var updates []models.ServiceUpdate
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC, id ASC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// CancelStalePending cancels pending bookings requested before the cutoff.
func (r *Repository) CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ? AND created_at < ?", enums.BookingStatusPending, cutoff).
		Update("status", enums.BookingStatusCancelled)
	return result.RowsAffected, result.Error
}

// StartElapsed moves confirmed bookings whose start time passed into progress.
func (r *Repository) StartElapsed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ? AND start_time <= ?", enums.BookingStatusConfirmed, now).
		Update("status", enums.BookingStatusInProgress)
	return result.RowsAffected, result.Error
}

// CompleteElapsed completes in-progress bookings whose end time passed.
func (r *Repository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ? AND end_time <= ?", enums.BookingStatusInProgress, now).
		Update("status", enums.BookingStatusCompleted)
	return result.RowsAffected, result.Error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmatch/pawmatch-backend/pkg/enums"
)

// Booking records an owner hiring a sitter for one pet over a time range.
type Booking struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID    uuid.UUID           `gorm:"column:owner_id;type:uuid;not null;index:bookings_owner_id_idx"`
	SitterID   uuid.UUID           `gorm:"column:sitter_id;type:uuid;not null;index:bookings_sitter_id_idx"`
	PetID      uuid.UUID           `gorm:"column:pet_id;type:uuid;not null"`
	StartTime  time.Time           `gorm:"column:start_time;type:timestamptz;not null"`
	EndTime    time.Time           `gorm:"column:end_time;type:timestamptz;not null"`
	TotalHours decimal.Decimal     `gorm:"column:total_hours;type:numeric(6,2);not null"`
	TotalPrice decimal.Decimal     `gorm:"column:total_price;type:numeric(10,2);not null"`
	Status     enums.BookingStatus `gorm:"type:booking_status;not null;default:'pending'"`
	Notes      *string             `gorm:"type:text"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ServiceUpdate is a sitter-authored progress note attached to a booking.
type ServiceUpdate struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID uuid.UUID `gorm:"column:booking_id;type:uuid;not null;index:service_updates_booking_id_idx"`
	SitterID  uuid.UUID `gorm:"column:sitter_id;type:uuid;not null"`
	Message   string    `gorm:"type:text;not null"`
	ImageURL  *string   `gorm:"column:image_url;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

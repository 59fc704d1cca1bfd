package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is the owner's rating of a completed booking, one per booking.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID uuid.UUID `gorm:"column:booking_id;type:uuid;not null;uniqueIndex:reviews_booking_id_key"`
	SitterID  uuid.UUID `gorm:"column:sitter_id;type:uuid;not null;index:reviews_sitter_id_idx"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Pet belongs to exactly one owner; cascade removal is handled by the schema.
type Pet struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index:pets_owner_id_idx"`
	Name      string     `gorm:"type:text;not null"`
	Species   string     `gorm:"type:text;not null"`
	Breed     *string    `gorm:"type:text"`
	BirthDate *time.Time `gorm:"column:birth_date;type:date"`
	Gender    *string    `gorm:"type:text"`
	AvatarURL *string    `gorm:"column:avatar_url;type:text"`
	Notes     *string    `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

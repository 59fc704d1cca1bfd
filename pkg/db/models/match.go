package models

import (
	"time"

	"github.com/google/uuid"
)

// Match links two pets whose owners liked each other. Rows are stored with
// Pet1ID < Pet2ID so the unique index covers both swipe directions.
type Match struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Pet1ID    uuid.UUID `gorm:"column:pet1_id;type:uuid;not null;uniqueIndex:matches_pet_pair_key"`
	Pet2ID    uuid.UUID `gorm:"column:pet2_id;type:uuid;not null;uniqueIndex:matches_pet_pair_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

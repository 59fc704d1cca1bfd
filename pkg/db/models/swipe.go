package models

import (
	"time"

	"github.com/google/uuid"
)

// Swipe stores one directed decision between two pets. The composite unique
// index makes repeat swipes on the same pair idempotent at the schema level.
type Swipe struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SwiperPetID uuid.UUID `gorm:"column:swiper_pet_id;type:uuid;not null;uniqueIndex:swipes_swiper_swiped_key"`
	SwipedPetID uuid.UUID `gorm:"column:swiped_pet_id;type:uuid;not null;uniqueIndex:swipes_swiper_swiped_key"`
	Liked       bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

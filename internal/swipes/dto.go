package swipes

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// SwipeDTO is the API-facing shape of a recorded swipe.
type SwipeDTO struct {
	ID          uuid.UUID `json:"id"`
	SwiperPetID uuid.UUID `json:"swiper_pet_id"`
	SwipedPetID uuid.UUID `json:"swiped_pet_id"`
	Liked       bool      `json:"liked"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordSwipeRequest is the payload for one swipe decision.
type RecordSwipeRequest struct {
	SwipedPetID uuid.UUID `json:"swiped_pet_id" validate:"required"`
	Liked       bool      `json:"liked"`
}

// FromModel maps a swipe row into its DTO.
func FromModel(swipe *models.Swipe) *SwipeDTO {
	if swipe == nil {
		return nil
	}
	return &SwipeDTO{
		ID:          swipe.ID,
		SwiperPetID: swipe.SwiperPetID,
		SwipedPetID: swipe.SwipedPetID,
		Liked:       swipe.Liked,
		CreatedAt:   swipe.CreatedAt,
	}
}

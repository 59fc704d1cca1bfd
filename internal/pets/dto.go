package pets

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// PetDTO is the transport shape for a pet profile.
type PetDTO struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     *string    `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    *string    `json:"gender,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreatePetRequest holds the payload for registering a pet.
type CreatePetRequest struct {
	Name      string     `json:"name" validate:"required"`
	Species   string     `json:"species" validate:"required"`
	Breed     *string    `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    *string    `json:"gender,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// UpdatePetRequest carries the mutable pet fields; nil leaves a field unchanged.
type UpdatePetRequest struct {
	Name      *string    `json:"name,omitempty"`
	Species   *string    `json:"species,omitempty"`
	Breed     *string    `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    *string    `json:"gender,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

func FromModel(p *models.Pet) *PetDTO {
	if p == nil {
		return nil
	}
	return &PetDTO{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
		Gender:    p.Gender,
		AvatarURL: p.AvatarURL,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromModels(rows []models.Pet) []PetDTO {
	out := make([]PetDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

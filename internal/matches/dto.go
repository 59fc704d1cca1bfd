package matches

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/internal/pets"
)

// MatchDTO is a mutual pairing with both sides already resolved for the
// requesting user, so callers never re-derive which pet is theirs.
type MatchDTO struct {
	ID        uuid.UUID   `json:"id"`
	Mine      pets.PetDTO `json:"mine"`
	Other     pets.PetDTO `json:"other"`
	CreatedAt time.Time   `json:"created_at"`
}

// ListResult wraps the user's matches plus their own pet ids.
type ListResult struct {
	Items  []MatchDTO  `json:"items"`
	PetIDs []uuid.UUID `json:"pet_ids"`
}

package matches

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/internal/pets"
	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

// Service exposes match listing and membership checks.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) (*ListResult, error)
	ForUser(ctx context.Context, userID, matchID uuid.UUID) (*MatchDTO, error)
}

type petLoader interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Pet, error)
}

// ServiceParams groups dependencies for the matches service.
type ServiceParams struct {
	MatchRepo *Repository
	PetRepo   petLoader
}

type service struct {
	matches *Repository
	pets    petLoader
}

// NewService builds a matches service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.MatchRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "match repo required")
	}
	if params.PetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pet repo required")
	}
	return &service{matches: params.MatchRepo, pets: params.PetRepo}, nil
}

// List returns the user's matches with both pets resolved. Users without pets
// get an empty list, not an error.
func (s *service) List(ctx context.Context, userID uuid.UUID) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	owned, err := s.pets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owned pets")
	}
	ownedIDs := make([]uuid.UUID, 0, len(owned))
	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, pet := range owned {
		ownedIDs = append(ownedIDs, pet.ID)
		ownedSet[pet.ID] = struct{}{}
	}
	if len(ownedIDs) == 0 {
		return &ListResult{Items: []MatchDTO{}, PetIDs: []uuid.UUID{}}, nil
	}

	rows, err := s.matches.ListForPets(ctx, ownedIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list matches")
	}

	petIDs := make([]uuid.UUID, 0, len(rows)*2)
	for _, match := range rows {
		petIDs = append(petIDs, match.Pet1ID, match.Pet2ID)
	}
	resolved, err := s.pets.ListByIDs(ctx, petIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve match pets")
	}
	petByID := make(map[uuid.UUID]*models.Pet, len(resolved))
	for i := range resolved {
		petByID[resolved[i].ID] = &resolved[i]
	}

	items := make([]MatchDTO, 0, len(rows))
	for _, match := range rows {
		dto, ok := shapeMatch(&match, ownedSet, petByID)
		if !ok {
			// one side no longer resolves, drop the row
			continue
		}
		items = append(items, *dto)
	}
	return &ListResult{Items: items, PetIDs: ownedIDs}, nil
}

// ForUser loads one match and verifies the user owns one of its pets.
func (s *service) ForUser(ctx context.Context, userID, matchID uuid.UUID) (*MatchDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if matchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "match id is required")
	}

	match, err := s.matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "match not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load match")
	}

	resolved, err := s.pets.ListByIDs(ctx, []uuid.UUID{match.Pet1ID, match.Pet2ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve match pets")
	}
	petByID := make(map[uuid.UUID]*models.Pet, len(resolved))
	ownedSet := make(map[uuid.UUID]struct{})
	for i := range resolved {
		petByID[resolved[i].ID] = &resolved[i]
		if resolved[i].OwnerID == userID {
			ownedSet[resolved[i].ID] = struct{}{}
		}
	}
	if len(ownedSet) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "match belongs to another user")
	}

	dto, ok := shapeMatch(match, ownedSet, petByID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "match pets no longer exist")
	}
	return dto, nil
}

func shapeMatch(match *models.Match, ownedSet map[uuid.UUID]struct{}, petByID map[uuid.UUID]*models.Pet) (*MatchDTO, bool) {
	pet1, ok1 := petByID[match.Pet1ID]
	pet2, ok2 := petByID[match.Pet2ID]
	if !ok1 || !ok2 {
		return nil, false
	}

	mine, other := pet1, pet2
	if _, owned := ownedSet[pet2.ID]; owned {
		mine, other = pet2, pet1
	}
	if _, owned := ownedSet[mine.ID]; !owned {
		return nil, false
	}

	return &MatchDTO{
		ID:        match.ID,
		Mine:      *pets.FromModel(mine),
		Other:     *pets.FromModel(other),
		CreatedAt: match.CreatedAt,
	}, true
}

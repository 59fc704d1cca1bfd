package pets

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

// Service exposes business rules for pet profile management.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreatePetRequest) (*PetDTO, error)
	Get(ctx context.Context, ownerID, petID uuid.UUID) (*PetDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]PetDTO, error)
	Update(ctx context.Context, ownerID, petID uuid.UUID, req UpdatePetRequest) (*PetDTO, error)
	Delete(ctx context.Context, ownerID, petID uuid.UUID) error
}

// ServiceParams groups dependencies for the pets service.
type ServiceParams struct {
	PetRepo *Repository
}

type service struct {
	pets *Repository
}

// NewService builds a pets service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet repo is required")
	}
	return &service{pets: params.PetRepo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreatePetRequest) (*PetDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet name is required")
	}
	species := strings.TrimSpace(req.Species)
	if species == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "species is required")
	}

	pet, err := s.pets.Create(ctx, &models.Pet{
		OwnerID:   ownerID,
		Name:      name,
		Species:   species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		AvatarURL: req.AvatarURL,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pet")
	}
	return FromModel(pet), nil
}

func (s *service) Get(ctx context.Context, ownerID, petID uuid.UUID) (*PetDTO, error) {
	pet, err := s.ownedPet(ctx, ownerID, petID)
	if err != nil {
		return nil, err
	}
	return FromModel(pet), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]PetDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	rows, err := s.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pets")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, ownerID, petID uuid.UUID, req UpdatePetRequest) (*PetDTO, error) {
	if _, err := s.ownedPet(ctx, ownerID, petID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet name cannot be blank")
		}
		updates["name"] = name
	}
	if req.Species != nil {
		species := strings.TrimSpace(*req.Species)
		if species == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "species cannot be blank")
		}
		updates["species"] = species
	}
	if req.Breed != nil {
		updates["breed"] = *req.Breed
	}
	if req.BirthDate != nil {
		updates["birth_date"] = *req.BirthDate
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	pet, err := s.pets.Update(ctx, petID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pet")
	}
	return FromModel(pet), nil
}

func (s *service) Delete(ctx context.Context, ownerID, petID uuid.UUID) error {
	if _, err := s.ownedPet(ctx, ownerID, petID); err != nil {
		return err
	}
	if err := s.pets.Delete(ctx, petID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pet")
	}
	return nil
}

func (s *service) ownedPet(ctx context.Context, ownerID, petID uuid.UUID) (*models.Pet, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if petID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet id is required")
	}
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
	}
	if pet.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pet belongs to another user")
	}
	return pet, nil
}

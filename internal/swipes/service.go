package swipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/internal/matches"
	"github.com/pawmatch/pawmatch-backend/internal/notifications"
	"github.com/pawmatch/pawmatch-backend/internal/pets"
	"github.com/pawmatch/pawmatch-backend/pkg/db"
	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	"github.com/pawmatch/pawmatch-backend/pkg/enums"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

// Service exposes the swipe deck and swipe recording.
type Service interface {
	Deck(ctx context.Context, userID uuid.UUID) ([]pets.PetDTO, error)
	Record(ctx context.Context, userID uuid.UUID, req RecordSwipeRequest) (*SwipeDTO, error)
}

type petReader interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error)
	FirstByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Pet, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
}

type notifier interface {
	NotifyTx(ctx context.Context, tx *gorm.DB, input notifications.NotifyInput) error
}

// ServiceParams groups dependencies for the swipes service.
type ServiceParams struct {
	DB        *db.Client
	SwipeRepo *Repository
	MatchRepo *matches.Repository
	PetRepo   petReader
	Notifier  notifier
}

type service struct {
	db       *db.Client
	swipes   *Repository
	matches  *matches.Repository
	pets     petReader
	notifier notifier
}

// NewService builds a swipes service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.SwipeRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "swipe repo required")
	}
	if params.MatchRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "match repo required")
	}
	if params.PetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pet repo required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{
		db:       params.DB,
		swipes:   params.SwipeRepo,
		matches:  params.MatchRepo,
		pets:     params.PetRepo,
		notifier: params.Notifier,
	}, nil
}

// Deck computes the pets eligible to be shown next: everything not owned by
// the caller and not yet swiped by any of the caller's pets.
func (s *service) Deck(ctx context.Context, userID uuid.UUID) ([]pets.PetDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	owned, err := s.pets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owned pets")
	}
	if len(owned) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoOwnedPet, "add a pet before swiping")
	}

	ownedIDs := make([]uuid.UUID, 0, len(owned))
	for _, pet := range owned {
		ownedIDs = append(ownedIDs, pet.ID)
	}
	swiped, err := s.swipes.ListSwipedPetIDs(ctx, ownedIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load swipe history")
	}

	candidates, err := s.swipes.ListCandidates(ctx, userID, swiped)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidates")
	}
	return pets.FromModels(candidates), nil
}

// Record persists one swipe decision. The acting pet is the caller's earliest
// registered pet. A reciprocal like creates the match in the same transaction
// and notifies both owners.
func (s *service) Record(ctx context.Context, userID uuid.UUID, req RecordSwipeRequest) (*SwipeDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if req.SwipedPetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "swiped pet id is required")
	}

	swiper, err := s.pets.FirstByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNoOwnedPet, "add a pet before swiping")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load swiper pet")
	}
	if swiper.ID == req.SwipedPetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot swipe your own pet")
	}

	target, err := s.pets.FindByID(ctx, req.SwipedPetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load swiped pet")
	}
	if target.OwnerID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot swipe your own pet")
	}

	if _, err := s.swipes.FindByPair(ctx, swiper.ID, target.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "pet already swiped")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check swipe history")
	}

	swipe := &models.Swipe{
		SwiperPetID: swiper.ID,
		SwipedPetID: target.ID,
		Liked:       req.Liked,
	}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.swipes.WithTx(tx).Create(ctx, swipe); err != nil {
			// A concurrent identical swipe can slip past the FindByPair check
			// and land on the unique index instead.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "pet already swiped")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create swipe")
		}
		if !req.Liked {
			return nil
		}
		return s.maybeCreateMatch(ctx, tx, swiper, target)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(swipe), nil
}

// maybeCreateMatch pairs the two pets when the like is reciprocal.
func (s *service) maybeCreateMatch(ctx context.Context, tx *gorm.DB, swiper, target *models.Pet) error {
	matchRepo := s.matches.WithTx(tx)

	reciprocal, err := s.swipes.WithTx(tx).FindByPair(ctx, target.ID, swiper.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check reciprocal like")
	}
	if !reciprocal.Liked {
		return nil
	}

	if _, err := matchRepo.FindByPetPair(ctx, swiper.ID, target.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing match")
	}

	match, err := matchRepo.Create(ctx, swiper.ID, target.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create match")
	}

	link := "/matches/" + match.ID.String()
	for _, side := range []struct {
		ownerID uuid.UUID
		mine    string
		other   string
	}{
		{swiper.OwnerID, swiper.Name, target.Name},
		{target.OwnerID, target.Name, swiper.Name},
	} {
		err := s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:  side.ownerID,
			Type:    enums.NotificationTypeMatchCreated,
			Title:   "It's a match!",
			Message: fmt.Sprintf("%s and %s liked each other", side.mine, side.other),
			Link:    &link,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	"github.com/pawmatch/pawmatch-backend/pkg/enums"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/pagination"
)

// Service exposes review operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
	ListBySitter(ctx context.Context, sitterID uuid.UUID, params ListParams) (*ListResult, error)
}

type bookingFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	ReviewRepo  *Repository
	BookingRepo bookingFinder
}

type service struct {
	reviews  *Repository
	bookings bookingFinder
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "review repo required")
	}
	if params.BookingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "booking repo required")
	}
	return &service{reviews: params.ReviewRepo, bookings: params.BookingRepo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if req.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if booking.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the booking owner can leave a review")
	}
	if booking.Status != enums.BookingStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "booking is not completed yet")
	}

	if _, err := s.reviews.FindByBookingID(ctx, booking.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "booking already reviewed")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}

	review, err := s.reviews.Create(ctx, &models.Review{
		BookingID: booking.ID,
		SitterID:  booking.SitterID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return FromModel(review), nil
}

func (s *service) ListBySitter(ctx context.Context, sitterID uuid.UUID, params ListParams) (*ListResult, error) {
	if sitterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sitter id is required")
	}

	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.reviews.ListBySitter(ctx, sitterID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	encoded := ""
	if next != nil {
		encoded = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: FromModels(rows), Cursor: encoded}, nil
}

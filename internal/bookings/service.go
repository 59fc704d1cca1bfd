package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/internal/notifications"
	"github.com/pawmatch/pawmatch-backend/pkg/db"
	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	"github.com/pawmatch/pawmatch-backend/pkg/enums"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/pagination"
)

// Service exposes booking lifecycle operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error)
	Get(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, params ListParams) (*ListResult, error)
	ListForSitter(ctx context.Context, sitterUserID uuid.UUID, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, userID, bookingID uuid.UUID, req UpdateStatusRequest) (*BookingDTO, error)
	AddServiceUpdate(ctx context.Context, userID, bookingID uuid.UUID, req AddServiceUpdateRequest) (*ServiceUpdateDTO, error)
	ListServiceUpdates(ctx context.Context, userID, bookingID uuid.UUID) ([]ServiceUpdateDTO, error)
}

type sitterFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sitter, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Sitter, error)
}

type petFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
}

type notifier interface {
	Notify(ctx context.Context, input notifications.NotifyInput) error
	NotifyTx(ctx context.Context, tx *gorm.DB, input notifications.NotifyInput) error
}

// ServiceParams groups dependencies for the bookings service.
type ServiceParams struct {
	DB               *db.Client
	BookingRepo      *Repository
	SitterRepo       sitterFinder
	PetRepo          petFinder
	Notifier         notifier
	MinDurationHours int
}

type service struct {
	db          *db.Client
	bookings    *Repository
	sitters     sitterFinder
	pets        petFinder
	notifier    notifier
	minDuration time.Duration
}

// NewService builds a bookings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.BookingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "booking repo required")
	}
	if params.SitterRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sitter repo required")
	}
	if params.PetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pet repo required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	minHours := params.MinDurationHours
	if minHours <= 0 {
		minHours = 1
	}
	return &service{
		db:          params.DB,
		bookings:    params.BookingRepo,
		sitters:     params.SitterRepo,
		pets:        params.PetRepo,
		notifier:    params.Notifier,
		minDuration: time.Duration(minHours) * time.Hour,
	}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if req.SitterID == uuid.Nil || req.PetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sitter id and pet id are required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end time must be after start time")
	}
	duration := req.EndTime.Sub(req.StartTime)
	if duration < s.minDuration {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("booking must last at least %s", s.minDuration))
	}

	sitter, err := s.sitters.FindByID(ctx, req.SitterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sitter not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sitter")
	}
	if !sitter.IsApproved {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sitter is not approved yet")
	}
	if sitter.UserID == ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot book your own sitter profile")
	}

	pet, err := s.pets.FindByID(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
	}
	if pet.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pet belongs to another user")
	}

	totalHours := decimal.NewFromFloat(duration.Hours()).Round(2)
	totalPrice := totalHours.Mul(sitter.PricePerHour).Round(2)

	booking := &models.Booking{
		OwnerID:    ownerID,
		SitterID:   sitter.ID,
		PetID:      pet.ID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TotalHours: totalHours,
		TotalPrice: totalPrice,
		Status:     enums.BookingStatusPending,
		Notes:      req.Notes,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.bookings.WithTx(tx).Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
		}
		link := bookingLink(booking.ID)
		return s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:  sitter.UserID,
			Type:    enums.NotificationTypeBookingRequested,
			Title:   "New booking request",
			Message: fmt.Sprintf("Sitting request for %s starting %s", pet.Name, req.StartTime.Format("Jan 2 15:04")),
			Link:    &link,
		})
	})
	if err != nil {
		return nil, err
	}

	return FromModel(booking), nil
}

func (s *service) Get(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error) {
	booking, _, err := s.loadForParticipant(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	return FromModel(booking), nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID uuid.UUID, params ListParams) (*ListResult, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	return s.list(ctx, listBookingsParams{OwnerID: ownerID}, params)
}

func (s *service) ListForSitter(ctx context.Context, sitterUserID uuid.UUID, params ListParams) (*ListResult, error) {
	if sitterUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	sitter, err := s.sitters.FindByUserID(ctx, sitterUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sitter profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sitter profile")
	}
	return s.list(ctx, listBookingsParams{SitterID: sitter.ID}, params)
}

func (s *service) list(ctx context.Context, scope listBookingsParams, params ListParams) (*ListResult, error) {
	scope.Limit = params.Limit
	if params.Status != "" {
		status, err := enums.ParseBookingStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		scope.Status = status
		scope.StatusFilter = true
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		scope.Cursor = cursor
	}

	rows, next, err := s.bookings.List(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: FromModels(rows), Cursor: cursor}, nil
}

func (s *service) UpdateStatus(ctx context.Context, userID, bookingID uuid.UUID, req UpdateStatusRequest) (*BookingDTO, error) {
	target, err := enums.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	booking, sitter, err := s.loadForParticipant(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move booking from %s to %s", booking.Status, target))
	}

	isOwner := booking.OwnerID == userID
	isSitter := sitter.UserID == userID
	switch target {
	case enums.BookingStatusCancelled:
		if !isOwner {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can cancel a booking")
		}
	case enums.BookingStatusConfirmed, enums.BookingStatusInProgress, enums.BookingStatusCompleted:
		if !isSitter {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the sitter can advance a booking")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported status target")
	}

	moved, err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "booking status changed concurrently")
	}
	booking.Status = target

	// tell the side that did not make the change
	recipient := booking.OwnerID
	if isOwner {
		recipient = sitter.UserID
	}
	link := bookingLink(booking.ID)
	if err := s.notifier.Notify(ctx, notifications.NotifyInput{
		UserID:  recipient,
		Type:    enums.NotificationTypeBookingStatus,
		Title:   "Booking " + string(target),
		Message: fmt.Sprintf("Your booking is now %s", target),
		Link:    &link,
	}); err != nil {
		return nil, err
	}

	return FromModel(booking), nil
}

func (s *service) AddServiceUpdate(ctx context.Context, userID, bookingID uuid.UUID, req AddServiceUpdateRequest) (*ServiceUpdateDTO, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	booking, sitter, err := s.loadForParticipant(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if sitter.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the sitter can post service updates")
	}
	if booking.Status != enums.BookingStatusInProgress {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "service updates are only allowed while the booking is in progress")
	}

	update, err := s.bookings.CreateServiceUpdate(ctx, &models.ServiceUpdate{
		BookingID: booking.ID,
		SitterID:  sitter.ID,
		Message:   strings.TrimSpace(req.Message),
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service update")
	}
	return serviceUpdateFromModel(update), nil
}

func (s *service) ListServiceUpdates(ctx context.Context, userID, bookingID uuid.UUID) ([]ServiceUpdateDTO, error) {
	booking, _, err := s.loadForParticipant(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	updates, err := s.bookings.ListServiceUpdates(ctx, booking.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service updates")
	}
	out := make([]ServiceUpdateDTO, 0, len(updates))
	for i := range updates {
		out = append(out, *serviceUpdateFromModel(&updates[i]))
	}
	return out, nil
}

// loadForParticipant fetches the booking plus its sitter profile and rejects
// callers who are neither the owner nor the sitter's user.
func (s *service) loadForParticipant(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, *models.Sitter, error) {
	if userID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if bookingID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	sitter, err := s.sitters.FindByID(ctx, booking.SitterID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking sitter")
	}

	if booking.OwnerID != userID && sitter.UserID != userID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another user")
	}
	return booking, sitter, nil
}

func bookingLink(id uuid.UUID) string {
	return "/bookings/" + id.String()
}

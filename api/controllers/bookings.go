package controllers

import (
	"net/http"
	"strings"

	"github.com/pawmatch/pawmatch-backend/api/responses"
	"github.com/pawmatch/pawmatch-backend/api/validators"
	"github.com/pawmatch/pawmatch-backend/internal/bookings"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
)

// CreateBooking books an approved sitter for one of the caller's pets.
func CreateBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		ownerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bookings.CreateBookingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Create(r.Context(), ownerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// GetBooking returns a booking visible to the caller.
func GetBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := pathUUID(r, "bookingId", "booking id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Get(r.Context(), userID, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

func bookingListParams(r *http.Request) (bookings.ListParams, error) {
	params := bookings.ListParams{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
	if err != nil {
		return bookings.ListParams{}, err
	}
	params.Limit = limit
	return params, nil
}

// ListOwnerBookings lists bookings the caller created.
func ListOwnerBookings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := bookingListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForOwner(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListSitterBookings lists bookings assigned to the caller's sitter profile.
func ListSitterBookings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := bookingListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForSitter(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// UpdateBookingStatus advances or cancels a booking.
func UpdateBookingStatus(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := pathUUID(r, "bookingId", "booking id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bookings.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.UpdateStatus(r.Context(), userID, bookingID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// AddBookingUpdate records a sitter-authored service update on an active booking.
func AddBookingUpdate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := pathUUID(r, "bookingId", "booking id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bookings.AddServiceUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		update, err := svc.AddServiceUpdate(r.Context(), userID, bookingID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, update)
	}
}

// ListBookingUpdates returns the service updates for a booking the caller participates in.
func ListBookingUpdates(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := pathUUID(r, "bookingId", "booking id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updates, err := svc.ListServiceUpdates(r.Context(), userID, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updates)
	}
}

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pawmatch/pawmatch-backend/api/responses"
	"github.com/pawmatch/pawmatch-backend/api/validators"
	"github.com/pawmatch/pawmatch-backend/internal/sitters"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
)

// ApplySitter creates a sitter profile for the caller.
func ApplySitter(svc sitters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sitters service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sitters.ApplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sitter, err := svc.Apply(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sitter)
	}
}

// GetSitter returns a sitter profile by id.
func GetSitter(svc sitters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sitters service unavailable"))
			return
		}

		sitterID, err := pathUUID(r, "sitterId", "sitter id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sitter, err := svc.Get(r.Context(), sitterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sitter)
	}
}

// MySitterProfile returns the caller's own sitter profile.
func MySitterProfile(svc sitters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sitters service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sitter, err := svc.GetByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sitter)
	}
}

// SearchSitters lists approved sitters filtered by area, price, and rating.
func SearchSitters(svc sitters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sitters service unavailable"))
			return
		}

		filters := sitters.SearchFilters{
			ServiceArea: strings.TrimSpace(r.URL.Query().Get("area")),
			Cursor:      strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Limit = limit

		if raw := strings.TrimSpace(r.URL.Query().Get("maxPrice")); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid maxPrice value"))
				return
			}
			filters.MaxPrice = &price
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("minRating")); raw != "" {
			rating, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid minRating value"))
				return
			}
			filters.MinRating = &rating
		}

		page, err := svc.Search(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminApproveSitter marks a sitter profile as approved.
func AdminApproveSitter(svc sitters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sitters service unavailable"))
			return
		}

		sitterID, err := pathUUID(r, "sitterId", "sitter id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sitter, err := svc.Approve(r.Context(), sitterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sitter)
	}
}

// AdminCertifySitter records a certification exam score for a sitter.
func AdminCertifySitter(svc sitters.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sitters service unavailable"))
			return
		}

		sitterID, err := pathUUID(r, "sitterId", "sitter id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sitters.CertifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sitter, err := svc.Certify(r.Context(), sitterID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sitter)
	}
}

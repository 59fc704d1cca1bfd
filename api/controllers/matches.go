package controllers

import (
	"net/http"

	"github.com/pawmatch/pawmatch-backend/api/responses"
	"github.com/pawmatch/pawmatch-backend/internal/matches"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
)

// ListMatches returns the caller's matches resolved to both pet profiles.
func ListMatches(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "matches service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

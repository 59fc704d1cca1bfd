package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pawmatch/pawmatch-backend/api/responses"
	"github.com/pawmatch/pawmatch-backend/pkg/config"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the database and Redis clients used for
// readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PawMatch-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, db, cache Pinger) http.HandlerFunc {
	type dependency struct {
		name string
		ping Pinger
	}
	deps := []dependency{{"database", db}, {"redis", cache}}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for _, dep := range deps {
			if dep.ping == nil {
				continue
			}
			if err := dep.ping.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, dep.name+" unavailable"))
				return
			}
		}

		w.Header().Set("X-PawMatch-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

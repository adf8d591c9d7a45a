package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/gamestore-storefront/api/responses"
	"github.com/angelmondragon/gamestore-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/gamestore-storefront/pkg/errors"
	"github.com/angelmondragon/gamestore-storefront/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report its availability.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GameStore-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the store backend and, when configured, the catalog cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, backend Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GameStore-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		var failed error
		if backend != nil {
			checks["backend"] = "ok"
			if err := backend.Ping(ctx); err != nil {
				checks["backend"] = "unavailable"
				failed = err
			}
		}
		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = "unavailable"
				if failed == nil {
					failed = err
				}
			}
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, failed, "readiness check failed").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/meridianlabs/lims-backend/api/responses"
	"github.com/meridianlabs/lims-backend/pkg/config"
	pkgerrors "github.com/meridianlabs/lims-backend/pkg/errors"
	"github.com/meridianlabs/lims-backend/pkg/logger"
)

const envHeader = "X-LIMS-Env"

// Pinger is the minimal health surface a dependency must expose.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each hard dependency. Redis is optional wiring, so a nil
// client is simply reported as skipped rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}

		if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "down"
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready").WithDetails(checks))
			return
		}
		checks["database"] = "ok"

		if redisP == nil {
			checks["redis"] = "skipped"
		} else if err := redisP.Ping(ctx); err != nil {
			checks["redis"] = "down"
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready").WithDetails(checks))
			return
		} else {
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/lucroreal-backend/api/responses"
	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/lucroreal-backend/pkg/errors"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/redis"
)

const (
	envHeader    = "X-LucroReal-Env"
	readyTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks redis when configured. A nil pinger means the instance
// runs with an in-memory snapshot only.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisPinger redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{"redis": "disabled"}
		if redisPinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := redisPinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

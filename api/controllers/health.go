package controllers

import (
	"context"
	"net/http"

	"github.com/autostore/storefront-backend/api/responses"
	"github.com/autostore/storefront-backend/pkg/config"
	"github.com/autostore/storefront-backend/pkg/logger"
)

// Pinger checks reachability of an optional dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness, checking the optional cache when wired.
func HealthReady(cfg *config.Config, logg *logger.Logger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		status := map[string]string{"status": "ready"}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "health.cache_unreachable")
				}
				status["cache"] = "unreachable"
			} else {
				status["cache"] = "ok"
			}
		}
		responses.WriteSuccess(w, status)
	}
}

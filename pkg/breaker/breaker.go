// Package breaker builds the circuit-breaker settings shared by the outbound
// collaborator clients.
package breaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/autostore/storefront-backend/pkg/config"
	"github.com/autostore/storefront-backend/pkg/logger"
)

// Settings translates the breaker config into gobreaker settings, applying
// defaults for unset values and logging state transitions.
func Settings(name string, cfg config.BreakerConfig, logg *logger.Logger) gobreaker.Settings {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	failureRatio := cfg.FailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.5
	}
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logg == nil {
				return
			}
			ctx := logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			logg.Warn(ctx, "breaker.state_change")
		},
	}
}

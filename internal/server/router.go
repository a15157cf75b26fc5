// Package server exposes health, run status, metrics and pprof while a
// generation run is in flight.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/catalog-datagen/pkg/health"
	"github.com/utafrali/catalog-datagen/pkg/middleware"
)

// NewRouter creates a chi router with the side-car endpoints registered.
// Metrics are served from gatherer rather than the global registry.
func NewRouter(
	healthHandler *health.Handler,
	gatherer prometheus.Gatherer,
	runID string,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger, runID))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/run", healthHandler.RunHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}))

	middleware.RegisterPprof(r, pprofCIDRs, logger)

	return r
}

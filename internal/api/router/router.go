// Package router wires the public HTTP surface of the quote widget API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openfence/fence-quote-api/internal/http/handlers"
	httpmiddleware "github.com/openfence/fence-quote-api/internal/http/middleware"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadIntake         *handlers.LeadIntakeHandler
	TenantConfig       *handlers.TenantConfigHandler
	Estimate           *handlers.EstimateHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.HealthCheck)

	// The intake handler owns its own method gate so OPTIONS and 405
	// behave per the widget contract.
	if cfg.LeadIntake != nil {
		r.HandleFunc("/api/lead", cfg.LeadIntake.Lead)
	}

	if cfg.Estimate != nil {
		r.Post("/api/estimate", cfg.Estimate.Estimate)
	}

	if cfg.TenantConfig != nil {
		r.Get("/config/{client}", cfg.TenantConfig.GetConfig)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

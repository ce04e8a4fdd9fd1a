// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poster-atlas/posteratlas/internal/config"
	"github.com/poster-atlas/posteratlas/internal/middleware"
)

// healthRateLimitPerMinute is intentionally permissive so orchestrator
// probes and uptime monitors never trip it.
const healthRateLimitPerMinute = 1000

// NewRouter wires all HTTP routes.
func NewRouter(handler *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)     // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)     // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)  // Recover from panics
	r.Use(cors.Handler(cors.Options{ // CORS must be global to handle OPTIONS preflight
		AllowedOrigins: cfg.Security.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(healthRateLimitPerMinute, time.Minute))
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		if !cfg.Security.RateLimitDisabled {
			r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/boards", handler.GetBoards)
		r.Get("/boards/clustered", handler.GetClusteredBoards)
		r.Get("/boards/search", handler.SearchBoards)
		r.Get("/boards/edited", handler.GetEditedBoards)
		r.Get("/boards/latest-editors", handler.GetLatestEditors)
		r.Get("/boards/{id}", handler.GetBoard)
		r.Get("/boards/{id}/history", handler.GetBoardHistory)
		r.Post("/boards/{id}/status", handler.PostStatusChange)

		r.Get("/stats/{prefecture}", handler.GetStats)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}

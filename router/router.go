// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ruleout/cliparse"
	"github.com/danielhkuo/ruleout/handlers"
	"github.com/danielhkuo/ruleout/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	planHandler := handlers.NewPlanHandler(db, cfg)
	participantHandler := handlers.NewParticipantHandler(db, cfg)
	availabilityHandler := handlers.NewAvailabilityHandler(db, cfg)

	// Public mutation routes get per-IP rate limiting
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(limiter.Wrap(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Plan management (owner operations)
	mux.HandleFunc("POST /plans", middleware.WithLogging(planHandler.CreatePlan))
	mux.HandleFunc("GET /plans/{id}/manage", middleware.WithLogging(planHandler.ManagePlan))
	mux.HandleFunc("PATCH /plans/{id}/status", middleware.WithLogging(planHandler.UpdateStatus))
	mux.HandleFunc("POST /plans/{id}/reopen", middleware.WithLogging(planHandler.ReopenDate))

	// Participant operations (public, via share slug)
	mux.HandleFunc("GET /plans/{slug}", middleware.WithLogging(planHandler.GetPlan))
	mux.HandleFunc("POST /plans/{slug}/join", limited(participantHandler.Join))
	mux.HandleFunc("POST /participants/{id}/done", limited(participantHandler.ToggleDone))
	mux.HandleFunc("POST /participants/{id}/review", limited(participantHandler.ClearReview))

	// Availability elimination (public)
	mux.HandleFunc("POST /availability/toggle", limited(availabilityHandler.Toggle))
	mux.HandleFunc("POST /availability/undo", limited(availabilityHandler.Undo))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ruleout API v1"))
	})

	return mux
}

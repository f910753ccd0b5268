// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Ruleout API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Plan management (owner, requires X-Owner-Key):

	POST  /plans             - Create plan
	GET   /plans/{id}/manage - Owner view with the availability matrix
	PATCH /plans/{id}/status - Lock or delete
	POST  /plans/{id}/reopen - Force an eliminated date back into play

Participant access (public, uses share slug):

	GET  /plans/{slug}      - Plan view with date statuses
	POST /plans/{slug}/join - Join with a display name

Participant state:

	POST /participants/{id}/done   - Toggle done
	POST /participants/{id}/review - Acknowledge a forced reopen

Availability:

	POST /availability/toggle - Mark a date unavailable
	POST /availability/undo   - Undo a mark within the window

Write routes from anonymous participants are wrapped in the per-IP rate
limiter; owner routes authenticate via HMAC key and skip it.

# Handler Initialization

The router creates handler instances with dependency injection:

	planHandler := handlers.NewPlanHandler(db, cfg)
	participantHandler := handlers.NewParticipantHandler(db, cfg)
	availabilityHandler := handlers.NewAvailabilityHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Ruleout API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - PlanHandler: Plan lifecycle, owner views, force reopen
  - ParticipantHandler: Joining, done toggling, review acknowledgement
  - AvailabilityHandler: Unavailable marks and undo

Handlers are created via constructor functions that accept *sql.DB and Config:

	planHandler := handlers.NewPlanHandler(db, cfg)

# Plan Lifecycle

Plans are active until the owner locks or deletes them:

	POST  /plans              → CreatePlan (returns owner_key)
	GET   /plans/{id}/manage  → ManagePlan (owner view)
	PATCH /plans/{id}/status  → UpdateStatus (lock or delete)
	POST  /plans/{id}/reopen  → ReopenDate (force an eliminated date back)

Owner operations require the X-Owner-Key header. An invalid key gets the
same 404 as a missing plan, so the endpoint doesn't confirm plan IDs.

# Participant Flow

Participants interact via the share slug:

	GET  /plans/{slug}       → GetPlan (public view)
	POST /plans/{slug}/join  → Join (returns participant_id)

and then by participant ID:

	POST /participants/{id}/done   → ToggleDone (sweeps undo windows)
	POST /participants/{id}/review → ClearReview (ack a forced reopen)

# Availability

	POST /availability/toggle → Toggle (mark unavailable, get undo token)
	POST /availability/undo   → Undo (spend the token)

The heavy lifting lives in the availability package; these handlers parse,
validate, dispatch, and map sentinel errors to status codes.
*/
package handlers

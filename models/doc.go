// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, with validator tags:

  - CreatePlanRequest: title, candidate dates
  - JoinPlanRequest: display_name
  - UpdatePlanStatusRequest: status (locked or deleted)
  - ReopenDateRequest: plan_date_id
  - ToggleUnavailableRequest: participant_id, plan_date_id
  - UndoRequest: participant_id, event_log_id

# Response Types

Types for JSON responses:

  - CreatePlanResponse: plan_id, owner_key, share_slug, share_url
  - ToggleUnavailableResponse: date_status, event_log_id, undo_deadline
  - UndoResponse: date_status
  - ReopenDateResponse: date, reopen_version, review_flagged_count
  - ToggleDoneResponse: is_done, swept_entries
  - PlanViewResponse / ManagePlanResponse: full plan views
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Plan: plan metadata and lifecycle state
  - PlanDate: candidate date with status and reopen_version
  - Participant: member with is_done and needs_review flags
  - AvailabilityMark: one participant's mark on one date
  - EventLogEntry: ledger row with optional undo deadline

# Event Payloads

Ledger metadata is a tagged union over EventPayload:

	payload := models.DateMarkedUnavailable{PlanDateID: id}
	raw, err := models.MarshalPayload(payload)

DecodePayload reverses the mapping based on the event type column.

# Constants

Plan status:

	PlanActive  = "active"
	PlanLocked  = "locked"
	PlanDeleted = "deleted"

Date status:

	DateViable     = "viable"
	DateEliminated = "eliminated"
	DateLocked     = "locked"
	DateReopened   = "reopened"

Availability marks:

	MarkAvailable   = "available"
	MarkUnavailable = "unavailable"
*/
package models

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ruleout/availability"
	"github.com/danielhkuo/ruleout/cliparse"
	"github.com/danielhkuo/ruleout/middleware"
	"github.com/danielhkuo/ruleout/models"
)

type AvailabilityHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAvailabilityHandler(db *sql.DB, cfg cliparse.Config) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, cfg: cfg}
}

// Toggle handles POST /availability/toggle
// Marks the participant unavailable for a date and eliminates it. The
// response carries the undo token (event_log_id) and its deadline.
func (h *AvailabilityHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleUnavailableRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id and plan_date_id are required")
		return
	}

	result, err := availability.ToggleUnavailable(h.db, req.ParticipantID, req.PlanDateID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrParticipantNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		case errors.Is(err, availability.ErrDateNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Date not found")
		case errors.Is(err, availability.ErrDateOtherPlan):
			middleware.ErrorResponse(w, http.StatusConflict, "Date does not belong to this plan")
		case errors.Is(err, availability.ErrDateLocked):
			middleware.ErrorResponse(w, http.StatusGone, "This date is locked")
		case errors.Is(err, availability.ErrPlanNotActive):
			middleware.ErrorResponse(w, http.StatusGone, "Plan is no longer active")
		default:
			slog.Error("failed to toggle unavailable", "error", err,
				"participant_id", req.ParticipantID, "plan_date_id", req.PlanDateID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle availability")
		}
		return
	}

	slog.Info("date marked unavailable",
		"participant_id", req.ParticipantID,
		"plan_date_id", req.PlanDateID,
		"event_log_id", result.EventLogID,
	)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleUnavailableResponse{
		DateStatus:   result.DateStatus,
		EventLogID:   result.EventLogID,
		UndoDeadline: result.UndoDeadline,
	})
}

// Undo handles POST /availability/undo
// Consumes an undo token within its window to reverse one elimination.
func (h *AvailabilityHandler) Undo(w http.ResponseWriter, r *http.Request) {
	var req models.UndoRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id and event_log_id are required")
		return
	}

	result, err := availability.Undo(h.db, req.ParticipantID, req.EventLogID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrEventNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, availability.ErrUndoNotAllowed):
			middleware.ErrorResponse(w, http.StatusForbidden, "You cannot undo this action")
		case errors.Is(err, availability.ErrUndoExpired):
			middleware.ErrorResponse(w, http.StatusGone, "Undo window has expired")
		default:
			slog.Error("failed to undo", "error", err,
				"participant_id", req.ParticipantID, "event_log_id", req.EventLogID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to undo")
		}
		return
	}

	slog.Info("elimination undone",
		"participant_id", req.ParticipantID,
		"event_log_id", req.EventLogID,
		"date_status", result.DateStatus,
	)

	middleware.JSONResponse(w, http.StatusOK, models.UndoResponse{DateStatus: result.DateStatus})
}

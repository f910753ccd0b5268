// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ruleout/availability"
	"github.com/danielhkuo/ruleout/cliparse"
	"github.com/danielhkuo/ruleout/middleware"
	"github.com/danielhkuo/ruleout/models"
)

type ParticipantHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewParticipantHandler(db *sql.DB, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{db: db, cfg: cfg}
}

// Join handles POST /plans/{slug}/join
func (h *ParticipantHandler) Join(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.JoinPlanRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := middleware.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name must be 1-50 characters")
		return
	}

	var planID, planStatus string
	err := h.db.QueryRow(`
		SELECT id, status FROM plan WHERE share_slug = $1
	`, shareSlug).Scan(&planID, &planStatus)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		slog.Error("failed to query plan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if planStatus != models.PlanActive {
		middleware.ErrorResponse(w, http.StatusGone, "Plan is no longer active")
		return
	}

	participant := models.Participant{
		ID:          uuid.NewString(),
		PlanID:      planID,
		DisplayName: req.DisplayName,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = h.db.Exec(`
		INSERT INTO participant (id, plan_id, display_name, is_done, needs_review, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, FALSE, $4, $4)
	`, participant.ID, planID, participant.DisplayName, participant.CreatedAt)
	if err != nil {
		// Unique (plan_id, display_name) violation = name already taken
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key value") {
			middleware.ErrorResponse(w, http.StatusConflict, "That name is already taken")
			return
		}
		slog.Error("failed to insert participant", "error", err, "plan_id", planID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join plan")
		return
	}

	_, err = availability.AppendEvent(h.db, planID, &participant.ID, nil,
		models.ParticipantJoined{DisplayName: participant.DisplayName}, nil, participant.CreatedAt)
	if err != nil {
		// Non-fatal: the participant joined, just no ledger entry
		slog.Warn("failed to log participant join", "error", err, "plan_id", planID)
	}

	slog.Info("participant joined", "plan_id", planID, "participant_id", participant.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinPlanResponse{Participant: participant})
}

// ToggleDone handles POST /participants/{id}/done
// Flipping to done sweeps the participant's own pending undo windows.
func (h *ParticipantHandler) ToggleDone(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("id")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	result, err := availability.ToggleDone(h.db, participantID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrParticipantNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		case errors.Is(err, availability.ErrPlanNotActive):
			middleware.ErrorResponse(w, http.StatusGone, "Plan is no longer active")
		default:
			slog.Error("failed to toggle done", "error", err, "participant_id", participantID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle done")
		}
		return
	}

	slog.Info("participant done toggled",
		"participant_id", participantID,
		"is_done", result.IsDone,
		"swept_entries", result.SweptEntries,
	)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleDoneResponse{
		IsDone:       result.IsDone,
		SweptEntries: result.SweptEntries,
	})
}

// ClearReview handles POST /participants/{id}/review
// The participant acknowledges a changed date set; nothing else clears
// the flag.
func (h *ParticipantHandler) ClearReview(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("id")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	if err := availability.ClearNeedsReview(h.db, participantID); err != nil {
		if errors.Is(err, availability.ErrParticipantNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
			return
		}
		slog.Error("failed to clear needs_review", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear review flag")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"needs_review": false})
}

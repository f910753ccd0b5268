// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ruleout/auth"
	"github.com/danielhkuo/ruleout/availability"
	"github.com/danielhkuo/ruleout/cliparse"
	"github.com/danielhkuo/ruleout/middleware"
	"github.com/danielhkuo/ruleout/models"
)

type PlanHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPlanHandler(db *sql.DB, cfg cliparse.Config) *PlanHandler {
	return &PlanHandler{db: db, cfg: cfg}
}

// CreatePlan handles POST /plans
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlanRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := middleware.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be 1-100 characters and dates must be 1-30 unique YYYY-MM-DD values")
		return
	}

	dates := append([]string(nil), req.Dates...)
	sort.Strings(dates)

	planID := uuid.NewString()
	ownerKey := auth.GenerateOwnerKey(planID, h.cfg.OwnerKeySalt)
	shareSlug := auth.GenerateShareSlug(planID, h.cfg.ShareSlugSalt)
	now := time.Now().UTC()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create plan")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO plan (id, title, share_slug, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, planID, req.Title, shareSlug, models.PlanActive, now)
	if err != nil {
		slog.Error("failed to insert plan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	for _, date := range dates {
		_, err = tx.Exec(`
			INSERT INTO plan_date (id, plan_id, date, status, reopen_version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 0, $5, $5)
		`, uuid.NewString(), planID, date, models.DateViable, now)
		if err != nil {
			slog.Error("failed to insert plan date", "error", err, "plan_id", planID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create plan")
			return
		}
	}

	_, err = availability.AppendEvent(tx, planID, nil, nil,
		models.PlanCreated{Title: req.Title, DateCount: len(dates)}, nil, now)
	if err != nil {
		slog.Error("failed to log plan creation", "error", err, "plan_id", planID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	slog.Info("plan created", "plan_id", planID, "dates", len(dates))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePlanResponse{
		PlanID:    planID,
		OwnerKey:  ownerKey,
		ShareSlug: shareSlug,
		ShareURL:  "/plan/" + shareSlug,
	})
}

// GetPlan handles GET /plans/{slug}
// Public plan view by share slug; pass ?participant_id= to include the
// caller's own marks and review flag.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var plan models.Plan
	err := h.db.QueryRow(`
		SELECT id, title, share_slug, status, created_at FROM plan WHERE share_slug = $1
	`, shareSlug).Scan(&plan.ID, &plan.Title, &plan.ShareSlug, &plan.Status, &plan.CreatedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		slog.Error("failed to query plan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if plan.Status == models.PlanDeleted {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}

	dates, participants, marks, err := loadPlanData(h.db, plan.ID)
	if err != nil {
		slog.Error("failed to load plan data", "error", err, "plan_id", plan.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	nameByID := make(map[string]string, len(participants))
	doneCount := 0
	for _, p := range participants {
		nameByID[p.ID] = p.DisplayName
		if p.IsDone {
			doneCount++
		}
	}

	summary := make([]models.DateSummary, 0, len(dates))
	for _, d := range dates {
		s := models.DateSummary{
			PlanDateID:    d.ID,
			Date:          d.Date,
			Status:        d.Status,
			ReopenVersion: d.ReopenVersion,
			UnavailableBy: []models.ParticipantRef{},
		}
		for _, m := range marks {
			if m.PlanDateID == d.ID && m.Status == models.MarkUnavailable {
				s.UnavailableCount++
				s.UnavailableBy = append(s.UnavailableBy, models.ParticipantRef{
					ParticipantID: m.ParticipantID,
					DisplayName:   nameByID[m.ParticipantID],
				})
			}
		}
		summary = append(summary, s)
	}

	resp := models.PlanViewResponse{
		Plan:         plan,
		Dates:        dates,
		Participants: participants,
		Summary:      summary,
		DoneCount:    doneCount,
	}

	if participantID := r.URL.Query().Get("participant_id"); participantID != "" {
		mine := []models.AvailabilityMark{}
		for _, m := range marks {
			if m.ParticipantID == participantID {
				mine = append(mine, m)
			}
		}
		resp.MyAvailability = mine
		for _, p := range participants {
			if p.ID == participantID {
				needsReview := p.NeedsReview
				resp.NeedsReview = &needsReview
				break
			}
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ManagePlan handles GET /plans/{id}/manage
// Owner view with the full availability matrix. Requires X-Owner-Key; an
// invalid key is answered with 404 so ownership cannot be probed.
func (h *PlanHandler) ManagePlan(w http.ResponseWriter, r *http.Request) {
	planID := r.PathValue("id")
	if planID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	if err := auth.ValidateOwnerKey(planID, r.Header.Get("X-Owner-Key"), h.cfg.OwnerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}

	var plan models.Plan
	err := h.db.QueryRow(`
		SELECT id, title, share_slug, status, created_at FROM plan WHERE id = $1
	`, planID).Scan(&plan.ID, &plan.Title, &plan.ShareSlug, &plan.Status, &plan.CreatedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		slog.Error("failed to query plan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	dates, participants, marks, err := loadPlanData(h.db, planID)
	if err != nil {
		slog.Error("failed to load plan data", "error", err, "plan_id", planID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ManagePlanResponse{
		Plan:         plan,
		Dates:        dates,
		Participants: participants,
		Matrix:       marks,
	})
}

// UpdateStatus handles PATCH /plans/{id}/status
// Owner-only lifecycle transition to locked or deleted. Deleted is
// terminal.
func (h *PlanHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	planID := r.PathValue("id")
	if planID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	if err := auth.ValidateOwnerKey(planID, r.Header.Get("X-Owner-Key"), h.cfg.OwnerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}

	var req models.UpdatePlanStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be \"locked\" or \"deleted\"")
		return
	}

	var current string
	err := h.db.QueryRow(`SELECT status FROM plan WHERE id = $1`, planID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		slog.Error("failed to query plan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if current == models.PlanDeleted {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Plan is deleted")
		return
	}

	_, err = h.db.Exec(`
		UPDATE plan SET status = $1, updated_at = $2 WHERE id = $3
	`, req.Status, time.Now().UTC(), planID)
	if err != nil {
		slog.Error("failed to update plan status", "error", err, "plan_id", planID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update plan")
		return
	}

	slog.Info("plan status updated", "plan_id", planID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ReopenDate handles POST /plans/{id}/reopen
// Owner-only: clears all marks on an eliminated date and returns it to
// consideration under the next reopen version.
func (h *PlanHandler) ReopenDate(w http.ResponseWriter, r *http.Request) {
	planID := r.PathValue("id")
	if planID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	if err := auth.ValidateOwnerKey(planID, r.Header.Get("X-Owner-Key"), h.cfg.OwnerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		return
	}

	var req models.ReopenDateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "plan_date_id is required")
		return
	}

	result, err := availability.ForceReopen(h.db, planID, req.PlanDateID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrPlanNotFound), errors.Is(err, availability.ErrDateNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Plan not found")
		case errors.Is(err, availability.ErrPlanNotActive):
			middleware.ErrorResponse(w, http.StatusBadRequest, "Plan is no longer active")
		case errors.Is(err, availability.ErrDateNotEliminated):
			middleware.ErrorResponse(w, http.StatusBadRequest, "Only an eliminated date can be reopened")
		default:
			slog.Error("failed to reopen date", "error", err, "plan_id", planID, "plan_date_id", req.PlanDateID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reopen date")
		}
		return
	}

	slog.Info("date force-reopened",
		"plan_id", planID,
		"plan_date_id", req.PlanDateID,
		"reopen_version", result.ReopenVersion,
		"review_flagged", result.ReviewFlaggedCount,
	)

	middleware.JSONResponse(w, http.StatusOK, models.ReopenDateResponse{
		Date:               result.Date,
		ReopenVersion:      result.ReopenVersion,
		ReviewFlaggedCount: result.ReviewFlaggedCount,
	})
}

// loadPlanData fetches the dates, participants, and availability marks of
// a plan. Dates come back sorted by date, participants by join order.
func loadPlanData(db *sql.DB, planID string) ([]models.PlanDate, []models.Participant, []models.AvailabilityMark, error) {
	rows, err := db.Query(`
		SELECT id, plan_id, date, status, reopen_version, created_at
		FROM plan_date WHERE plan_id = $1 ORDER BY date ASC
	`, planID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()

	dates := []models.PlanDate{}
	for rows.Next() {
		var d models.PlanDate
		if err := rows.Scan(&d.ID, &d.PlanID, &d.Date, &d.Status, &d.ReopenVersion, &d.CreatedAt); err != nil {
			return nil, nil, nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	prows, err := db.Query(`
		SELECT id, plan_id, display_name, is_done, needs_review, created_at
		FROM participant WHERE plan_id = $1 ORDER BY created_at ASC
	`, planID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer prows.Close()

	participants := []models.Participant{}
	for prows.Next() {
		var p models.Participant
		if err := prows.Scan(&p.ID, &p.PlanID, &p.DisplayName, &p.IsDone, &p.NeedsReview, &p.CreatedAt); err != nil {
			return nil, nil, nil, err
		}
		participants = append(participants, p)
	}
	if err := prows.Err(); err != nil {
		return nil, nil, nil, err
	}

	mrows, err := db.Query(`
		SELECT a.participant_id, a.plan_date_id, a.status, a.updated_at
		FROM availability a
		JOIN plan_date d ON d.id = a.plan_date_id
		WHERE d.plan_id = $1
	`, planID)
	if err != nil {
		return nil, nil, nil, err
	}
	defer mrows.Close()

	marks := []models.AvailabilityMark{}
	for mrows.Next() {
		var m models.AvailabilityMark
		if err := mrows.Scan(&m.ParticipantID, &m.PlanDateID, &m.Status, &m.UpdatedAt); err != nil {
			return nil, nil, nil, err
		}
		marks = append(marks, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, nil, nil, err
	}

	return dates, participants, marks, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/ruleout/models"
)

type DoneResult struct {
	IsDone       bool
	SweptEntries int
}

// ToggleDone flips a participant's done flag. Turning it on sweeps the
// participant's own live undo deadlines, making their in-flight
// eliminations permanent before they finish reviewing. The sweep is
// housekeeping: if it fails the toggle still stands, and the failure is
// only logged.
func ToggleDone(db *sql.DB, participantID string) (*DoneResult, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var planID string
	var isDone bool
	err = tx.QueryRow(`SELECT plan_id, is_done FROM participant WHERE id = $1`, participantID).Scan(&planID, &isDone)
	if err == sql.ErrNoRows {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query participant: %w", err)
	}

	var planStatus string
	err = tx.QueryRow(`SELECT status FROM plan WHERE id = $1`, planID).Scan(&planStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}
	if planStatus != models.PlanActive {
		return nil, ErrPlanNotActive
	}

	newDone := !isDone
	_, err = tx.Exec(`UPDATE participant SET is_done = $1, updated_at = $2 WHERE id = $3`, newDone, now, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	if _, err := AppendEvent(tx, planID, &participantID, nil,
		models.ParticipantDone{IsDone: newDone}, nil, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	swept := 0
	if newDone {
		n, err := SweepUndoDeadlines(db, participantID)
		if err != nil {
			slog.Warn("failed to sweep undo deadlines", "error", err, "participant_id", participantID)
		} else {
			swept = n
		}
	}

	return &DoneResult{IsDone: newDone, SweptEntries: swept}, nil
}

// SweepUndoDeadlines nulls every live undo deadline held by one
// participant. Other participants' pending windows are untouched.
func SweepUndoDeadlines(db *sql.DB, participantID string) (int, error) {
	res, err := db.Exec(`
		UPDATE event_log SET undo_deadline = NULL
		WHERE participant_id = $1 AND undo_deadline IS NOT NULL
	`, participantID)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep undo deadlines: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read sweep result: %w", err)
	}
	return int(n), nil
}

// ClearNeedsReview records the participant's own acknowledgement of a
// changed date set. Nothing else clears the flag.
func ClearNeedsReview(db *sql.DB, participantID string) error {
	res, err := db.Exec(`
		UPDATE participant SET needs_review = FALSE, updated_at = $1 WHERE id = $2
	`, time.Now().UTC(), participantID)
	if err != nil {
		return fmt.Errorf("failed to clear needs_review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read clear result: %w", err)
	}
	if n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

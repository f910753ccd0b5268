// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/ruleout/models"
)

type UndoResult struct {
	DateStatus string
}

// Undo consumes an undo token (an event log ID) to reverse exactly one
// elimination. Only the original actor may consume it, and only while the
// entry still holds a live deadline. Consumption nulls the deadline; the
// entry itself is retained for audit.
//
// This is the only path that moves a date from eliminated back to viable.
// The date becomes viable only when no unavailable marks remain on it.
func Undo(db *sql.DB, participantID, eventLogID string) (*UndoResult, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var actorID, planDateID sql.NullString
	var deadline sql.NullTime
	err = tx.QueryRow(`
		SELECT participant_id, plan_date_id, undo_deadline FROM event_log WHERE id = $1
	`, eventLogID).Scan(&actorID, &planDateID, &deadline)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event log: %w", err)
	}

	if !actorID.Valid || actorID.String != participantID {
		return nil, ErrUndoNotAllowed
	}
	if !deadline.Valid || !now.Before(deadline.Time) {
		return nil, ErrUndoExpired
	}
	if !planDateID.Valid {
		return nil, fmt.Errorf("event %s carries no plan date", eventLogID)
	}

	dateStatus, _, err := lockPlanDate(tx, planDateID.String, now)
	if err != nil {
		return nil, err
	}

	// One-shot consumption: under the date lock, null the deadline only if
	// it is still live. Zero rows means a concurrent consumer or a newer
	// toggle got here first.
	res, err := tx.Exec(`
		UPDATE event_log SET undo_deadline = NULL WHERE id = $1 AND undo_deadline IS NOT NULL
	`, eventLogID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume undo token: %w", err)
	}
	consumed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read consumption result: %w", err)
	}
	if consumed == 0 {
		return nil, ErrUndoExpired
	}

	_, err = tx.Exec(`
		UPDATE availability SET status = $1, updated_at = $2
		WHERE participant_id = $3 AND plan_date_id = $4
	`, models.MarkAvailable, now, participantID, planDateID.String)
	if err != nil {
		return nil, fmt.Errorf("failed to revert availability: %w", err)
	}

	// Recompute from the full aggregate, not the event that got us here
	var remaining int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM availability WHERE plan_date_id = $1 AND status = $2
	`, planDateID.String, models.MarkUnavailable).Scan(&remaining)
	if err != nil {
		return nil, fmt.Errorf("failed to count unavailable marks: %w", err)
	}

	status := dateStatus
	if remaining == 0 && dateStatus == models.DateEliminated {
		_, err = tx.Exec(`
			UPDATE plan_date SET status = $1, updated_at = $2 WHERE id = $3
		`, models.DateViable, now, planDateID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to restore date status: %w", err)
		}
		status = models.DateViable
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &UndoResult{DateStatus: status}, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/ruleout/models"
)

// UndoWindow is the period after an elimination during which the acting
// participant may reverse it. The deadline is persisted on the ledger
// entry and checked lazily at consumption time; there is no background
// sweeper.
const UndoWindow = 30 * time.Second

type ToggleResult struct {
	DateStatus   string
	EventLogID   string
	UndoDeadline time.Time
}

// ToggleUnavailable marks a participant unavailable for a date and
// eliminates the date. Marking unavailable always eliminates, regardless
// of the date's prior status (viable or reopened).
//
// The returned event log ID is the undo token; it authorizes exactly one
// reversal before UndoDeadline. Any still-live undo tokens the same
// participant holds for the same date are invalidated first, so only the
// newest toggle can be reversed.
func ToggleUnavailable(db *sql.DB, participantID, planDateID string) (*ToggleResult, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var planID string
	err = tx.QueryRow(`SELECT plan_id FROM participant WHERE id = $1`, participantID).Scan(&planID)
	if err == sql.ErrNoRows {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query participant: %w", err)
	}

	dateStatus, datePlanID, err := lockPlanDate(tx, planDateID, now)
	if err != nil {
		return nil, err
	}
	if datePlanID != planID {
		return nil, ErrDateOtherPlan
	}
	if dateStatus == models.DateLocked {
		return nil, ErrDateLocked
	}

	var planStatus string
	err = tx.QueryRow(`SELECT status FROM plan WHERE id = $1`, planID).Scan(&planStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}
	if planStatus != models.PlanActive {
		return nil, ErrPlanNotActive
	}

	// Upsert the mark; the primary key guarantees one row per pair
	_, err = tx.Exec(`
		INSERT INTO availability (participant_id, plan_date_id, status, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (participant_id, plan_date_id)
		DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
	`, participantID, planDateID, models.MarkUnavailable, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert availability: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE plan_date SET status = $1, updated_at = $2 WHERE id = $3
	`, models.DateEliminated, now, planDateID)
	if err != nil {
		return nil, fmt.Errorf("failed to update date status: %w", err)
	}

	// Invalidate older undo tokens for this pair before minting a new one
	_, err = tx.Exec(`
		UPDATE event_log SET undo_deadline = NULL
		WHERE participant_id = $1 AND plan_date_id = $2 AND undo_deadline IS NOT NULL
	`, participantID, planDateID)
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate prior undo tokens: %w", err)
	}

	deadline := now.Add(UndoWindow)
	eventID, err := AppendEvent(tx, planID, &participantID, &planDateID,
		models.DateMarkedUnavailable{PlanDateID: planDateID}, &deadline, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ToggleResult{
		DateStatus:   models.DateEliminated,
		EventLogID:   eventID,
		UndoDeadline: deadline,
	}, nil
}

// lockPlanDate writes to the plan_date row as the first statement of a
// transaction. On PostgreSQL this takes the row lock until commit; on
// SQLite it takes the writer lock. Every core mutation of a date starts
// here, which serializes mark mutation + status recomputation per date.
func lockPlanDate(tx *sql.Tx, planDateID string, now time.Time) (status, planID string, err error) {
	res, err := tx.Exec(`UPDATE plan_date SET updated_at = $1 WHERE id = $2`, now, planDateID)
	if err != nil {
		return "", "", fmt.Errorf("failed to lock plan date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", "", fmt.Errorf("failed to read lock result: %w", err)
	}
	if n == 0 {
		return "", "", ErrDateNotFound
	}

	err = tx.QueryRow(`SELECT status, plan_id FROM plan_date WHERE id = $1`, planDateID).Scan(&status, &planID)
	if err != nil {
		return "", "", fmt.Errorf("failed to query plan date: %w", err)
	}
	return status, planID, nil
}

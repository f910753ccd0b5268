// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/ruleout/models"
)

type ReopenResult struct {
	Date               models.PlanDate
	ReopenVersion      int
	ReviewFlaggedCount int
}

// ForceReopen clears every availability mark on an eliminated date and
// returns it to consideration as reopened, under the next reopen version.
// All participants who had already marked themselves done are flagged for
// review, so stale sign-offs surface instead of carrying forward.
//
// Only an eliminated date can be reopened. Ownership of the plan is the
// caller's responsibility (the handler validates the owner key).
func ForceReopen(db *sql.DB, planID, planDateID string) (*ReopenResult, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var planStatus string
	err = tx.QueryRow(`SELECT status FROM plan WHERE id = $1`, planID).Scan(&planStatus)
	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}
	if planStatus != models.PlanActive {
		return nil, ErrPlanNotActive
	}

	dateStatus, datePlanID, err := lockPlanDate(tx, planDateID, now)
	if err != nil {
		return nil, err
	}
	// A date outside the plan is indistinguishable from a missing one
	if datePlanID != planID {
		return nil, ErrDateNotFound
	}
	if dateStatus != models.DateEliminated {
		return nil, ErrDateNotEliminated
	}

	// Clean slate: the reopened date starts with no marks at all
	_, err = tx.Exec(`DELETE FROM availability WHERE plan_date_id = $1`, planDateID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear availability marks: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE plan_date
		SET status = $1, reopen_version = reopen_version + 1, updated_at = $2
		WHERE id = $3
	`, models.DateReopened, now, planDateID)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen date: %w", err)
	}

	res, err := tx.Exec(`
		UPDATE participant SET needs_review = TRUE, updated_at = $1
		WHERE plan_id = $2 AND is_done = TRUE
	`, now, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to flag participants for review: %w", err)
	}
	flagged, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read flagged count: %w", err)
	}

	var date models.PlanDate
	err = tx.QueryRow(`
		SELECT id, plan_id, date, status, reopen_version, created_at
		FROM plan_date WHERE id = $1
	`, planDateID).Scan(&date.ID, &date.PlanID, &date.Date, &date.Status, &date.ReopenVersion, &date.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read reopened date: %w", err)
	}

	_, err = AppendEvent(tx, planID, nil, &planDateID,
		models.DateForceReopened{PlanDateID: planDateID, ReopenVersion: date.ReopenVersion}, nil, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ReopenResult{
		Date:               date,
		ReopenVersion:      date.ReopenVersion,
		ReviewFlaggedCount: int(flagged),
	}, nil
}

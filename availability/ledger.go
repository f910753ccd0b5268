// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ruleout/models"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// AppendEvent writes one entry to the append-only ledger and returns its
// ID. Entries are never deleted; the only mutation ever applied afterward
// is nulling undo_deadline. An entry created with a deadline doubles as an
// undo token until that deadline is consumed, swept, or invalidated.
func AppendEvent(q Execer, planID string, participantID, planDateID *string, payload models.EventPayload, undoDeadline *time.Time, now time.Time) (string, error) {
	metadata, err := models.MarshalPayload(payload)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = q.Exec(`
		INSERT INTO event_log (id, plan_id, participant_id, plan_date_id, event_type, metadata, undo_deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, planID, participantID, planDateID, payload.EventType(), metadata, undoDeadline, now)
	if err != nil {
		return "", fmt.Errorf("failed to append %s event: %w", payload.EventType(), err)
	}

	return id, nil
}

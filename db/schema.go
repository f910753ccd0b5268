// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is dialect-neutral: it runs unchanged on PostgreSQL (lib/pq)
// and SQLite (modernc.org/sqlite). Column defaults use CURRENT_TIMESTAMP
// and handlers always bind explicit timestamps.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Plans
CREATE TABLE IF NOT EXISTS plan (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    share_slug TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'locked', 'deleted')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_plan_share_slug ON plan(share_slug);
CREATE INDEX IF NOT EXISTS idx_plan_status ON plan(status);

-- Candidate dates
CREATE TABLE IF NOT EXISTS plan_date (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL REFERENCES plan(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'viable' CHECK (status IN ('viable', 'eliminated', 'locked', 'reopened')),
    reopen_version INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (plan_id, date)
);

CREATE INDEX IF NOT EXISTS idx_plan_date_plan_id ON plan_date(plan_id);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL REFERENCES plan(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    is_done BOOLEAN NOT NULL DEFAULT FALSE,
    needs_review BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (plan_id, display_name)
);

CREATE INDEX IF NOT EXISTS idx_participant_plan_id ON participant(plan_id);

-- Availability marks: at most one row per (participant, date)
CREATE TABLE IF NOT EXISTS availability (
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    plan_date_id TEXT NOT NULL REFERENCES plan_date(id) ON DELETE CASCADE,
    status TEXT NOT NULL CHECK (status IN ('available', 'unavailable')),
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (participant_id, plan_date_id)
);

CREATE INDEX IF NOT EXISTS idx_availability_plan_date ON availability(plan_date_id, status);

-- Event log: append-only. Rows are never deleted; only undo_deadline is
-- ever set to NULL after the fact.
CREATE TABLE IF NOT EXISTS event_log (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL REFERENCES plan(id) ON DELETE CASCADE,
    participant_id TEXT REFERENCES participant(id) ON DELETE CASCADE,
    plan_date_id TEXT,
    event_type TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '{}',
    undo_deadline TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_event_log_plan_id ON event_log(plan_id);
CREATE INDEX IF NOT EXISTS idx_event_log_participant_date ON event_log(participant_id, plan_date_id);
`

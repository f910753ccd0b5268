// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL sticks to the dialect shared by PostgreSQL and SQLite so the same
schema serves both drivers.

# Tables

The schema includes:

  - plan: Plan metadata and lifecycle state
  - plan_date: Candidate dates with elimination status and reopen counter
  - participant: Named members of a plan with done/review flags
  - availability: One mark per participant per date
  - event_log: Append-only ledger; also stores undo deadlines

# Relationships

	plan 1──* plan_date
	plan 1──* participant
	participant 1──* availability
	plan_date 1──* availability
	plan 1──* event_log

All foreign keys use ON DELETE CASCADE.

# Indexes

Performance indexes on:

  - plan.share_slug (unique)
  - plan_date.(plan_id, date) (unique)
  - participant.(plan_id, display_name) (unique)
  - event_log.plan_id
  - event_log.(participant_id, plan_date_id)
*/
package db

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package availability implements the core elimination state machine.

Every mutation runs in its own transaction, and every transaction touches
the plan_date row first (an UPDATE on updated_at). On PostgreSQL that takes
the row lock; on SQLite it takes the writer lock. Either way, operations on
the same date serialize, which is what keeps the mark count and the date
status in agreement.

# Toggle

ToggleUnavailable records a participant's unavailable mark and eliminates
the date:

	res, err := availability.ToggleUnavailable(db, participantID, planDateID)

Any unavailable mark eliminates - the date goes to "eliminated" no matter
how many other marks exist. The result carries an event log ID and a
deadline; together they are a one-shot undo token valid for UndoWindow.

# Undo

Undo reverts a mark while its token is live:

	res, err := availability.Undo(db, participantID, eventLogID)

Consumption is a conditional UPDATE that nulls the deadline; zero rows
affected means the token was already spent or expired. The date returns to
"viable" only when no unavailable marks remain.

# Force Reopen

ForceReopen is the owner's override for an eliminated date:

	res, err := availability.ForceReopen(db, planID, planDateID)

It wipes all unavailable marks on the date, bumps reopen_version, and flags
every done participant for review. Participants who had marked the date get
no special treatment - their marks are simply gone.

# Done Sweep

ToggleDone flips a participant's done flag. Going done also sweeps: every
live undo deadline belonging to that participant is nulled, closing the
undo window early. The sweep runs after the flag commit and its failure is
logged, not returned.

# Event Ledger

AppendEvent writes one row to the append-only event_log. It accepts any
Execer (a *sql.DB or *sql.Tx) so callers can append inside or outside a
transaction.
*/
package availability

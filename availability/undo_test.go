// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ruleout/availability"
	"github.com/danielhkuo/ruleout/models"
	"github.com/danielhkuo/ruleout/testutil"
)

func TestUndo_RestoresViableWhenLastMarkRemoved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	toggle, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)

	res, err := availability.Undo(db, pid, toggle.EventLogID)
	require.NoError(t, err)
	assert.Equal(t, models.DateViable, res.DateStatus)

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM plan_date WHERE id = $1`, dateID).Scan(&status))
	assert.Equal(t, models.DateViable, status)

	// The ledger entry survives consumption, deadline nulled
	var deadline sql.NullTime
	require.NoError(t, db.QueryRow(
		`SELECT undo_deadline FROM event_log WHERE id = $1`, toggle.EventLogID).Scan(&deadline))
	assert.False(t, deadline.Valid)
}

func TestUndo_StaysEliminatedWhileOtherMarksRemain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	alice := testutil.CreateTestParticipant(t, db, planID, "Alice")
	bob := testutil.CreateTestParticipant(t, db, planID, "Bob")

	aliceToggle, err := availability.ToggleUnavailable(db, alice, dateID)
	require.NoError(t, err)
	bobToggle, err := availability.ToggleUnavailable(db, bob, dateID)
	require.NoError(t, err)

	// Alice backs out; Bob's mark still holds the date down
	res, err := availability.Undo(db, alice, aliceToggle.EventLogID)
	require.NoError(t, err)
	assert.Equal(t, models.DateEliminated, res.DateStatus)

	// Bob backs out too; now the date comes back
	res, err = availability.Undo(db, bob, bobToggle.EventLogID)
	require.NoError(t, err)
	assert.Equal(t, models.DateViable, res.DateStatus)
}

func TestUndo_OneShot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	toggle, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)

	_, err = availability.Undo(db, pid, toggle.EventLogID)
	require.NoError(t, err)

	// The token is spent
	_, err = availability.Undo(db, pid, toggle.EventLogID)
	assert.ErrorIs(t, err, availability.ErrUndoExpired)
}

func TestUndo_WrongActor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	alice := testutil.CreateTestParticipant(t, db, planID, "Alice")
	bob := testutil.CreateTestParticipant(t, db, planID, "Bob")

	toggle, err := availability.ToggleUnavailable(db, alice, dateID)
	require.NoError(t, err)

	_, err = availability.Undo(db, bob, toggle.EventLogID)
	assert.ErrorIs(t, err, availability.ErrUndoNotAllowed)

	// Alice's token is still live afterward
	res, err := availability.Undo(db, alice, toggle.EventLogID)
	require.NoError(t, err)
	assert.Equal(t, models.DateViable, res.DateStatus)
}

func TestUndo_ExpiredWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	// A real mark whose minted token has already lapsed
	_, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)
	past := time.Now().UTC().Add(-time.Minute)
	eventID := testutil.InsertTestEvent(t, db, planID, pid, dateID, &past)

	_, err = availability.Undo(db, pid, eventID)
	assert.ErrorIs(t, err, availability.ErrUndoExpired)

	// The failed undo changed nothing
	var markStatus, dateStatus string
	require.NoError(t, db.QueryRow(
		`SELECT status FROM availability WHERE participant_id = $1 AND plan_date_id = $2`,
		pid, dateID).Scan(&markStatus))
	assert.Equal(t, models.MarkUnavailable, markStatus)
	require.NoError(t, db.QueryRow(`SELECT status FROM plan_date WHERE id = $1`, dateID).Scan(&dateStatus))
	assert.Equal(t, models.DateEliminated, dateStatus)
}

func TestUndo_UnknownEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	_, err := availability.Undo(db, pid, "no-such-event")
	assert.ErrorIs(t, err, availability.ErrEventNotFound)
}

func TestUndo_AfterForceReopenLeavesReopened(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	toggle, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)

	_, err = availability.ForceReopen(db, planID, dateID)
	require.NoError(t, err)

	// The token may still be live, but the reopen already cleared the
	// mark; consuming the token must not drag the date back to viable.
	res, err := availability.Undo(db, pid, toggle.EventLogID)
	require.NoError(t, err)
	assert.Equal(t, models.DateReopened, res.DateStatus)

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM plan_date WHERE id = $1`, dateID).Scan(&status))
	assert.Equal(t, models.DateReopened, status)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ruleout/availability"
	"github.com/danielhkuo/ruleout/models"
	"github.com/danielhkuo/ruleout/testutil"
)

func TestToggleDone_FlipsAndSweepsUndoWindows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateA := testutil.AddTestDate(t, db, planID, "2026-03-01")
	dateB := testutil.AddTestDate(t, db, planID, "2026-03-02")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	toggleA, err := availability.ToggleUnavailable(db, pid, dateA)
	require.NoError(t, err)
	toggleB, err := availability.ToggleUnavailable(db, pid, dateB)
	require.NoError(t, err)

	res, err := availability.ToggleDone(db, pid)
	require.NoError(t, err)
	assert.True(t, res.IsDone)
	assert.Equal(t, 2, res.SweptEntries)

	// Both undo tokens died with the sweep
	_, err = availability.Undo(db, pid, toggleA.EventLogID)
	assert.ErrorIs(t, err, availability.ErrUndoExpired)
	_, err = availability.Undo(db, pid, toggleB.EventLogID)
	assert.ErrorIs(t, err, availability.ErrUndoExpired)
}

func TestToggleDone_SweepLeavesOthersAlone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	alice := testutil.CreateTestParticipant(t, db, planID, "Alice")
	bob := testutil.CreateTestParticipant(t, db, planID, "Bob")

	_, err := availability.ToggleUnavailable(db, alice, dateID)
	require.NoError(t, err)
	bobToggle, err := availability.ToggleUnavailable(db, bob, dateID)
	require.NoError(t, err)

	res, err := availability.ToggleDone(db, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SweptEntries)

	// Bob's window is untouched
	_, err = availability.Undo(db, bob, bobToggle.EventLogID)
	require.NoError(t, err)
}

func TestToggleDone_TogglingBackDoesNotResurrectWindows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	toggle, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)

	_, err = availability.ToggleDone(db, pid)
	require.NoError(t, err)

	res, err := availability.ToggleDone(db, pid)
	require.NoError(t, err)
	assert.False(t, res.IsDone)
	assert.Equal(t, 0, res.SweptEntries)

	// The swept token stays dead
	_, err = availability.Undo(db, pid, toggle.EventLogID)
	assert.ErrorIs(t, err, availability.ErrUndoExpired)
}

func TestToggleDone_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	lockedPlanID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanLocked)
	lockedPID := testutil.CreateTestParticipant(t, db, lockedPlanID, "Alice")

	_, err := availability.ToggleDone(db, "nope")
	assert.ErrorIs(t, err, availability.ErrParticipantNotFound)

	_, err = availability.ToggleDone(db, lockedPID)
	assert.ErrorIs(t, err, availability.ErrPlanNotActive)
}

func TestClearNeedsReview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	_, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)
	_, err = availability.ToggleDone(db, pid)
	require.NoError(t, err)
	_, err = availability.ForceReopen(db, planID, dateID)
	require.NoError(t, err)

	var needsReview bool
	require.NoError(t, db.QueryRow(`SELECT needs_review FROM participant WHERE id = $1`, pid).Scan(&needsReview))
	require.True(t, needsReview)

	require.NoError(t, availability.ClearNeedsReview(db, pid))

	require.NoError(t, db.QueryRow(`SELECT needs_review FROM participant WHERE id = $1`, pid).Scan(&needsReview))
	assert.False(t, needsReview)

	// The done flag is not touched by the acknowledgement
	var isDone bool
	require.NoError(t, db.QueryRow(`SELECT is_done FROM participant WHERE id = $1`, pid).Scan(&isDone))
	assert.True(t, isDone)

	assert.ErrorIs(t, availability.ClearNeedsReview(db, "nope"), availability.ErrParticipantNotFound)
}

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

func TestForceReopen_ClearsMarksAndFlagsDoneParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	alice := testutil.CreateTestParticipant(t, db, planID, "Alice")
	bob := testutil.CreateTestParticipant(t, db, planID, "Bob")
	carol := testutil.CreateTestParticipant(t, db, planID, "Carol")

	_, err := availability.ToggleUnavailable(db, alice, dateID)
	require.NoError(t, err)
	_, err = availability.ToggleUnavailable(db, bob, dateID)
	require.NoError(t, err)

	// Alice and Bob are done before the reopen; Carol is not
	testutil.SetParticipantDone(t, db, alice, true)
	testutil.SetParticipantDone(t, db, bob, true)

	res, err := availability.ForceReopen(db, planID, dateID)
	require.NoError(t, err)

	assert.Equal(t, models.DateReopened, res.Date.Status)
	assert.Equal(t, 1, res.ReopenVersion)
	assert.Equal(t, 2, res.ReviewFlaggedCount)

	// Every mark on the date is gone
	var marks int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM availability WHERE plan_date_id = $1`, dateID).Scan(&marks))
	assert.Equal(t, 0, marks)

	// Done participants carry the review flag; Carol does not
	var needsReview bool
	require.NoError(t, db.QueryRow(`SELECT needs_review FROM participant WHERE id = $1`, alice).Scan(&needsReview))
	assert.True(t, needsReview)
	require.NoError(t, db.QueryRow(`SELECT needs_review FROM participant WHERE id = $1`, carol).Scan(&needsReview))
	assert.False(t, needsReview)
}

func TestForceReopen_VersionIsMonotonic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	for want := 1; want <= 3; want++ {
		_, err := availability.ToggleUnavailable(db, pid, dateID)
		require.NoError(t, err)

		res, err := availability.ForceReopen(db, planID, dateID)
		require.NoError(t, err)
		assert.Equal(t, want, res.ReopenVersion)
	}
}

func TestForceReopen_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	viableDateID := testutil.AddTestDate(t, db, planID, "2026-03-01")

	otherPlanID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	otherDateID := testutil.AddTestDate(t, db, otherPlanID, "2026-03-01")
	testutil.SetTestDateStatus(t, db, otherDateID, models.DateEliminated)

	lockedPlanID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanLocked)
	lockedPlanDateID := testutil.AddTestDate(t, db, lockedPlanID, "2026-03-01")
	testutil.SetTestDateStatus(t, db, lockedPlanDateID, models.DateEliminated)

	reopenedDateID := testutil.AddTestDate(t, db, planID, "2026-03-02")
	testutil.SetTestDateStatus(t, db, reopenedDateID, models.DateReopened)

	lockedDateID := testutil.AddTestDate(t, db, planID, "2026-03-03")
	testutil.SetTestDateStatus(t, db, lockedDateID, models.DateLocked)

	tests := []struct {
		name       string
		planID     string
		planDateID string
		wantErr    error
	}{
		{"unknown plan", "nope", viableDateID, availability.ErrPlanNotFound},
		{"unknown date", planID, "nope", availability.ErrDateNotFound},
		{"date belongs to another plan", planID, otherDateID, availability.ErrDateNotFound},
		{"viable date", planID, viableDateID, availability.ErrDateNotEliminated},
		{"already reopened date", planID, reopenedDateID, availability.ErrDateNotEliminated},
		{"locked date", planID, lockedDateID, availability.ErrDateNotEliminated},
		{"plan not active", lockedPlanID, lockedPlanDateID, availability.ErrPlanNotActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := availability.ForceReopen(db, tt.planID, tt.planDateID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestForceReopen_ThenEliminateAgain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	_, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)

	_, err = availability.ForceReopen(db, planID, dateID)
	require.NoError(t, err)

	// The reopened date is fair game again, and the version sticks
	toggle, err := availability.ToggleUnavailable(db, pid, dateID)
	require.NoError(t, err)
	assert.Equal(t, models.DateEliminated, toggle.DateStatus)

	var version int
	require.NoError(t, db.QueryRow(`SELECT reopen_version FROM plan_date WHERE id = $1`, dateID).Scan(&version))
	assert.Equal(t, 1, version)
}

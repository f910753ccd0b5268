// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/ruleout/models"
	"github.com/danielhkuo/ruleout/testutil"
)

func TestToggleHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAvailabilityHandler(db, cfg)

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	pid := testutil.CreateTestParticipant(t, db, planID, "Alice")

	otherPlanID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	otherDateID := testutil.AddTestDate(t, db, otherPlanID, "2026-03-01")

	t.Run("successful toggle", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/availability/toggle",
			models.ToggleUnavailableRequest{ParticipantID: pid, PlanDateID: dateID}, nil)
		w := httptest.NewRecorder()

		handler.Toggle(w, req)

		testutil.AssertStatus(t, w, 200)

		var resp models.ToggleUnavailableResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.DateStatus != models.DateEliminated {
			t.Errorf("Expected eliminated, got %s", resp.DateStatus)
		}
		if resp.EventLogID == "" {
			t.Error("Expected an undo token")
		}
		if !resp.UndoDeadline.After(time.Now()) {
			t.Error("Expected a future undo deadline")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/availability/toggle",
			models.ToggleUnavailableRequest{ParticipantID: pid}, nil)
		w := httptest.NewRecorder()

		handler.Toggle(w, req)

		testutil.AssertStatus(t, w, 400)
	})

	t.Run("unknown participant", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/availability/toggle",
			models.ToggleUnavailableRequest{ParticipantID: "nope", PlanDateID: dateID}, nil)
		w := httptest.NewRecorder()

		handler.Toggle(w, req)

		testutil.AssertStatus(t, w, 404)
	})

	t.Run("date from another plan", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/availability/toggle",
			models.ToggleUnavailableRequest{ParticipantID: pid, PlanDateID: otherDateID}, nil)
		w := httptest.NewRecorder()

		handler.Toggle(w, req)

		testutil.AssertStatus(t, w, 409)
	})

	t.Run("inactive plan", func(t *testing.T) {
		lockedPlanID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanLocked)
		lockedDateID := testutil.AddTestDate(t, db, lockedPlanID, "2026-03-01")
		lockedPID := testutil.CreateTestParticipant(t, db, lockedPlanID, "Bob")

		req := testutil.MakeRequest("POST", "/availability/toggle",
			models.ToggleUnavailableRequest{ParticipantID: lockedPID, PlanDateID: lockedDateID}, nil)
		w := httptest.NewRecorder()

		handler.Toggle(w, req)

		testutil.AssertStatus(t, w, 410)
	})
}

func TestUndoHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAvailabilityHandler(db, cfg)

	planID, _, _ := testutil.CreateTestPlan(t, db, cfg, models.PlanActive)
	dateID := testutil.AddTestDate(t, db, planID, "2026-03-01")
	alice := testutil.CreateTestParticipant(t, db, planID, "Alice")
	bob := testutil.CreateTestParticipant(t, db, planID, "Bob")

	toggle := func(t *testing.T) string {
		req := testutil.MakeRequest("POST", "/availability/toggle",
			models.ToggleUnavailableRequest{ParticipantID: alice, PlanDateID: dateID}, nil)
		w := httptest.NewRecorder()
		handler.Toggle(w, req)
		testutil.AssertStatus(t, w, 200)

		var resp models.ToggleUnavailableResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.EventLogID
	}

	t.Run("successful undo", func(t *testing.T) {
		token := toggle(t)

		req := testutil.MakeRequest("POST", "/availability/undo",
			models.UndoRequest{ParticipantID: alice, EventLogID: token}, nil)
		w := httptest.NewRecorder()

		handler.Undo(w, req)

		testutil.AssertStatus(t, w, 200)

		var resp models.UndoResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.DateStatus != models.DateViable {
			t.Errorf("Expected viable, got %s", resp.DateStatus)
		}
	})

	t.Run("wrong actor", func(t *testing.T) {
		token := toggle(t)

		req := testutil.MakeRequest("POST", "/availability/undo",
			models.UndoRequest{ParticipantID: bob, EventLogID: token}, nil)
		w := httptest.NewRecorder()

		handler.Undo(w, req)

		testutil.AssertStatus(t, w, 403)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Minute)
		eventID := testutil.InsertTestEvent(t, db, planID, alice, dateID, &past)

		req := testutil.MakeRequest("POST", "/availability/undo",
			models.UndoRequest{ParticipantID: alice, EventLogID: eventID}, nil)
		w := httptest.NewRecorder()

		handler.Undo(w, req)

		testutil.AssertStatus(t, w, 410)
	})

	t.Run("unknown event", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/availability/undo",
			models.UndoRequest{ParticipantID: alice, EventLogID: "nope"}, nil)
		w := httptest.NewRecorder()

		handler.Undo(w, req)

		testutil.AssertStatus(t, w, 404)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/availability/undo",
			models.UndoRequest{ParticipantID: alice}, nil)
		w := httptest.NewRecorder()

		handler.Undo(w, req)

		testutil.AssertStatus(t, w, 400)
	})
}

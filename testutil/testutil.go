// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ruleout/auth"
	"github.com/danielhkuo/ruleout/cliparse"
	"github.com/danielhkuo/ruleout/db"
	"github.com/danielhkuo/ruleout/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. The same DDL runs against PostgreSQL in production; the single
// open connection keeps the memory database alive and serializes writers
// the way the postgres row lock does.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3319,
		DatabaseURL:    ":memory:",
		DatabaseType:   "sqlite",
		OwnerKeySalt:   "test-owner-salt",
		ShareSlugSalt:  "test-slug-salt",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

// CreateTestPlan creates a plan and returns its ID, owner key, and share slug.
// status should be "active", "locked", or "deleted".
func CreateTestPlan(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string) (planID, ownerKey, shareSlug string) {
	t.Helper()

	planID = uuid.NewString()
	ownerKey = auth.GenerateOwnerKey(planID, cfg.OwnerKeySalt)
	shareSlug = auth.GenerateShareSlug(planID, cfg.ShareSlugSalt)

	_, err := conn.Exec(`
		INSERT INTO plan (id, title, share_slug, status, created_at, updated_at)
		VALUES ($1, 'Test Plan', $2, $3, $4, $4)
	`, planID, shareSlug, status, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return planID, ownerKey, shareSlug
}

// AddTestDate adds a candidate date to a plan and returns its ID
func AddTestDate(t *testing.T, conn *sql.DB, planID, date string) string {
	t.Helper()

	dateID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO plan_date (id, plan_id, date, status, reopen_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $5)
	`, dateID, planID, date, models.DateViable, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test date: %v", err)
	}

	return dateID
}

// SetTestDateStatus forces a date's status directly
func SetTestDateStatus(t *testing.T, conn *sql.DB, dateID, status string) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE plan_date SET status = $1 WHERE id = $2`, status, dateID); err != nil {
		t.Fatalf("Failed to set test date status: %v", err)
	}
}

// CreateTestParticipant adds a participant to a plan and returns their ID
func CreateTestParticipant(t *testing.T, conn *sql.DB, planID, displayName string) string {
	t.Helper()

	participantID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO participant (id, plan_id, display_name, is_done, needs_review, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, FALSE, $4, $4)
	`, participantID, planID, displayName, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return participantID
}

// SetParticipantDone marks a participant done directly
func SetParticipantDone(t *testing.T, conn *sql.DB, participantID string, done bool) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE participant SET is_done = $1 WHERE id = $2`, done, participantID); err != nil {
		t.Fatalf("Failed to set participant done: %v", err)
	}
}

// InsertTestEvent writes an event log row directly, bypassing the engine.
// Useful for crafting entries with expired or already-consumed deadlines.
func InsertTestEvent(t *testing.T, conn *sql.DB, planID, participantID, planDateID string, deadline *time.Time) string {
	t.Helper()

	eventID := uuid.NewString()
	metadata, _ := json.Marshal(models.DateMarkedUnavailable{PlanDateID: planDateID})
	_, err := conn.Exec(`
		INSERT INTO event_log (id, plan_id, participant_id, plan_date_id, event_type, metadata, undo_deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, eventID, planID, participantID, planDateID, models.EventDateMarkedUnavailable, string(metadata), deadline, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to insert test event: %v", err)
	}

	return eventID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

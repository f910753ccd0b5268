// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Plan status constants
const (
	PlanActive  = "active"
	PlanLocked  = "locked"
	PlanDeleted = "deleted"
)

// Plan date status constants
const (
	DateViable     = "viable"
	DateEliminated = "eliminated"
	DateLocked     = "locked"
	DateReopened   = "reopened"
)

// Availability mark status constants
const (
	MarkAvailable   = "available"
	MarkUnavailable = "unavailable"
)

// Request types

type CreatePlanRequest struct {
	Title string   `json:"title" validate:"required,max=100"`
	Dates []string `json:"dates" validate:"required,min=1,max=30,unique,dive,datetime=2006-01-02"`
}

type JoinPlanRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=50"`
}

type UpdatePlanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=locked deleted"`
}

type ReopenDateRequest struct {
	PlanDateID string `json:"plan_date_id" validate:"required"`
}

type ToggleUnavailableRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	PlanDateID    string `json:"plan_date_id" validate:"required"`
}

type UndoRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	EventLogID    string `json:"event_log_id" validate:"required"`
}

// Response types

type CreatePlanResponse struct {
	PlanID    string `json:"plan_id"`
	OwnerKey  string `json:"owner_key"`
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type JoinPlanResponse struct {
	Participant Participant `json:"participant"`
}

type ToggleUnavailableResponse struct {
	DateStatus   string    `json:"date_status"`
	EventLogID   string    `json:"event_log_id"`
	UndoDeadline time.Time `json:"undo_deadline"`
}

type UndoResponse struct {
	DateStatus string `json:"date_status"`
}

type ReopenDateResponse struct {
	Date               PlanDate `json:"date"`
	ReopenVersion      int      `json:"reopen_version"`
	ReviewFlaggedCount int      `json:"review_flagged_count"`
}

type ToggleDoneResponse struct {
	IsDone       bool `json:"is_done"`
	SweptEntries int  `json:"swept_entries"`
}

type PlanViewResponse struct {
	Plan           Plan               `json:"plan"`
	Dates          []PlanDate         `json:"dates"`
	Participants   []Participant      `json:"participants"`
	Summary        []DateSummary      `json:"availability_summary"`
	DoneCount      int                `json:"done_count"`
	MyAvailability []AvailabilityMark `json:"my_availability,omitempty"`
	NeedsReview    *bool              `json:"needs_review,omitempty"`
}

type ManagePlanResponse struct {
	Plan         Plan               `json:"plan"`
	Dates        []PlanDate         `json:"dates"`
	Participants []Participant      `json:"participants"`
	Matrix       []AvailabilityMark `json:"matrix"`
}

// Domain types

type Plan struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ShareSlug string    `json:"share_slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type PlanDate struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"plan_id"`
	Date          string    `json:"date"`
	Status        string    `json:"status"`
	ReopenVersion int       `json:"reopen_version"`
	CreatedAt     time.Time `json:"created_at"`
}

type Participant struct {
	ID          string    `json:"id"`
	PlanID      string    `json:"plan_id"`
	DisplayName string    `json:"display_name"`
	IsDone      bool      `json:"is_done"`
	NeedsReview bool      `json:"needs_review"`
	CreatedAt   time.Time `json:"created_at"`
}

type AvailabilityMark struct {
	ParticipantID string    `json:"participant_id"`
	PlanDateID    string    `json:"plan_date_id"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DateSummary struct {
	PlanDateID       string           `json:"plan_date_id"`
	Date             string           `json:"date"`
	Status           string           `json:"status"`
	ReopenVersion    int              `json:"reopen_version"`
	UnavailableCount int              `json:"unavailable_count"`
	UnavailableBy    []ParticipantRef `json:"unavailable_by"`
}

type ParticipantRef struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
}

type EventLogEntry struct {
	ID            string     `json:"id"`
	PlanID        string     `json:"plan_id"`
	ParticipantID *string    `json:"participant_id,omitempty"`
	PlanDateID    *string    `json:"plan_date_id,omitempty"`
	EventType     string     `json:"event_type"`
	Metadata      string     `json:"metadata"`
	UndoDeadline  *time.Time `json:"undo_deadline,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

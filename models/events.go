// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
)

// Event type constants
const (
	EventPlanCreated           = "plan_created"
	EventParticipantJoined     = "participant_joined"
	EventDateMarkedUnavailable = "date_marked_unavailable"
	EventDateForceReopened     = "date_force_reopened"
	EventParticipantDone       = "participant_done"
)

// EventPayload is the typed metadata carried by an event log entry.
// Each event type has its own payload shape; the ledger stores the
// serialized form in the metadata column.
type EventPayload interface {
	EventType() string
}

type PlanCreated struct {
	Title     string `json:"title"`
	DateCount int    `json:"date_count"`
}

func (PlanCreated) EventType() string { return EventPlanCreated }

type ParticipantJoined struct {
	DisplayName string `json:"display_name"`
}

func (ParticipantJoined) EventType() string { return EventParticipantJoined }

type DateMarkedUnavailable struct {
	PlanDateID string `json:"plan_date_id"`
}

func (DateMarkedUnavailable) EventType() string { return EventDateMarkedUnavailable }

type DateForceReopened struct {
	PlanDateID    string `json:"plan_date_id"`
	ReopenVersion int    `json:"reopen_version"`
}

func (DateForceReopened) EventType() string { return EventDateForceReopened }

type ParticipantDone struct {
	IsDone bool `json:"is_done"`
}

func (ParticipantDone) EventType() string { return EventParticipantDone }

// MarshalPayload serializes an event payload for the metadata column.
func MarshalPayload(p EventPayload) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s payload: %w", p.EventType(), err)
	}
	return string(b), nil
}

// DecodePayload deserializes a metadata column back into the payload
// shape for the given event type.
func DecodePayload(eventType, metadata string) (EventPayload, error) {
	var p EventPayload
	switch eventType {
	case EventPlanCreated:
		p = &PlanCreated{}
	case EventParticipantJoined:
		p = &ParticipantJoined{}
	case EventDateMarkedUnavailable:
		p = &DateMarkedUnavailable{}
	case EventDateForceReopened:
		p = &DateForceReopened{}
	case EventParticipantDone:
		p = &ParticipantDone{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	if err := json.Unmarshal([]byte(metadata), p); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", eventType, err)
	}
	return p, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package availability

import "errors"

// Typed errors raised by the elimination engine. Handlers map these to
// HTTP status codes; anything else is an internal failure.
var (
	// Not found
	ErrPlanNotFound        = errors.New("plan not found")
	ErrDateNotFound        = errors.New("date not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrEventNotFound       = errors.New("event not found")

	// State conflicts
	ErrDateOtherPlan      = errors.New("date does not belong to this plan")
	ErrDateLocked         = errors.New("this date is locked")
	ErrPlanNotActive      = errors.New("plan is no longer active")
	ErrDateNotEliminated  = errors.New("date is not eliminated")

	// Forbidden
	ErrUndoNotAllowed = errors.New("you cannot undo this action")

	// Expired
	ErrUndoExpired = errors.New("undo window has expired")
)

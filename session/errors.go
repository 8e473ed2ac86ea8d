/*
errors.go - Centralized error types for session orchestration

PURPOSE:
  All session error types in one place for consistency and
  discoverability. The engine itself is a total function and never
  returns business errors; every recoverable error in this system
  belongs to the orchestration around it.

USAGE:
  HTTP handlers classify with the helpers:

    if session.IsClientError(err) { respond 409 }
    if session.IsNotFound(err)    { respond 404 }
*/
package session

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSessionNotFound is returned when a referenced session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrWorkerNotFound is returned when a referenced worker doesn't exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrAlreadyClockedIn is returned when a worker with an open session
	// tries to clock in again.
	ErrAlreadyClockedIn = errors.New("worker already clocked in")

	// ErrNotClockedIn is returned when clocking out without an open session.
	ErrNotClockedIn = errors.New("worker has no open session")

	// ErrSessionIncomplete is returned when an operation requires a
	// completed session (e.g. recomputing a breakdown).
	ErrSessionIncomplete = errors.New("session not yet clocked out")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OpenSessionError reports the open session blocking a clock-in.
type OpenSessionError struct {
	WorkerID  string
	SessionID string
	ClockIn   time.Time
}

func (e *OpenSessionError) Error() string {
	return fmt.Sprintf("worker %s already clocked in at %s (session %s)",
		e.WorkerID, e.ClockIn.Format(time.RFC3339), e.SessionID)
}

func (e *OpenSessionError) Unwrap() error { return ErrAlreadyClockedIn }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or state, rather than a store failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNotClockedIn) ||
		errors.Is(err, ErrSessionIncomplete)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrWorkerNotFound)
}

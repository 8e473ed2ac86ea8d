// Package session implements clock-in/clock-out orchestration around the
// overtime engine: session records, same-day minute aggregation, and
// monthly reporting.
package session

import (
	"time"

	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// SESSION RECORD
// =============================================================================

// Record is a persisted work session. ClockOut is nil while the session
// is in progress; Breakdown is set when the session is completed and
// priced.
type Record struct {
	ID       string
	WorkerID string

	ClockIn  time.Time
	ClockOut *time.Time

	// HolidayOverride forces public_holiday classification for this
	// session regardless of the calendar.
	HolidayOverride bool

	// Outstation marks an overnight away-from-base shift.
	Outstation bool

	// Address is the human-readable clock-in location, resolved by the
	// configured Geocoder. Empty when no geocoder is configured.
	Address string

	Breakdown *engine.Breakdown

	CreatedAt time.Time
}

// Completed reports whether the session has been clocked out.
func (r *Record) Completed() bool { return r.ClockOut != nil }

// WorkedMinutes returns the whole minutes between clock-in and clock-out,
// zero while in progress or when clock-out is not after clock-in.
func (r *Record) WorkedMinutes() engine.Minutes {
	if r.ClockOut == nil {
		return 0
	}
	return engine.Session{Start: r.ClockIn, End: *r.ClockOut}.ElapsedMinutes()
}

// DayKey returns the calendar day this session belongs to. A session is
// attributed to its clock-in date, even when it crosses midnight.
func (r *Record) DayKey() string { return engine.DayKey(r.ClockIn) }

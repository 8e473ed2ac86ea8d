/*
service.go - Clock-in/clock-out orchestration

PURPOSE:
  The stateful shell around the pure overtime engine. The service owns
  the two contracts the engine deliberately does not:

  1. Cumulative minutes: the engine takes "minutes already worked
     earlier today" as a precomputed integer. The service computes it by
     summing the worker's completed same-day sessions from the store,
     BEFORE the engine is invoked. The engine never waits or retries.

  2. Session lifecycle: one open session per worker, clock-out prices
     the session exactly once, breakdowns are recomputable idempotently.

REQUEST FLOW (clock-out):
  1. Load the worker's open session (ErrNotClockedIn if none)
  2. Sum completed same-day minutes
  3. engine.Evaluate - pure, no I/O
  4. Persist the completed, priced record

SEE ALSO:
  - engine/engine.go: The pure computation invoked by this service
  - store.go: The persistence interface
*/
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	Store    Store
	Engine   *engine.Engine
	Geocoder Geocoder

	// Now is the clock used when a request carries no explicit instant.
	// Overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(store Store, eng *engine.Engine, geo Geocoder) *Service {
	if geo == nil {
		geo = NoopGeocoder{}
	}
	return &Service{Store: store, Engine: eng, Geocoder: geo, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// =============================================================================
// CLOCK IN / CLOCK OUT
// =============================================================================

// ClockInOptions carries the optional context of a clock-in.
type ClockInOptions struct {
	At              time.Time // zero = now
	Outstation      bool
	HolidayOverride bool
	Lat, Lng        *float64 // both set = resolve address via Geocoder
}

// ClockIn opens a new session for the worker. Fails with
// ErrAlreadyClockedIn (wrapped in OpenSessionError) if one is open.
func (s *Service) ClockIn(ctx context.Context, workerID string, opts ClockInOptions) (Record, error) {
	open, err := s.Store.Open(ctx, workerID)
	if err != nil {
		return Record{}, fmt.Errorf("checking open session: %w", err)
	}
	if open != nil {
		return Record{}, &OpenSessionError{
			WorkerID:  workerID,
			SessionID: open.ID,
			ClockIn:   open.ClockIn,
		}
	}

	at := opts.At
	if at.IsZero() {
		at = s.now()
	}
	// Instants are stored in UTC so day attribution and same-day lookups
	// agree regardless of the caller's zone.
	at = at.UTC()

	r := Record{
		ID:              uuid.NewString(),
		WorkerID:        workerID,
		ClockIn:         at,
		HolidayOverride: opts.HolidayOverride,
		Outstation:      opts.Outstation,
		CreatedAt:       s.now(),
	}

	if opts.Lat != nil && opts.Lng != nil {
		// Address resolution is best-effort; a failed lookup never
		// blocks a clock-in.
		if addr, err := s.Geocoder.ReverseGeocode(ctx, *opts.Lat, *opts.Lng); err == nil {
			r.Address = addr
		}
	}

	if err := s.Store.Insert(ctx, r); err != nil {
		return Record{}, fmt.Errorf("saving session: %w", err)
	}
	return r, nil
}

// ClockOut completes the worker's open session: aggregates completed
// same-day minutes, prices the session through the engine, and persists
// the result. at zero means now.
func (s *Service) ClockOut(ctx context.Context, workerID string, at time.Time) (Record, error) {
	open, err := s.Store.Open(ctx, workerID)
	if err != nil {
		return Record{}, fmt.Errorf("checking open session: %w", err)
	}
	if open == nil {
		return Record{}, ErrNotClockedIn
	}

	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()

	before, err := s.minutesBefore(ctx, workerID, open.ClockIn, open.ID)
	if err != nil {
		return Record{}, err
	}

	b := s.Engine.Evaluate(engine.Session{
		Start:           open.ClockIn,
		End:             at,
		HolidayOverride: open.HolidayOverride,
		Outstation:      open.Outstation,
		MinutesBefore:   before,
	})

	r := *open
	r.ClockOut = &at
	r.Breakdown = &b
	if err := s.Store.Update(ctx, r); err != nil {
		return Record{}, fmt.Errorf("completing session: %w", err)
	}
	return r, nil
}

// Recompute re-prices a completed session from its stored inputs without
// persisting. Identical inputs always yield an identical breakdown.
func (s *Service) Recompute(ctx context.Context, sessionID string) (engine.Breakdown, error) {
	r, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return engine.Breakdown{}, err
	}
	if !r.Completed() {
		return engine.Breakdown{}, ErrSessionIncomplete
	}

	before, err := s.minutesBefore(ctx, r.WorkerID, r.ClockIn, r.ID)
	if err != nil {
		return engine.Breakdown{}, err
	}

	return s.Engine.Evaluate(engine.Session{
		Start:           r.ClockIn,
		End:             *r.ClockOut,
		HolidayOverride: r.HolidayOverride,
		Outstation:      r.Outstation,
		MinutesBefore:   before,
	}), nil
}

// minutesBefore sums the worker's completed same-day sessions that
// clocked in before ref, excluding excludeID. This aggregation completes
// before the engine runs; the engine itself never queries the store.
func (s *Service) minutesBefore(ctx context.Context, workerID string, ref time.Time, excludeID string) (engine.Minutes, error) {
	completed, err := s.Store.CompletedOn(ctx, workerID, ref)
	if err != nil {
		return 0, fmt.Errorf("loading same-day sessions: %w", err)
	}
	var total engine.Minutes
	for _, c := range completed {
		if c.ID == excludeID || !c.ClockIn.Before(ref) {
			continue
		}
		total += c.WorkedMinutes()
	}
	return total, nil
}

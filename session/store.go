/*
store.go - Persistence interface for session records

PURPOSE:
  Defines the interface between the orchestration layer and the
  database. The overtime engine itself never touches a store - it is
  pure - so everything stateful about sessions lives behind this
  interface.

KEY QUERIES:
  Open():        The worker's in-progress session, if any (at most one)
  CompletedOn(): Completed same-day sessions - the source of the
                 cumulative-minutes input to the engine
  ListRange():   Sessions in a date range, for monthly reporting

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - session/store/memory.go: In-memory for testing

SEE ALSO:
  - service.go: The orchestration using this interface
*/
package session

import (
	"context"
	"time"
)

// =============================================================================
// STORE - Interface for session persistence
// =============================================================================

// Store persists session records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Insert persists a new (open) session. A worker has at most one
	// open session; the service enforces this via Open().
	Insert(ctx context.Context, r Record) error

	// Update replaces a session record, typically to set clock-out and
	// the priced breakdown.
	Update(ctx context.Context, r Record) error

	// Get returns a session by ID, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Open returns the worker's in-progress session, or nil if none.
	Open(ctx context.Context, workerID string) (*Record, error)

	// CompletedOn returns the worker's completed sessions attributed to
	// the given calendar day, ordered by clock-in.
	CompletedOn(ctx context.Context, workerID string, day time.Time) ([]Record, error)

	// ListRange returns the worker's sessions with clock-in in
	// [from, to), ordered by clock-in.
	ListRange(ctx context.Context, workerID string, from, to time.Time) ([]Record, error)
}

// =============================================================================
// GEOCODER - External reverse-geocoding collaborator
// =============================================================================

// Geocoder resolves coordinates to a human-readable address. It is an
// external collaborator; failures are non-fatal (a session without an
// address is still valid).
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// NoopGeocoder is used when no geocoding backend is configured.
type NoopGeocoder struct{}

func (NoopGeocoder) ReverseGeocode(context.Context, float64, float64) (string, error) {
	return "", nil
}

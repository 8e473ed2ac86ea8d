/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements session persistence (session.Store) and holiday calendar
  persistence using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  session.Store: Session record persistence

KEY TABLES:
  sessions: One row per clock-in, completed rows carry the priced
            breakdown as JSON
  holidays: The maintained public-holiday date set

INDEXES:
  - idx_sessions_worker_day:  Same-day aggregation (hot path - fuels the
    engine's cumulative-minutes input)
  - idx_unique_open_session:  Enforces at most one open session per worker

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/overtime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := session.NewService(store, eng, nil)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - session/store.go: Interface definitions
  - session/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/session"
)

// Store implements session.Store and holiday persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ session.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		clock_in TEXT NOT NULL,
		clock_out TEXT,
		day_key TEXT NOT NULL,
		holiday_override INTEGER NOT NULL DEFAULT 0,
		outstation INTEGER NOT NULL DEFAULT 0,
		address TEXT NOT NULL DEFAULT '',
		breakdown_json TEXT,
		created_at TEXT NOT NULL
	);

	-- Same-day aggregation: the cumulative-minutes hot path
	CREATE INDEX IF NOT EXISTS idx_sessions_worker_day
		ON sessions(worker_id, day_key);
	CREATE INDEX IF NOT EXISTS idx_sessions_worker_clock_in
		ON sessions(worker_id, clock_in);

	-- A worker can have at most one in-progress session
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_open_session
		ON sessions(worker_id)
		WHERE clock_out IS NULL;

	CREATE TABLE IF NOT EXISTS holidays (
		day TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SESSION STORE
// =============================================================================

func (s *Store) Insert(ctx context.Context, r session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clockOut, breakdown, err := completedColumns(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions
			(id, worker_id, clock_in, clock_out, day_key, holiday_override,
			 outstation, address, breakdown_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.WorkerID, r.ClockIn.UTC().Format(time.RFC3339Nano), clockOut,
		r.DayKey(), boolToInt(r.HolidayOverride), boolToInt(r.Outstation),
		r.Address, breakdown, r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, r session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clockOut, breakdown, err := completedColumns(r)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET clock_out = ?, holiday_override = ?, outstation = ?,
		    address = ?, breakdown_json = ?
		WHERE id = ?`,
		clockOut, boolToInt(r.HolidayOverride), boolToInt(r.Outstation),
		r.Address, breakdown, r.ID)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectSessions+` WHERE id = ?`, id)
	r, err := scanSession(row)
	if err == sql.ErrNoRows {
		return session.Record{}, session.ErrSessionNotFound
	}
	return r, err
}

func (s *Store) Open(ctx context.Context, workerID string) (*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		selectSessions+` WHERE worker_id = ? AND clock_out IS NULL`, workerID)
	r, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CompletedOn(ctx context.Context, workerID string, day time.Time) ([]session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectSessions+`
		WHERE worker_id = ? AND day_key = ? AND clock_out IS NOT NULL
		ORDER BY clock_in`,
		workerID, engine.DayKey(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (s *Store) ListRange(ctx context.Context, workerID string, from, to time.Time) ([]session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		selectSessions+`
		WHERE worker_id = ? AND clock_in >= ? AND clock_in < ?
		ORDER BY clock_in`,
		workerID,
		from.UTC().Format(time.RFC3339Nano),
		to.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

const selectSessions = `
	SELECT id, worker_id, clock_in, clock_out, holiday_override,
	       outstation, address, breakdown_json, created_at
	FROM sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (session.Record, error) {
	var (
		r               session.Record
		clockIn         string
		clockOut        sql.NullString
		holidayOverride int
		outstation      int
		breakdown       sql.NullString
		createdAt       string
	)
	err := row.Scan(&r.ID, &r.WorkerID, &clockIn, &clockOut,
		&holidayOverride, &outstation, &r.Address, &breakdown, &createdAt)
	if err != nil {
		return session.Record{}, err
	}

	if r.ClockIn, err = time.Parse(time.RFC3339Nano, clockIn); err != nil {
		return session.Record{}, fmt.Errorf("parsing clock_in: %w", err)
	}
	if clockOut.Valid {
		t, err := time.Parse(time.RFC3339Nano, clockOut.String)
		if err != nil {
			return session.Record{}, fmt.Errorf("parsing clock_out: %w", err)
		}
		r.ClockOut = &t
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return session.Record{}, fmt.Errorf("parsing created_at: %w", err)
	}
	r.HolidayOverride = holidayOverride != 0
	r.Outstation = outstation != 0

	if breakdown.Valid && breakdown.String != "" {
		var b engine.Breakdown
		if err := json.Unmarshal([]byte(breakdown.String), &b); err != nil {
			return session.Record{}, fmt.Errorf("parsing breakdown: %w", err)
		}
		r.Breakdown = &b
	}
	return r, nil
}

func scanSessions(rows *sql.Rows) ([]session.Record, error) {
	var result []session.Record
	for rows.Next() {
		r, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func completedColumns(r session.Record) (clockOut, breakdown any, err error) {
	if r.ClockOut != nil {
		clockOut = r.ClockOut.UTC().Format(time.RFC3339Nano)
	}
	if r.Breakdown != nil {
		data, err := json.Marshal(r.Breakdown)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding breakdown: %w", err)
		}
		breakdown = string(data)
	}
	return clockOut, breakdown, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// HOLIDAY PERSISTENCE
// =============================================================================

// Holiday is a persisted public-holiday date.
type Holiday struct {
	Day       string // yyyy-mm-dd
	Name      string
	CreatedAt time.Time
}

// SaveHoliday upserts a holiday date.
func (s *Store) SaveHoliday(ctx context.Context, day time.Time, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (day, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET name = excluded.name`,
		engine.DayKey(day), name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes a holiday date. Deleting an unknown date is a no-op.
func (s *Store) DeleteHoliday(ctx context.Context, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE day = ?`, engine.DayKey(day))
	return err
}

// ListHolidays returns all persisted holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT day, name, created_at FROM holidays ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Holiday
	for rows.Next() {
		var h Holiday
		var createdAt string
		if err := rows.Scan(&h.Day, &h.Name, &createdAt); err != nil {
			return nil, err
		}
		h.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		result = append(result, h)
	}
	return result, rows.Err()
}

// HolidayDates returns the persisted holiday dates, for seeding the
// engine's holiday set at startup.
func (s *Store) HolidayDates(ctx context.Context) ([]time.Time, error) {
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		t, err := time.Parse("2006-01-02", h.Day)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday %q: %w", h.Day, err)
		}
		dates = append(dates, t)
	}
	return dates, nil
}

/*
Package engine provides the core overtime classification and rate engine.

PURPOSE:
  This package contains the pure computation at the heart of the system:
  given a completed work session and its calendar context, partition the
  worked minutes into pay tiers, round each tier to billing blocks, price
  each tier, and return a full breakdown with totals.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A currency amount backed by decimal.Decimal
  - Minutes: Whole worked minutes (the engine's unit of time)
  - DayType: Calendar classification (weekday, weekend, public holiday)
  - Session: A single clock-in/clock-out interval with its context
  - Breakdown: The engine's sole output

DESIGN PRINCIPLES:
  1. Purity: Evaluate is a stateless function of its inputs - no I/O,
     no shared mutable state, safe for concurrent use
  2. Precision: Uses decimal.Decimal to avoid floating-point drift in pay
  3. Totality: No business errors - the only "failure" is the defined
     zero-duration path, which yields a zero breakdown

USAGE:
  eng := engine.New(engine.Config{Rates: rates, Calendar: holidays})
  b := eng.Evaluate(engine.Session{
      Start:      clockIn,
      End:        clockOut,
      Outstation: true,
  })
  fmt.Println(b.Total)

SEE ALSO:
  - classify.go: Day classification and the holiday calendar
  - schedule.go: Per-DayType tier schedules
  - partition.go: Tier boundary algorithm
  - pricing.go: Block rounding and tier pricing
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount (generic unit, no multi-currency support)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money      { return Money{Value: decimal.NewFromFloat(value)} }
func NewMoneyFromInt(value int) Money   { return Money{Value: decimal.NewFromInt(int64(value))} }
func ZeroMoney() Money                  { return Money{Value: decimal.Zero} }

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney()
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money              { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money              { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money    { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money    { return Money{Value: m.Value.Div(s)} }
func (m Money) IsZero() bool                   { return m.Value.IsZero() }
func (m Money) IsNegative() bool               { return m.Value.IsNegative() }
func (m Money) Equal(o Money) bool             { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool       { return m.Value.GreaterThan(o.Value) }
func (m Money) Float64() float64               { f, _ := m.Value.Float64(); return f }
func (m Money) String() string                 { return m.Value.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error)  { return m.Value.MarshalJSON() }
func (m *Money) UnmarshalJSON(b []byte) error { return m.Value.UnmarshalJSON(b) }

// =============================================================================
// MINUTES - Whole worked minutes
// =============================================================================

type Minutes int

func (m Minutes) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(decimal.NewFromInt(60))
}

// RoundUpToBlock rounds m up to the next multiple of block. Any partial
// block counts as a full block; zero stays zero.
func (m Minutes) RoundUpToBlock(block Minutes) Minutes {
	if m <= 0 || block <= 0 {
		return 0
	}
	if rem := m % block; rem != 0 {
		return m + block - rem
	}
	return m
}

// =============================================================================
// DAY TYPE - Closed, mutually exclusive calendar classification
// =============================================================================

type DayType string

const (
	DayWeekday       DayType = "weekday"
	DayWeekend       DayType = "weekend"
	DayPublicHoliday DayType = "public_holiday"
)

// =============================================================================
// SESSION - A single clock-in/clock-out interval
// =============================================================================

// Session is the engine's input. The caller constructs it at
// session-completion time; MinutesBefore must reflect only same-day,
// already-completed sessions (see session.Service for that aggregation).
type Session struct {
	Start time.Time
	End   time.Time // zero value = in progress (degenerate zero breakdown)

	// HolidayOverride forces public_holiday classification regardless of
	// the calendar. Used by upstream systems to flag a date without a
	// calendar update.
	HolidayOverride bool

	// Outstation marks an overnight away-from-base shift. Triggers the
	// flat allowance, independent of tiering.
	Outstation bool

	// MinutesBefore shifts the session's position within the day's tier
	// schedule. Zero for the first session of a day.
	MinutesBefore Minutes
}

// ElapsedMinutes returns the whole minutes between Start and End.
// Returns 0 when End is absent or not after Start.
func (s Session) ElapsedMinutes() Minutes {
	if s.End.IsZero() || !s.End.After(s.Start) {
		return 0
	}
	return Minutes(s.End.Sub(s.Start) / time.Minute)
}

// =============================================================================
// BREAKDOWN - The engine's sole output
// =============================================================================

type TierLabel string

const (
	// TierBase is the weekday first tier: minutes are recorded but priced
	// at zero.
	TierBase TierLabel = "base"

	// TierFirst is the paid first tier on weekends and public holidays.
	TierFirst TierLabel = "tier1"

	// TierOverflow is the tier beyond the day's threshold, on any DayType.
	TierOverflow TierLabel = "tier2"
)

// TierLine is one tier of a breakdown. BilledMinutes is Minutes rounded
// up to the billing block; it is zero for the unpaid base tier, which
// never enters pricing.
type TierLine struct {
	Label         TierLabel
	Minutes       Minutes
	BilledMinutes Minutes
	Multiplier    decimal.Decimal
	Amount        Money
}

// Breakdown is computed fresh on every Evaluate call, never mutated and
// never cached. Recomputing from identical inputs yields identical output.
type Breakdown struct {
	DayType        DayType
	ElapsedMinutes Minutes
	Tiers          []TierLine
	Allowance      Money
	OvertimeTotal  Money // sum of priced tier amounts, excludes allowance
	Total          Money // OvertimeTotal + Allowance
}

// TierMinutes returns the raw minutes recorded for a tier label, or 0 if
// the breakdown has no such tier.
func (b Breakdown) TierMinutes(label TierLabel) Minutes {
	for _, t := range b.Tiers {
		if t.Label == label {
			return t.Minutes
		}
	}
	return 0
}

// TierAmount returns the priced amount for a tier label.
func (b Breakdown) TierAmount(label TierLabel) Money {
	for _, t := range b.Tiers {
		if t.Label == label {
			return t.Amount
		}
	}
	return ZeroMoney()
}

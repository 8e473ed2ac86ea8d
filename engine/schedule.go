/*
schedule.go - Per-DayType tier schedules

PURPOSE:
  A TierSchedule maps cumulative minutes worked in a day to pay
  multipliers. Every DayType has a two-tier schedule: a first tier up to
  a threshold, and an overflow tier beyond it. The weekday first tier is
  unpaid (the ordinary working day - recorded but priced at zero); the
  weekend and holiday first tiers are paid.

DEFAULT SCHEDULES:
  weekday        600 min (10h)  first 0x (unpaid)  overflow 1.5x
  weekend        360 min (6h)   first 1.0x         overflow 1.5x
  public_holiday 540 min (9h)   first 2.0x         overflow 3.0x

  Schedules are fixed configuration, not derived data. Exactly one
  schedule is active per classification.

SEE ALSO:
  - partition.go: How a session is split against a schedule
  - factory: JSON-configurable schedule overrides
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// TIER SCHEDULE
// =============================================================================

// TierSchedule describes one DayType's tiers. FirstMultiplier of zero
// marks the first tier as unpaid (labelled TierBase instead of TierFirst).
type TierSchedule struct {
	Threshold          Minutes
	FirstMultiplier    decimal.Decimal
	OverflowMultiplier decimal.Decimal
}

// FirstLabel returns the label of the schedule's first tier.
func (ts TierSchedule) FirstLabel() TierLabel {
	if ts.FirstMultiplier.IsZero() {
		return TierBase
	}
	return TierFirst
}

// ScheduleSet holds the active schedule for each DayType.
type ScheduleSet map[DayType]TierSchedule

// DefaultSchedules returns the standard compensation policy.
func DefaultSchedules() ScheduleSet {
	return ScheduleSet{
		DayWeekday: {
			Threshold:          600,
			FirstMultiplier:    decimal.Zero,
			OverflowMultiplier: decimal.NewFromFloat(1.5),
		},
		DayWeekend: {
			Threshold:          360,
			FirstMultiplier:    decimal.NewFromInt(1),
			OverflowMultiplier: decimal.NewFromFloat(1.5),
		},
		DayPublicHoliday: {
			Threshold:          540,
			FirstMultiplier:    decimal.NewFromInt(2),
			OverflowMultiplier: decimal.NewFromInt(3),
		},
	}
}

/*
partition.go - Tier boundary algorithm

PURPOSE:
  Splits a session's minutes between a schedule's first and overflow
  tiers, positioned by the minutes already worked earlier the same day.
  Tier boundaries depend on CUMULATIVE minutes, not per-session minutes:
  a worker who clocks in and out several times drifts through the
  schedule across sessions.

ALGORITHM (identical for every DayType, threshold T):
  before >= T            -> whole session in overflow
  before + dur > T       -> T - before in first tier, rest in overflow
  otherwise              -> whole session in first tier

DEGENERATE CASE:
  dur <= 0 (end not after start) skips tiering: both tiers are zero and
  only the flat allowance, if any, contributes to the total.
*/
package engine

// TierSlice is one entry of a partition: a tier label and the raw
// minutes assigned to it.
type TierSlice struct {
	Label   TierLabel
	Minutes Minutes
}

// Partition splits dur minutes against the schedule, shifted by the
// minutes already worked earlier that day. Always returns both tiers in
// order (first, overflow), with zero minutes where a tier is unused, so
// the sum of slice minutes equals max(0, dur).
func (ts TierSchedule) Partition(before, dur Minutes) []TierSlice {
	first := TierSlice{Label: ts.FirstLabel()}
	overflow := TierSlice{Label: TierOverflow}

	if dur > 0 {
		switch {
		case before >= ts.Threshold:
			overflow.Minutes = dur
		case before+dur > ts.Threshold:
			first.Minutes = ts.Threshold - before
			overflow.Minutes = before + dur - ts.Threshold
		default:
			first.Minutes = dur
		}
	}

	return []TierSlice{first, overflow}
}

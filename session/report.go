/*
report.go - Monthly aggregation over priced sessions

PURPOSE:
  Rolls completed sessions up into per-day and per-month totals for
  reporting. Aggregation sums the STORED priced breakdowns - it never
  re-prices, so a report always matches what each session was priced at.
*/
package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// MONTHLY SUMMARY
// =============================================================================

// DaySummary aggregates one calendar day of a worker's month.
type DaySummary struct {
	Day           string // yyyy-mm-dd
	DayType       engine.DayType
	Sessions      int
	WorkedMinutes engine.Minutes
	OvertimeTotal engine.Money
	Allowance     engine.Money
	Total         engine.Money
}

// MonthlySummary aggregates a worker's completed sessions for one month.
type MonthlySummary struct {
	WorkerID      string
	Year          int
	Month         time.Month
	Days          []DaySummary
	WorkedMinutes engine.Minutes
	OvertimeTotal engine.Money
	Allowance     engine.Money
	Total         engine.Money
}

// MonthlySummary computes the worker's report for a month. Sessions are
// attributed to their clock-in date; in-progress sessions are excluded.
func (s *Service) MonthlySummary(ctx context.Context, workerID string, year int, month time.Month) (MonthlySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	records, err := s.Store.ListRange(ctx, workerID, from, to)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("loading month: %w", err)
	}

	sum := MonthlySummary{
		WorkerID:      workerID,
		Year:          year,
		Month:         month,
		OvertimeTotal: engine.ZeroMoney(),
		Allowance:     engine.ZeroMoney(),
		Total:         engine.ZeroMoney(),
	}

	byDay := make(map[string]*DaySummary)
	for _, r := range records {
		if !r.Completed() || r.Breakdown == nil {
			continue
		}
		key := r.DayKey()
		day, ok := byDay[key]
		if !ok {
			day = &DaySummary{
				Day:           key,
				DayType:       r.Breakdown.DayType,
				OvertimeTotal: engine.ZeroMoney(),
				Allowance:     engine.ZeroMoney(),
				Total:         engine.ZeroMoney(),
			}
			byDay[key] = day
		}
		day.Sessions++
		day.WorkedMinutes += r.Breakdown.ElapsedMinutes
		day.OvertimeTotal = day.OvertimeTotal.Add(r.Breakdown.OvertimeTotal)
		day.Allowance = day.Allowance.Add(r.Breakdown.Allowance)
		day.Total = day.Total.Add(r.Breakdown.Total)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		day := *byDay[k]
		sum.Days = append(sum.Days, day)
		sum.WorkedMinutes += day.WorkedMinutes
		sum.OvertimeTotal = sum.OvertimeTotal.Add(day.OvertimeTotal)
		sum.Allowance = sum.Allowance.Add(day.Allowance)
		sum.Total = sum.Total.Add(day.Total)
	}

	return sum, nil
}

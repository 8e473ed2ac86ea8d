/*
classify.go - Day classification and the holiday calendar

PURPOSE:
  Derives the DayType that selects a session's tier schedule. The
  precedence is strict and must not be reordered:

    1. Explicit override          -> public_holiday
    2. Date in the holiday set    -> public_holiday
    3. Saturday or Sunday         -> weekend
    4. Otherwise                  -> weekday

  Classification compares calendar days, never times of day. It is a
  total function over all valid dates - no error conditions.

HOLIDAY SET:
  The maintained set of public-holiday dates is explicit configuration
  owned by the host application, with read/replace/extend operations.
  It is NOT ambient global state and the engine never persists it.

SEE ALSO:
  - schedule.go: The per-DayType schedules classification selects
  - store/sqlite: Where the host persists holiday dates
*/
package engine

import (
	"sort"
	"sync"
	"time"
)

// =============================================================================
// DAY CLASSIFIER
// =============================================================================

// Classify determines the DayType for a date. override forces
// public_holiday unconditionally; cal may be nil (no holidays).
func Classify(date time.Time, override bool, cal HolidayCalendar) DayType {
	if override {
		return DayPublicHoliday
	}
	if cal != nil && cal.IsHoliday(date) {
		return DayPublicHoliday
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return DayWeekend
	}
	return DayWeekday
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar answers whether a date is a public holiday.
// Implementations must compare by calendar day, not by time-of-day.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// NoHolidays is a no-op calendar for hosts that maintain no holiday set.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time) bool { return false }

// DayKey normalizes a time to its calendar-day key (UTC date string).
// All holiday comparisons go through this so time-of-day, sub-day
// precision, and zone offsets never affect classification. Normalizing
// here keeps keys stable across stores that strip offsets on write.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// =============================================================================
// HOLIDAY SET - Mutable, host-owned holiday configuration
// =============================================================================

// HolidaySet is the standard HolidayCalendar implementation: a
// concurrency-safe set of dates with explicit read, extend, and replace
// operations. The engine only reads it; the host mutates it.
type HolidaySet struct {
	mu   sync.RWMutex
	days map[string]struct{}
}

func NewHolidaySet(dates ...time.Time) *HolidaySet {
	hs := &HolidaySet{days: make(map[string]struct{})}
	hs.Add(dates...)
	return hs
}

var _ HolidayCalendar = (*HolidaySet)(nil)

// IsHoliday reports whether the date's calendar day is in the set.
func (hs *HolidaySet) IsHoliday(date time.Time) bool {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	_, ok := hs.days[DayKey(date)]
	return ok
}

// Add extends the set with the given dates.
func (hs *HolidaySet) Add(dates ...time.Time) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	for _, d := range dates {
		hs.days[DayKey(d)] = struct{}{}
	}
}

// Remove drops dates from the set. Unknown dates are ignored.
func (hs *HolidaySet) Remove(dates ...time.Time) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	for _, d := range dates {
		delete(hs.days, DayKey(d))
	}
}

// Replace swaps the entire set atomically.
func (hs *HolidaySet) Replace(dates []time.Time) {
	next := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		next[DayKey(d)] = struct{}{}
	}
	hs.mu.Lock()
	hs.days = next
	hs.mu.Unlock()
}

// Keys returns the sorted day keys currently in the set.
func (hs *HolidaySet) Keys() []string {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	keys := make([]string, 0, len(hs.days))
	for k := range hs.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of holidays in the set.
func (hs *HolidaySet) Len() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return len(hs.days)
}

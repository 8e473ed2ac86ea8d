package engine_test

import (
	"testing"
	"time"

	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// DAY CLASSIFIER TESTS
// =============================================================================

func TestClassify_Precedence(t *testing.T) {
	// GIVEN: A Saturday that is also in the holiday set
	// WHEN: Classifying with and without the explicit override
	// THEN: override > holiday set > weekend, in that order

	holidays := engine.NewHolidaySet(saturday)

	if got := engine.Classify(saturday, true, holidays); got != engine.DayPublicHoliday {
		t.Errorf("override: expected public_holiday, got %s", got)
	}
	if got := engine.Classify(saturday, false, holidays); got != engine.DayPublicHoliday {
		t.Errorf("holiday set: expected public_holiday, got %s", got)
	}
	if got := engine.Classify(saturday, false, engine.NewHolidaySet()); got != engine.DayWeekend {
		t.Errorf("empty set: expected weekend, got %s", got)
	}
	if got := engine.Classify(monday, false, engine.NewHolidaySet()); got != engine.DayWeekday {
		t.Errorf("plain monday: expected weekday, got %s", got)
	}
}

func TestClassify_WeekendDays(t *testing.T) {
	// 2025-03-08 Sat, 2025-03-09 Sun, 2025-03-07 Fri
	sunday := date(2025, time.March, 9)
	friday := date(2025, time.March, 7)

	if got := engine.Classify(saturday, false, nil); got != engine.DayWeekend {
		t.Errorf("saturday: expected weekend, got %s", got)
	}
	if got := engine.Classify(sunday, false, nil); got != engine.DayWeekend {
		t.Errorf("sunday: expected weekend, got %s", got)
	}
	if got := engine.Classify(friday, false, nil); got != engine.DayWeekday {
		t.Errorf("friday: expected weekday, got %s", got)
	}
}

func TestClassify_ComparesByCalendarDay(t *testing.T) {
	// GIVEN: A holiday registered at midnight
	// WHEN: Classifying an instant late in that day
	// THEN: Still a holiday - time-of-day never matters

	holidays := engine.NewHolidaySet(monday)
	lateEvening := monday.Add(23*time.Hour + 59*time.Minute)

	if got := engine.Classify(lateEvening, false, holidays); got != engine.DayPublicHoliday {
		t.Errorf("expected public_holiday, got %s", got)
	}
}

func TestDayKey_NormalizesToUTC(t *testing.T) {
	// GIVEN: The same instant expressed in UTC and in a +08:00 zone
	// WHEN: Computing day keys
	// THEN: Both yield the UTC calendar day

	loc := time.FixedZone("UTC+8", 8*60*60)
	local := time.Date(2025, time.March, 10, 1, 0, 0, 0, loc) // 2025-03-09T17:00Z

	if got := engine.DayKey(local); got != "2025-03-09" {
		t.Errorf("expected 2025-03-09, got %s", got)
	}
	if engine.DayKey(local) != engine.DayKey(local.UTC()) {
		t.Error("day key differs between zone representations of the same instant")
	}
}

func TestClassify_NilCalendar(t *testing.T) {
	if got := engine.Classify(monday, false, nil); got != engine.DayWeekday {
		t.Errorf("nil calendar: expected weekday, got %s", got)
	}
}

// =============================================================================
// HOLIDAY SET TESTS
// =============================================================================

func TestHolidaySet_AddRemoveReplace(t *testing.T) {
	hs := engine.NewHolidaySet()
	newYear := date(2025, time.January, 1)
	christmas := date(2025, time.December, 25)

	hs.Add(newYear, christmas)
	if hs.Len() != 2 {
		t.Fatalf("expected 2 holidays, got %d", hs.Len())
	}
	if !hs.IsHoliday(newYear) || !hs.IsHoliday(christmas) {
		t.Error("expected added dates to be holidays")
	}

	// Adding the same date twice is a no-op.
	hs.Add(newYear)
	if hs.Len() != 2 {
		t.Errorf("duplicate add changed size: %d", hs.Len())
	}

	hs.Remove(newYear)
	if hs.IsHoliday(newYear) {
		t.Error("expected removed date to no longer be a holiday")
	}

	hs.Replace([]time.Time{monday})
	if hs.Len() != 1 || !hs.IsHoliday(monday) || hs.IsHoliday(christmas) {
		t.Error("replace did not swap the set")
	}
}

func TestHolidaySet_KeysSorted(t *testing.T) {
	hs := engine.NewHolidaySet(
		date(2025, time.December, 25),
		date(2025, time.January, 1),
		date(2025, time.June, 2),
	)
	keys := hs.Keys()
	want := []string{"2025-01-01", "2025-06-02", "2025-12-25"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/session"
	"github.com/warp/overtime-engine/session/store"
	"github.com/warp/overtime-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(holidays *engine.HolidaySet) *engine.Engine {
	return engine.New(engine.Config{
		Rates: engine.RateConfig{
			MonthlySalary:    engine.NewMoney(3120),
			WorkDaysPerMonth: 26,
			HoursPerDay:      8,
		},
		OutstationAllowance: engine.NewMoney(50),
		Calendar:            holidays,
	})
}

func newTestService(holidays *engine.HolidaySet) *session.Service {
	return session.NewService(store.NewMemory(), newTestEngine(holidays), nil)
}

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.UTC)
}

// 2025-03-10 is a Monday.
var monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// =============================================================================
// CLOCK-IN TESTS
// =============================================================================

func TestClockIn_RejectsSecondOpenSession(t *testing.T) {
	// GIVEN: A worker with an open session
	// WHEN: Clocking in again
	// THEN: Rejected with ErrAlreadyClockedIn and the open session's context

	svc := newTestService(nil)
	ctx := context.Background()

	first, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 9, 0)})
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 10, 0)})
	require.ErrorIs(t, err, session.ErrAlreadyClockedIn)

	var openErr *session.OpenSessionError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, first.ID, openErr.SessionID)
	assert.Equal(t, "w-1", openErr.WorkerID)
}

func TestClockIn_IndependentWorkers(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 9, 0)})
	require.NoError(t, err)
	_, err = svc.ClockIn(ctx, "w-2", session.ClockInOptions{At: at(monday, 9, 0)})
	require.NoError(t, err)
}

type fakeGeocoder struct{ address string }

func (g fakeGeocoder) ReverseGeocode(context.Context, float64, float64) (string, error) {
	return g.address, nil
}

func TestClockIn_ResolvesAddress(t *testing.T) {
	// GIVEN: A configured geocoder and clock-in coordinates
	// WHEN: Clocking in
	// THEN: The session carries the resolved address

	svc := newTestService(nil)
	svc.Geocoder = fakeGeocoder{address: "12 Harbour Rd"}
	ctx := context.Background()

	lat, lng := 3.139, 101.6869
	rec, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{
		At: at(monday, 9, 0), Lat: &lat, Lng: &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, "12 Harbour Rd", rec.Address)
}

// =============================================================================
// CLOCK-OUT TESTS
// =============================================================================

func TestClockOut_WithoutOpenSession(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.ClockOut(context.Background(), "w-1", at(monday, 17, 0))
	require.ErrorIs(t, err, session.ErrNotClockedIn)
	assert.True(t, session.IsClientError(err))
}

func TestClockOut_PricesSession(t *testing.T) {
	// GIVEN: An open weekday session 09:00-20:00
	// WHEN: Clocking out
	// THEN: The stored record carries the priced breakdown

	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 9, 0)})
	require.NoError(t, err)

	rec, err := svc.ClockOut(ctx, "w-1", at(monday, 20, 0))
	require.NoError(t, err)
	require.True(t, rec.Completed())
	require.NotNil(t, rec.Breakdown)

	b := rec.Breakdown
	assert.Equal(t, engine.DayWeekday, b.DayType)
	assert.Equal(t, engine.Minutes(660), b.ElapsedMinutes)
	assert.Equal(t, engine.Minutes(600), b.TierMinutes(engine.TierBase))
	assert.Equal(t, engine.Minutes(60), b.TierMinutes(engine.TierOverflow))
	assert.True(t, b.Total.Equal(engine.NewMoney(22.5)), "total %v", b.Total)

	// The store now has no open session for the worker.
	_, err = svc.ClockOut(ctx, "w-1", at(monday, 21, 0))
	require.ErrorIs(t, err, session.ErrNotClockedIn)
}

func TestClockOut_SameDayAccumulation(t *testing.T) {
	// GIVEN: A completed 600-min weekday session
	// WHEN: A second 120-min session on the same day is clocked out
	// THEN: The second session starts at the tier boundary - all of it
	//       lands in overflow

	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 7, 0)})
	require.NoError(t, err)
	first, err := svc.ClockOut(ctx, "w-1", at(monday, 17, 0)) // 600 min
	require.NoError(t, err)
	assert.True(t, first.Breakdown.OvertimeTotal.IsZero())

	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 18, 0)})
	require.NoError(t, err)
	second, err := svc.ClockOut(ctx, "w-1", at(monday, 20, 0)) // 120 min
	require.NoError(t, err)

	b := second.Breakdown
	assert.Equal(t, engine.Minutes(0), b.TierMinutes(engine.TierBase))
	assert.Equal(t, engine.Minutes(120), b.TierMinutes(engine.TierOverflow))
	// 1.5 x 15 x 2h
	assert.True(t, b.OvertimeTotal.Equal(engine.NewMoney(45)), "overtime %v", b.OvertimeTotal)
}

func TestClockOut_AccumulatesAcrossZoneOffsets(t *testing.T) {
	// GIVEN: Two same-day sessions clocked in a +08:00 zone, persisted
	//        through the sqlite store (which normalizes instants to UTC)
	// WHEN: Clocking out the second
	// THEN: It accumulates the first session's 600 minutes - day
	//       attribution agrees between write and read regardless of the
	//       caller's zone

	dbStore, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbStore.Close() })

	svc := session.NewService(dbStore, newTestEngine(nil), nil)
	ctx := context.Background()

	loc := time.FixedZone("UTC+8", 8*60*60)
	morning := time.Date(2025, time.March, 10, 9, 0, 0, 0, loc) // 01:00Z Monday

	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: morning})
	require.NoError(t, err)
	first, err := svc.ClockOut(ctx, "w-1", morning.Add(10*time.Hour)) // 600 min
	require.NoError(t, err)
	assert.True(t, first.Breakdown.OvertimeTotal.IsZero())

	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: morning.Add(11 * time.Hour)})
	require.NoError(t, err)
	second, err := svc.ClockOut(ctx, "w-1", morning.Add(13*time.Hour)) // 120 min
	require.NoError(t, err)

	b := second.Breakdown
	assert.Equal(t, engine.Minutes(0), b.TierMinutes(engine.TierBase))
	assert.Equal(t, engine.Minutes(120), b.TierMinutes(engine.TierOverflow))
	assert.True(t, b.OvertimeTotal.Equal(engine.NewMoney(45)), "overtime %v", b.OvertimeTotal)
}

func TestClockOut_PreviousDayDoesNotAccumulate(t *testing.T) {
	// GIVEN: A long completed session yesterday
	// WHEN: Clocking out today's first session
	// THEN: Yesterday's minutes do not shift today's tier boundary

	svc := newTestService(nil)
	ctx := context.Background()
	tuesday := monday.AddDate(0, 0, 1)

	_, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 7, 0)})
	require.NoError(t, err)
	_, err = svc.ClockOut(ctx, "w-1", at(monday, 19, 0))
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(tuesday, 9, 0)})
	require.NoError(t, err)
	rec, err := svc.ClockOut(ctx, "w-1", at(tuesday, 14, 0)) // 300 min
	require.NoError(t, err)

	assert.Equal(t, engine.Minutes(300), rec.Breakdown.TierMinutes(engine.TierBase))
	assert.True(t, rec.Breakdown.OvertimeTotal.IsZero())
}

func TestClockOut_DegenerateZeroDuration(t *testing.T) {
	// GIVEN: An outstation session clocked out at its clock-in instant
	// WHEN: Pricing
	// THEN: Zero tiers, total equals the allowance only

	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{
		At: at(monday, 9, 0), Outstation: true,
	})
	require.NoError(t, err)

	rec, err := svc.ClockOut(ctx, "w-1", at(monday, 9, 0))
	require.NoError(t, err)

	b := rec.Breakdown
	assert.Equal(t, engine.Minutes(0), b.ElapsedMinutes)
	assert.True(t, b.OvertimeTotal.IsZero())
	assert.True(t, b.Total.Equal(engine.NewMoney(50)), "total %v", b.Total)
}

// =============================================================================
// RECOMPUTE TESTS
// =============================================================================

func TestRecompute_MatchesStoredBreakdown(t *testing.T) {
	// GIVEN: Two completed same-day sessions
	// WHEN: Recomputing each from stored inputs
	// THEN: Results equal what was stored at clock-out

	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 7, 0)})
	require.NoError(t, err)
	first, err := svc.ClockOut(ctx, "w-1", at(monday, 17, 0))
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 18, 0)})
	require.NoError(t, err)
	second, err := svc.ClockOut(ctx, "w-1", at(monday, 20, 0))
	require.NoError(t, err)

	for _, rec := range []session.Record{first, second} {
		got, err := svc.Recompute(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, *rec.Breakdown, got, "session %s", rec.ID)
	}
}

func TestRecompute_RejectsOpenSession(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	rec, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 9, 0)})
	require.NoError(t, err)

	_, err = svc.Recompute(ctx, rec.ID)
	require.ErrorIs(t, err, session.ErrSessionIncomplete)
}

func TestRecompute_UnknownSession(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Recompute(context.Background(), "missing")
	require.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.True(t, session.IsNotFound(err))
}

// =============================================================================
// MONTHLY SUMMARY TESTS
// =============================================================================

func TestMonthlySummary_AggregatesStoredBreakdowns(t *testing.T) {
	// GIVEN: A weekday overflow session and a holiday outstation session
	// WHEN: Building the month's report
	// THEN: Per-day and month totals equal the sums of stored breakdowns

	holidays := engine.NewHolidaySet(monday.AddDate(0, 0, 2)) // Wednesday
	svc := newTestService(holidays)
	ctx := context.Background()
	wednesday := monday.AddDate(0, 0, 2)

	_, err := svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(monday, 9, 0)})
	require.NoError(t, err)
	_, err = svc.ClockOut(ctx, "w-1", at(monday, 20, 0)) // 22.50 OT
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{
		At: at(wednesday, 8, 0), Outstation: true,
	})
	require.NoError(t, err)
	_, err = svc.ClockOut(ctx, "w-1", at(wednesday, 14, 0)) // 360 min at 2x = 180, +50 allowance
	require.NoError(t, err)

	// An in-progress session is excluded from the report.
	_, err = svc.ClockIn(ctx, "w-1", session.ClockInOptions{At: at(wednesday, 20, 0)})
	require.NoError(t, err)

	sum, err := svc.MonthlySummary(ctx, "w-1", 2025, time.March)
	require.NoError(t, err)

	require.Len(t, sum.Days, 2)
	assert.Equal(t, "2025-03-10", sum.Days[0].Day)
	assert.Equal(t, engine.DayWeekday, sum.Days[0].DayType)
	assert.True(t, sum.Days[0].OvertimeTotal.Equal(engine.NewMoney(22.5)))

	assert.Equal(t, "2025-03-12", sum.Days[1].Day)
	assert.Equal(t, engine.DayPublicHoliday, sum.Days[1].DayType)
	assert.True(t, sum.Days[1].Total.Equal(engine.NewMoney(230)), "day total %v", sum.Days[1].Total)

	assert.Equal(t, engine.Minutes(660+360), sum.WorkedMinutes)
	assert.True(t, sum.OvertimeTotal.Equal(engine.NewMoney(202.5)), "month OT %v", sum.OvertimeTotal)
	assert.True(t, sum.Allowance.Equal(engine.NewMoney(50)))
	assert.True(t, sum.Total.Equal(engine.NewMoney(252.5)), "month total %v", sum.Total)
}

func TestMonthlySummary_EmptyMonth(t *testing.T) {
	svc := newTestService(nil)
	sum, err := svc.MonthlySummary(context.Background(), "w-1", 2025, time.April)
	require.NoError(t, err)
	assert.Empty(t, sum.Days)
	assert.True(t, sum.Total.IsZero())
}

package factory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// DEFAULT AND PARSE TESTS
// =============================================================================

func TestBuild_Default(t *testing.T) {
	cfg, holidays, err := Build(Default())
	require.NoError(t, err)

	assert.True(t, cfg.Rates.MonthlySalary.Equal(engine.NewMoney(3000)))
	assert.Equal(t, 26, cfg.Rates.WorkDaysPerMonth)
	assert.Equal(t, 8, cfg.Rates.HoursPerDay)
	assert.Equal(t, engine.DefaultBlockMinutes, cfg.BlockMinutes)
	assert.True(t, cfg.OutstationAllowance.Equal(engine.NewMoney(50)))
	assert.Equal(t, 0, holidays.Len())

	// Defaults carry the full schedule set.
	assert.Equal(t, engine.Minutes(600), cfg.Schedules[engine.DayWeekday].Threshold)
	assert.Equal(t, engine.Minutes(360), cfg.Schedules[engine.DayWeekend].Threshold)
	assert.Equal(t, engine.Minutes(540), cfg.Schedules[engine.DayPublicHoliday].Threshold)
}

func TestParse_FullDocument(t *testing.T) {
	// GIVEN: A complete JSON document with overrides and holidays
	// WHEN: Parsing
	// THEN: Overrides apply and untouched schedules keep their defaults

	data := []byte(`{
		"monthly_salary": 3120,
		"work_days_per_month": 26,
		"hours_per_day": 8,
		"block_minutes": 15,
		"outstation_allowance": 75,
		"schedules": {
			"public_holiday": {"threshold_minutes": 480, "first_multiplier": 2.5, "overflow_multiplier": 3.5}
		},
		"holidays": ["2025-01-01", "2025-12-25"]
	}`)

	cfg, holidays, err := Parse(data)
	require.NoError(t, err)

	assert.True(t, cfg.Rates.MonthlySalary.Equal(engine.NewMoney(3120)))
	assert.Equal(t, engine.Minutes(15), cfg.BlockMinutes)
	assert.True(t, cfg.OutstationAllowance.Equal(engine.NewMoney(75)))

	ph := cfg.Schedules[engine.DayPublicHoliday]
	assert.Equal(t, engine.Minutes(480), ph.Threshold)
	assert.True(t, ph.FirstMultiplier.Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, ph.OverflowMultiplier.Equal(decimal.NewFromFloat(3.5)))

	// Unconfigured day types keep their defaults.
	assert.Equal(t, engine.Minutes(600), cfg.Schedules[engine.DayWeekday].Threshold)
	assert.Equal(t, engine.Minutes(360), cfg.Schedules[engine.DayWeekend].Threshold)

	require.Equal(t, 2, holidays.Len())
	assert.True(t, holidays.IsHoliday(time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, holidays.IsHoliday(time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)))
	assert.False(t, holidays.IsHoliday(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)))

	// The holiday set built here is the same one the config references.
	assert.Same(t, holidays, cfg.Calendar)
}

func TestParse_BuildsWorkingEngine(t *testing.T) {
	cfg, _, err := Build(ConfigJSON{
		MonthlySalary:    3120,
		WorkDaysPerMonth: 26,
		HoursPerDay:      8,
	})
	require.NoError(t, err)

	eng := engine.New(cfg)
	assert.True(t, eng.HourlyRate().Equal(engine.NewMoney(15)), "hourly %v", eng.HourlyRate())
	assert.Equal(t, engine.DefaultBlockMinutes, eng.BlockMinutes())
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestParse_InvalidJSON(t *testing.T) {
	_, _, err := Parse([]byte(`{not json`))
	require.Error(t, err)
}

func TestBuild_Validation(t *testing.T) {
	cases := []struct {
		name string
		doc  ConfigJSON
	}{
		{"zero salary", ConfigJSON{WorkDaysPerMonth: 26, HoursPerDay: 8}},
		{"negative salary", ConfigJSON{MonthlySalary: -1, WorkDaysPerMonth: 26, HoursPerDay: 8}},
		{"zero work days", ConfigJSON{MonthlySalary: 3000, HoursPerDay: 8}},
		{"zero hours", ConfigJSON{MonthlySalary: 3000, WorkDaysPerMonth: 26}},
		{"negative block", ConfigJSON{MonthlySalary: 3000, WorkDaysPerMonth: 26, HoursPerDay: 8, BlockMinutes: -30}},
		{"negative allowance", ConfigJSON{MonthlySalary: 3000, WorkDaysPerMonth: 26, HoursPerDay: 8, OutstationAllowance: -50}},
		{"unknown day type", ConfigJSON{MonthlySalary: 3000, WorkDaysPerMonth: 26, HoursPerDay: 8,
			Schedules: map[string]ScheduleJSON{"sunday": {ThresholdMinutes: 360, OverflowMultiplier: 1.5}}}},
		{"zero threshold", ConfigJSON{MonthlySalary: 3000, WorkDaysPerMonth: 26, HoursPerDay: 8,
			Schedules: map[string]ScheduleJSON{"weekend": {FirstMultiplier: 1, OverflowMultiplier: 1.5}}}},
		{"negative multiplier", ConfigJSON{MonthlySalary: 3000, WorkDaysPerMonth: 26, HoursPerDay: 8,
			Schedules: map[string]ScheduleJSON{"weekend": {ThresholdMinutes: 360, FirstMultiplier: -1, OverflowMultiplier: 1.5}}}},
		{"bad holiday date", ConfigJSON{MonthlySalary: 3000, WorkDaysPerMonth: 26, HoursPerDay: 8,
			Holidays: []string{"01/01/2025"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Build(tc.doc)
			require.Error(t, err)
		})
	}
}

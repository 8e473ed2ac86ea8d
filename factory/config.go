/*
Package factory provides JSON to engine configuration conversion.

PURPOSE:
  Converts a JSON configuration document into an engine.Config and
  holiday set. This enables compensation policy configuration without
  code changes - payroll can adjust salaries, thresholds, multipliers,
  and holidays in JSON, and the factory creates the proper Go structs.

JSON SCHEMA:
  {
    "monthly_salary": 3000,
    "work_days_per_month": 26,
    "hours_per_day": 8,
    "block_minutes": 30,
    "outstation_allowance": 50,
    "schedules": {
      "weekday":        {"threshold_minutes": 600, "first_multiplier": 0,   "overflow_multiplier": 1.5},
      "weekend":        {"threshold_minutes": 360, "first_multiplier": 1,   "overflow_multiplier": 1.5},
      "public_holiday": {"threshold_minutes": 540, "first_multiplier": 2,   "overflow_multiplier": 3}
    },
    "holidays": ["2025-01-01", "2025-12-25"]
  }

KEY FEATURES:
  - Validates the document (rates, thresholds, multipliers)
  - Fills defaults for anything omitted (schedules, block size)
  - Parses holiday dates into an engine.HolidaySet

USAGE:
  cfg, holidays, err := factory.Parse(data)
  eng := engine.New(cfg)

SEE ALSO:
  - engine/engine.go: Config definition and defaults
  - cmd/server/main.go: Loads the JSON file at startup
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/overtime-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of the engine configuration.
type ConfigJSON struct {
	MonthlySalary       float64                 `json:"monthly_salary"`
	WorkDaysPerMonth    int                     `json:"work_days_per_month"`
	HoursPerDay         int                     `json:"hours_per_day"`
	BlockMinutes        int                     `json:"block_minutes,omitempty"`
	OutstationAllowance float64                 `json:"outstation_allowance,omitempty"`
	Schedules           map[string]ScheduleJSON `json:"schedules,omitempty"`
	Holidays            []string                `json:"holidays,omitempty"` // yyyy-mm-dd
}

// ScheduleJSON represents one DayType's tier schedule.
type ScheduleJSON struct {
	ThresholdMinutes   int     `json:"threshold_minutes"`
	FirstMultiplier    float64 `json:"first_multiplier"`
	OverflowMultiplier float64 `json:"overflow_multiplier"`
}

// Default returns the standard configuration document.
func Default() ConfigJSON {
	return ConfigJSON{
		MonthlySalary:       3000,
		WorkDaysPerMonth:    26,
		HoursPerDay:         8,
		BlockMinutes:        int(engine.DefaultBlockMinutes),
		OutstationAllowance: 50,
	}
}

// =============================================================================
// FACTORY
// =============================================================================

// Parse converts a JSON document into an engine config and holiday set.
func Parse(data []byte) (engine.Config, *engine.HolidaySet, error) {
	var doc ConfigJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.Config{}, nil, fmt.Errorf("parsing config: %w", err)
	}
	return Build(doc)
}

// Build converts an already-decoded document into an engine config and
// holiday set, validating and filling defaults.
func Build(doc ConfigJSON) (engine.Config, *engine.HolidaySet, error) {
	if doc.MonthlySalary <= 0 {
		return engine.Config{}, nil, fmt.Errorf("monthly_salary must be positive, got %v", doc.MonthlySalary)
	}
	if doc.WorkDaysPerMonth <= 0 {
		return engine.Config{}, nil, fmt.Errorf("work_days_per_month must be positive, got %d", doc.WorkDaysPerMonth)
	}
	if doc.HoursPerDay <= 0 {
		return engine.Config{}, nil, fmt.Errorf("hours_per_day must be positive, got %d", doc.HoursPerDay)
	}
	if doc.BlockMinutes < 0 {
		return engine.Config{}, nil, fmt.Errorf("block_minutes must not be negative, got %d", doc.BlockMinutes)
	}
	if doc.OutstationAllowance < 0 {
		return engine.Config{}, nil, fmt.Errorf("outstation_allowance must not be negative, got %v", doc.OutstationAllowance)
	}

	schedules, err := buildSchedules(doc.Schedules)
	if err != nil {
		return engine.Config{}, nil, err
	}

	holidays := engine.NewHolidaySet()
	for _, s := range doc.Holidays {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return engine.Config{}, nil, fmt.Errorf("parsing holiday %q: %w", s, err)
		}
		holidays.Add(t)
	}

	cfg := engine.Config{
		Rates: engine.RateConfig{
			MonthlySalary:    engine.NewMoney(doc.MonthlySalary),
			WorkDaysPerMonth: doc.WorkDaysPerMonth,
			HoursPerDay:      doc.HoursPerDay,
		},
		Schedules:           schedules,
		BlockMinutes:        engine.Minutes(doc.BlockMinutes),
		OutstationAllowance: engine.NewMoney(doc.OutstationAllowance),
		Calendar:            holidays,
	}
	return cfg, holidays, nil
}

// buildSchedules overlays any configured schedules on the defaults.
// Unknown day types are rejected rather than silently ignored.
func buildSchedules(docs map[string]ScheduleJSON) (engine.ScheduleSet, error) {
	schedules := engine.DefaultSchedules()
	for name, s := range docs {
		day := engine.DayType(name)
		if _, ok := schedules[day]; !ok {
			return nil, fmt.Errorf("unknown day type %q in schedules", name)
		}
		if s.ThresholdMinutes <= 0 {
			return nil, fmt.Errorf("schedule %q: threshold_minutes must be positive, got %d", name, s.ThresholdMinutes)
		}
		if s.FirstMultiplier < 0 || s.OverflowMultiplier < 0 {
			return nil, fmt.Errorf("schedule %q: multipliers must not be negative", name)
		}
		schedules[day] = engine.TierSchedule{
			Threshold:          engine.Minutes(s.ThresholdMinutes),
			FirstMultiplier:    decimal.NewFromFloat(s.FirstMultiplier),
			OverflowMultiplier: decimal.NewFromFloat(s.OverflowMultiplier),
		}
	}
	return schedules, nil
}

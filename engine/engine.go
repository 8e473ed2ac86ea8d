/*
engine.go - The overtime engine: classify, partition, round, price, total

PURPOSE:
  Ties the pieces together. Evaluate is the engine's only interface:
  classify the day, partition elapsed minutes against that day's
  schedule, round and price each paid tier, add the flat allowance,
  and return the breakdown.

PURITY GUARANTEE:
  Evaluate is synchronous and side-effect-free. It may be invoked
  concurrently and repeatedly with identical inputs and always returns
  identical output. It never waits, retries, or touches a store -
  supplying MinutesBefore is the caller's job (see session.Service).

TOTALS:
  OvertimeTotal and Total are computed from the rounded, priced tier
  amounts, not from raw elapsed minutes, so there is no double rounding.
*/
package engine

// DefaultBlockMinutes is the billing block: partial blocks bill as full.
const DefaultBlockMinutes Minutes = 30

// =============================================================================
// CONFIG
// =============================================================================

// Config is the engine's read-only configuration surface, supplied at
// startup. Zero-value fields fall back to defaults in New.
type Config struct {
	Rates               RateConfig
	Schedules           ScheduleSet
	BlockMinutes        Minutes
	OutstationAllowance Money
	Calendar            HolidayCalendar
}

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	hourly    Money
	schedules ScheduleSet
	block     Minutes
	allowance Money
	calendar  HolidayCalendar
}

// New builds an Engine from cfg. The hourly rate is derived once here
// and never recomputed per call. Day types missing from cfg.Schedules
// fall back to their defaults, so a partial set never prices at zero.
func New(cfg Config) *Engine {
	schedules := DefaultSchedules()
	for day, s := range cfg.Schedules {
		schedules[day] = s
	}
	cfg.Schedules = schedules
	if cfg.BlockMinutes <= 0 {
		cfg.BlockMinutes = DefaultBlockMinutes
	}
	if cfg.Calendar == nil {
		cfg.Calendar = NoHolidays{}
	}
	return &Engine{
		hourly:    cfg.Rates.HourlyRate(),
		schedules: cfg.Schedules,
		block:     cfg.BlockMinutes,
		allowance: cfg.OutstationAllowance,
		calendar:  cfg.Calendar,
	}
}

// HourlyRate exposes the derived base rate (read-only, for reporting).
func (e *Engine) HourlyRate() Money { return e.hourly }

// BlockMinutes exposes the billing block size (read-only, for reporting).
func (e *Engine) BlockMinutes() Minutes { return e.block }

// OutstationAllowance exposes the flat allowance (read-only, for reporting).
func (e *Engine) OutstationAllowance() Money { return e.allowance }

// Schedule returns the active schedule for a DayType.
func (e *Engine) Schedule(day DayType) TierSchedule { return e.schedules[day] }

// Evaluate computes the priced breakdown for a session. The session's
// day is classified from its start instant.
func (e *Engine) Evaluate(s Session) Breakdown {
	dayType := Classify(s.Start, s.HolidayOverride, e.calendar)
	schedule := e.schedules[dayType]
	elapsed := s.ElapsedMinutes()

	before := s.MinutesBefore
	if before < 0 {
		before = 0
	}

	b := Breakdown{
		DayType:        dayType,
		ElapsedMinutes: elapsed,
		OvertimeTotal:  ZeroMoney(),
	}

	for _, slice := range schedule.Partition(before, elapsed) {
		line := TierLine{
			Label:   slice.Label,
			Minutes: slice.Minutes,
			Amount:  ZeroMoney(),
		}
		switch slice.Label {
		case TierBase:
			// Recorded but unpaid: no rounding, no pricing.
		case TierFirst:
			line.Multiplier = schedule.FirstMultiplier
			line.BilledMinutes = slice.Minutes.RoundUpToBlock(e.block)
			line.Amount = priceTier(line.BilledMinutes, line.Multiplier, e.hourly)
		case TierOverflow:
			line.Multiplier = schedule.OverflowMultiplier
			line.BilledMinutes = slice.Minutes.RoundUpToBlock(e.block)
			line.Amount = priceTier(line.BilledMinutes, line.Multiplier, e.hourly)
		}
		b.Tiers = append(b.Tiers, line)
		b.OvertimeTotal = b.OvertimeTotal.Add(line.Amount)
	}

	b.Allowance = ZeroMoney()
	if s.Outstation {
		b.Allowance = e.allowance
	}
	b.Total = b.OvertimeTotal.Add(b.Allowance)
	return b
}

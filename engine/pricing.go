/*
pricing.go - Block rounding and tier pricing

PURPOSE:
  Converts raw tier minutes into money. Rounding is applied PER PAID
  TIER, never to the session total and never to the unpaid base tier:
  a tier's minutes are rounded up to the next billing block (any partial
  block bills as a full block), converted to hours, and multiplied by
  baseHourlyRate x multiplier.

NUMERIC POLICY:
  All amounts are decimal.Decimal. Rounding happens only at the block
  step (on minutes, not on money), so repeated evaluation never drifts.

BASE HOURLY RATE:
  Derived once from monthly salary / work days per month / hours per day.
  It is injected configuration - the engine never recomputes it per call.
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// RATE CONFIG
// =============================================================================

// RateConfig derives the base hourly rate used to price every tier.
type RateConfig struct {
	MonthlySalary    Money
	WorkDaysPerMonth int
	HoursPerDay      int
}

// HourlyRate returns MonthlySalary / (WorkDaysPerMonth * HoursPerDay).
// Returns zero money when the divisor is not positive.
func (rc RateConfig) HourlyRate() Money {
	hours := rc.WorkDaysPerMonth * rc.HoursPerDay
	if hours <= 0 {
		return ZeroMoney()
	}
	return rc.MonthlySalary.Div(decimal.NewFromInt(int64(hours)))
}

// =============================================================================
// TIER PRICING
// =============================================================================

// priceTier prices already-rounded billed minutes at hourly x multiplier.
func priceTier(billed Minutes, multiplier decimal.Decimal, hourly Money) Money {
	if billed <= 0 || multiplier.IsZero() {
		return ZeroMoney()
	}
	return hourly.Mul(multiplier).Mul(billed.Hours())
}

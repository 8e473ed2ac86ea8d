/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/session"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ClockInRequest opens a session for a worker.
type ClockInRequest struct {
	At              string   `json:"at,omitempty"` // RFC3339, empty = now
	Outstation      bool     `json:"outstation,omitempty"`
	HolidayOverride bool     `json:"holiday_override,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
}

// ClockOutRequest completes a worker's open session.
type ClockOutRequest struct {
	At string `json:"at,omitempty"` // RFC3339, empty = now
}

// SessionDTO represents a session in API responses.
type SessionDTO struct {
	ID              string        `json:"id"`
	WorkerID        string        `json:"worker_id"`
	ClockIn         string        `json:"clock_in"`
	ClockOut        string        `json:"clock_out,omitempty"`
	HolidayOverride bool          `json:"holiday_override,omitempty"`
	Outstation      bool          `json:"outstation,omitempty"`
	Address         string        `json:"address,omitempty"`
	Breakdown       *BreakdownDTO `json:"breakdown,omitempty"`
}

// BreakdownDTO represents a priced breakdown.
type BreakdownDTO struct {
	DayType        string        `json:"day_type"`
	ElapsedMinutes int           `json:"elapsed_minutes"`
	Tiers          []TierLineDTO `json:"tiers"`
	Allowance      float64       `json:"allowance"`
	OvertimeTotal  float64       `json:"overtime_total"`
	Total          float64       `json:"total"`
}

// TierLineDTO represents one tier of a breakdown.
type TierLineDTO struct {
	Label         string  `json:"label"`
	Minutes       int     `json:"minutes"`
	BilledMinutes int     `json:"billed_minutes"`
	Multiplier    float64 `json:"multiplier"`
	Amount        float64 `json:"amount"`
}

// HolidayDTO represents a public-holiday date.
type HolidayDTO struct {
	Date string `json:"date"` // yyyy-mm-dd
	Name string `json:"name,omitempty"`
}

// CreateHolidayRequest adds a holiday date.
type CreateHolidayRequest struct {
	Date string `json:"date"` // yyyy-mm-dd
	Name string `json:"name,omitempty"`
}

// DaySummaryDTO represents one day of a monthly report.
type DaySummaryDTO struct {
	Day           string  `json:"day"`
	DayType       string  `json:"day_type"`
	Sessions      int     `json:"sessions"`
	WorkedMinutes int     `json:"worked_minutes"`
	OvertimeTotal float64 `json:"overtime_total"`
	Allowance     float64 `json:"allowance"`
	Total         float64 `json:"total"`
}

// MonthlySummaryDTO represents a worker's monthly report.
type MonthlySummaryDTO struct {
	WorkerID      string          `json:"worker_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Days          []DaySummaryDTO `json:"days"`
	WorkedMinutes int             `json:"worked_minutes"`
	OvertimeTotal float64         `json:"overtime_total"`
	Allowance     float64         `json:"allowance"`
	Total         float64         `json:"total"`
}

// ConfigDTO exposes the engine's read-only configuration surface.
type ConfigDTO struct {
	HourlyRate          float64               `json:"hourly_rate"`
	BlockMinutes        int                   `json:"block_minutes"`
	OutstationAllowance float64               `json:"outstation_allowance"`
	Schedules           map[string]ScheduleDTO `json:"schedules"`
	Holidays            []string              `json:"holidays"`
}

// ScheduleDTO represents one DayType's tier schedule.
type ScheduleDTO struct {
	ThresholdMinutes   int     `json:"threshold_minutes"`
	FirstMultiplier    float64 `json:"first_multiplier"`
	OverflowMultiplier float64 `json:"overflow_multiplier"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toSessionDTO(r session.Record) SessionDTO {
	dto := SessionDTO{
		ID:              r.ID,
		WorkerID:        r.WorkerID,
		ClockIn:         r.ClockIn.Format(time.RFC3339),
		HolidayOverride: r.HolidayOverride,
		Outstation:      r.Outstation,
		Address:         r.Address,
	}
	if r.ClockOut != nil {
		dto.ClockOut = r.ClockOut.Format(time.RFC3339)
	}
	if r.Breakdown != nil {
		b := toBreakdownDTO(*r.Breakdown)
		dto.Breakdown = &b
	}
	return dto
}

func toSessionDTOs(rs []session.Record) []SessionDTO {
	dtos := make([]SessionDTO, len(rs))
	for i, r := range rs {
		dtos[i] = toSessionDTO(r)
	}
	return dtos
}

func toBreakdownDTO(b engine.Breakdown) BreakdownDTO {
	dto := BreakdownDTO{
		DayType:        string(b.DayType),
		ElapsedMinutes: int(b.ElapsedMinutes),
		Allowance:      b.Allowance.Float64(),
		OvertimeTotal:  b.OvertimeTotal.Float64(),
		Total:          b.Total.Float64(),
	}
	for _, t := range b.Tiers {
		mult, _ := t.Multiplier.Float64()
		dto.Tiers = append(dto.Tiers, TierLineDTO{
			Label:         string(t.Label),
			Minutes:       int(t.Minutes),
			BilledMinutes: int(t.BilledMinutes),
			Multiplier:    mult,
			Amount:        t.Amount.Float64(),
		})
	}
	return dto
}

func toMonthlySummaryDTO(s session.MonthlySummary) MonthlySummaryDTO {
	dto := MonthlySummaryDTO{
		WorkerID:      s.WorkerID,
		Year:          s.Year,
		Month:         int(s.Month),
		WorkedMinutes: int(s.WorkedMinutes),
		OvertimeTotal: s.OvertimeTotal.Float64(),
		Allowance:     s.Allowance.Float64(),
		Total:         s.Total.Float64(),
	}
	for _, d := range s.Days {
		dto.Days = append(dto.Days, DaySummaryDTO{
			Day:           d.Day,
			DayType:       string(d.DayType),
			Sessions:      d.Sessions,
			WorkedMinutes: int(d.WorkedMinutes),
			OvertimeTotal: d.OvertimeTotal.Float64(),
			Allowance:     d.Allowance.Float64(),
			Total:         d.Total.Float64(),
		})
	}
	return dto
}

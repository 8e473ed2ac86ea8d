/*
handlers.go - HTTP API handlers for the overtime system

PURPOSE:
  Exposes the overtime engine and session orchestration via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Workers:
    POST   /api/workers/{id}/clock-in          Open a session
    POST   /api/workers/{id}/clock-out         Complete and price a session
    GET    /api/workers/{id}/sessions          Session history (date range)
    GET    /api/workers/{id}/reports/{year}/{month}  Monthly report

  Sessions:
    GET    /api/sessions/{id}                  Session details
    GET    /api/sessions/{id}/breakdown        Recompute breakdown (not persisted)

  Holidays:
    GET    /api/holidays                       List holiday dates
    POST   /api/holidays                       Add a holiday date
    DELETE /api/holidays/{date}                Remove a holiday date

  Config:
    GET    /api/config                         Engine configuration surface

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (already clocked in, no open session)
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. Worker identity is taken from the URL;
  authenticating it is an upstream concern.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/session"
	"github.com/warp/overtime-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *session.Service
	Engine   *engine.Engine
	Holidays *engine.HolidaySet
	Store    *sqlite.Store // holiday persistence; sessions go through Service
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(svc *session.Service, eng *engine.Engine, holidays *engine.HolidaySet, store *sqlite.Store) *Handler {
	return &Handler{Service: svc, Engine: eng, Holidays: holidays, Store: store}
}

// LoadHolidays seeds the in-memory holiday set from the store.
func (h *Handler) LoadHolidays(ctx context.Context) error {
	dates, err := h.Store.HolidayDates(ctx)
	if err != nil {
		return err
	}
	h.Holidays.Add(dates...)
	return nil
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ClockIn opens a session for a worker.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	opts := session.ClockInOptions{
		Outstation:      req.Outstation,
		HolidayOverride: req.HolidayOverride,
		Lat:             req.Lat,
		Lng:             req.Lng,
	}
	if req.At != "" {
		at, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
			return
		}
		opts.At = at
	}

	rec, err := h.Service.ClockIn(r.Context(), workerID, opts)
	if err != nil {
		writeServiceError(w, err, "Failed to clock in")
		return
	}
	writeJSON(w, http.StatusCreated, toSessionDTO(rec))
}

// ClockOut completes and prices a worker's open session.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var at time.Time
	if req.At != "" {
		parsed, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
			return
		}
		at = parsed
	}

	rec, err := h.Service.ClockOut(r.Context(), workerID, at)
	if err != nil {
		writeServiceError(w, err, "Failed to clock out")
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(rec))
}

// ListSessions returns a worker's sessions in a date range.
// Query params: from, to (yyyy-mm-dd; defaults to the current month).
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if s := r.URL.Query().Get("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		from = parsed
	}
	if s := r.URL.Query().Get("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		to = parsed
	}

	records, err := h.Service.Store.ListRange(r.Context(), workerID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTOs(records))
}

// MonthlyReport returns a worker's aggregated monthly report.
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month (1-12)", err)
		return
	}

	summary, err := h.Service.MonthlySummary(r.Context(), workerID, year, time.Month(month))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlySummaryDTO(summary))
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// GetSession returns a single session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(rec))
}

// GetBreakdown recomputes a completed session's breakdown from its
// stored inputs. The result is not persisted; recomputation is
// idempotent and must match the stored breakdown.
func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.Recompute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to compute breakdown")
		return
	}
	writeJSON(w, http.StatusOK, toBreakdownDTO(b))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all persisted holiday dates.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = HolidayDTO{Date: hd.Day, Name: hd.Name}
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday adds a holiday date to the store and the live calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.SaveHoliday(r.Context(), date, req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	h.Holidays.Add(date)

	writeJSON(w, http.StatusCreated, HolidayDTO{Date: engine.DayKey(date), Name: req.Name})
}

// DeleteHoliday removes a holiday date from the store and the live calendar.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	h.Holidays.Remove(date)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// CONFIG HANDLER
// =============================================================================

// GetConfig exposes the engine's read-only configuration surface.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	schedules := make(map[string]ScheduleDTO)
	for _, day := range []engine.DayType{engine.DayWeekday, engine.DayWeekend, engine.DayPublicHoliday} {
		s := h.Engine.Schedule(day)
		first, _ := s.FirstMultiplier.Float64()
		overflow, _ := s.OverflowMultiplier.Float64()
		schedules[string(day)] = ScheduleDTO{
			ThresholdMinutes:   int(s.Threshold),
			FirstMultiplier:    first,
			OverflowMultiplier: overflow,
		}
	}

	writeJSON(w, http.StatusOK, ConfigDTO{
		HourlyRate:          h.Engine.HourlyRate().Float64(),
		BlockMinutes:        int(h.Engine.BlockMinutes()),
		OutstationAllowance: h.Engine.OutstationAllowance().Float64(),
		Schedules:           schedules,
		Holidays:            h.Holidays.Keys(),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain error classes to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case session.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case session.IsClientError(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

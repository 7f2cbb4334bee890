/*
handlers.go - HTTP API handlers for the leave planner

PURPOSE:
  Exposes the leave schedule generator via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Modes:
    GET    /api/modes                          Allocation modes

  Schedules:
    POST   /api/schedules                      Generate (optionally save)
    GET    /api/schedules                      List saved schedules
    GET    /api/schedules/{id}                 Saved schedule + day table
    DELETE /api/schedules/{id}                 Delete a saved schedule
    GET    /api/schedules/{id}/days            Day table (JSON, or CSV with ?format=csv)
    GET    /api/schedules/{id}/export.csv      leave_schedule.csv download
    GET    /api/schedules/{id}/export.ics      iCalendar download

  Holidays:
    GET    /api/holidays                       Holidays of a calendar
    POST   /api/holidays                       Add a holiday
    POST   /api/holidays/defaults              Load the bundled Italian table
    DELETE /api/holidays/{id}                  Remove a holiday

  Scenarios:
    GET    /api/scenarios                      Preset policies
    POST   /api/scenarios/{id}/run             Generate from a preset

  Admin:
    POST   /api/reset                          Clear all data, reload default holidays

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Saved schedules and holiday tables (also the holiday calendar)
  - PolicyFactory: Request to Params conversion with defaults
  - Log: Structured logger

REQUEST FLOW:
  1. Parse HTTP request
  2. Build a policy through the factory (defaults, validation)
  3. Generate (pure) and classify against the store's holidays
  4. Optionally persist
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid parameters, diverging policy, malformed body
  - 404: Schedule or holiday not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Preset policies
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/leave-planner/factory"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         generic.Store
	PolicyFactory *factory.PolicyFactory
	Log           *logrus.Logger

	now func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store generic.Store, log *logrus.Logger) *Handler {
	return &Handler{
		Store:         store,
		PolicyFactory: factory.NewPolicyFactory(),
		Log:           log,
		now:           time.Now,
	}
}

// =============================================================================
// MODE HANDLERS
// =============================================================================

// ListModes returns the allocation modes.
func (h *Handler) ListModes(w http.ResponseWriter, r *http.Request) {
	modes := leave.Modes()
	dtos := make([]ModeDTO, len(modes))
	for i, m := range modes {
		dtos[i] = toModeDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GenerateSchedule generates a schedule from a request body.
// POST /api/schedules[?format=csv|ics|days]
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := h.PolicyFactory.FromJSON(req.Policy())
	if err != nil {
		h.writeDomainError(w, r, "Invalid policy", err)
		return
	}
	h.generate(w, r, policy, req.StartDate, req.Save)
}

// generate runs a policy from start and writes the result in the format
// asked for by the query string.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request, policy *factory.Policy, startDate string, save bool) {
	ctx := r.Context()

	start, err := generic.ParseDate(startDate)
	if err != nil {
		h.writeDomainError(w, r, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}

	schedule, err := leave.Generate(policy.At(start))
	if err != nil {
		h.writeDomainError(w, r, "Failed to generate schedule", err)
		return
	}

	status := http.StatusOK
	if save {
		schedule.ID = generic.ScheduleID(uuid.New().String())
		schedule.CreatedAt = generic.TimePoint{Time: h.now().UTC(), Granularity: generic.GranularityHour}
		if err := h.Store.SaveSchedule(ctx, *schedule); err != nil {
			h.writeDomainError(w, r, "Failed to save schedule", err)
			return
		}
		status = http.StatusCreated
	}

	h.logger(r).WithFields(logrus.Fields{
		"mode":        schedule.Params.Mode,
		"start_date":  start.Key(),
		"entries":     len(schedule.Entries),
		"schedule_id": schedule.ID,
	}).Info("schedule generated")

	h.writeSchedule(w, r, status, schedule)
}

// writeSchedule writes s as JSON or, with ?format=, as a download.
func (h *Handler) writeSchedule(w http.ResponseWriter, r *http.Request, status int, s *generic.Schedule) {
	switch r.URL.Query().Get("format") {
	case "csv":
		h.writeExport(w, r, leave.CSVContentType, leave.ExportFilename, func(buf *bytes.Buffer) error {
			return leave.WriteCSV(buf, s)
		})
	case "ics":
		h.writeExport(w, r, leave.ICSContentType, "leave_schedule.ics", func(buf *bytes.Buffer) error {
			return leave.WriteICS(buf, s, "Leave schedule")
		})
	case "days":
		rows := leave.Classify(s, h.Store)
		h.writeExport(w, r, leave.CSVContentType, "leave_days.csv", func(buf *bytes.Buffer) error {
			return leave.WriteDaysCSV(buf, rows)
		})
	default:
		writeJSON(w, status, toScheduleDTO(s, leave.Classify(s, h.Store)))
	}
}

// ListSchedules returns saved schedules, newest first.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Store.ListSchedules(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list schedules", err)
		return
	}

	dtos := make([]ScheduleSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSchedule returns a saved schedule with its day table.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}
	h.writeSchedule(w, r, http.StatusOK, s)
}

// DeleteSchedule deletes a saved schedule.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := generic.ScheduleID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteSchedule(r.Context(), id); err != nil {
		h.writeDomainError(w, r, "Failed to delete schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id})
}

// GetScheduleDays returns the dense day table of a saved schedule.
func (h *Handler) GetScheduleDays(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}

	rows := leave.Classify(s, h.Store)
	if r.URL.Query().Get("format") == "csv" {
		h.writeExport(w, r, leave.CSVContentType, "leave_days.csv", func(buf *bytes.Buffer) error {
			return leave.WriteDaysCSV(buf, rows)
		})
		return
	}
	writeJSON(w, http.StatusOK, toDayRowDTOs(rows))
}

// ExportCSV downloads a saved schedule as leave_schedule.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}
	h.writeExport(w, r, leave.CSVContentType, leave.ExportFilename, func(buf *bytes.Buffer) error {
		return leave.WriteCSV(buf, s)
	})
}

// ExportICS downloads a saved schedule as an iCalendar file.
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}
	h.writeExport(w, r, leave.ICSContentType, "leave_schedule.ics", func(buf *bytes.Buffer) error {
		return leave.WriteICS(buf, s, "Leave schedule "+string(s.ID))
	})
}

func (h *Handler) loadSchedule(w http.ResponseWriter, r *http.Request) (*generic.Schedule, bool) {
	id := generic.ScheduleID(chi.URLParam(r, "id"))

	s, err := h.Store.GetSchedule(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get schedule", err)
		return nil, false
	}
	return s, true
}

// writeExport renders into a buffer first so that a failed render can
// still produce a JSON error instead of a truncated download.
func (h *Handler) writeExport(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.writeDomainError(w, r, "Failed to export schedule", err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns all holidays of a calendar.
// GET /api/holidays?calendar_id=it
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	calendarID := r.URL.Query().Get("calendar_id")
	if calendarID == "" {
		calendarID = h.PolicyFactory.CalendarID
	}

	holidays, err := h.Store.GetAllHolidays(r.Context(), calendarID)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}

	writeJSON(w, http.StatusOK, map[string]any{"calendar_id": calendarID, "holidays": dtos})
}

// CreateHoliday creates a new holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Date == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	date, err := generic.ParseDate(req.Date)
	if err != nil {
		h.writeDomainError(w, r, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := generic.Holiday{
		ID:         "holiday-" + uuid.New().String(),
		CalendarID: req.CalendarID,
		Date:       date,
		Name:       req.Name,
		Recurring:  req.Recurring,
	}

	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		h.writeDomainError(w, r, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		h.writeDomainError(w, r, "Failed to delete holiday", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// AddDefaultHolidays loads the bundled Italian holiday table.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CalendarID string `json:"calendar_id"`
	}
	// An empty body means the default calendar.
	json.NewDecoder(r.Body).Decode(&req)
	if req.CalendarID == "" {
		req.CalendarID = leave.CalendarItaly
	}

	count, err := SeedHolidays(r.Context(), h.Store, req.CalendarID)
	if err != nil {
		h.writeDomainError(w, r, "Failed to add default holidays", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":      "created",
		"calendar_id": req.CalendarID,
		"count":       count,
	})
}

// SeedHolidays saves the bundled Italian table under calendarID.
func SeedHolidays(ctx context.Context, store generic.HolidayStore, calendarID string) (int, error) {
	holidays := leave.ItalianHolidays2025()
	for _, hol := range holidays {
		hol.CalendarID = calendarID
		hol.ID = "holiday-" + calendarID + "-" + hol.Date.Key()
		if err := store.SaveHoliday(ctx, hol); err != nil {
			return 0, err
		}
	}
	return len(holidays), nil
}

// =============================================================================
// ADMIN
// =============================================================================

// ResetDatabase clears all data and reloads the default holiday table.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	count, err := SeedHolidays(r.Context(), h.Store, h.PolicyFactory.CalendarID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload holidays", err)
		return
	}

	h.logger(r).WithField("holidays", count).Warn("database reset")
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "holidays": count})
}

// =============================================================================
// HELPERS
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

// writeDomainError maps domain errors to status codes. Unexpected errors
// are logged; client errors are not.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	resp := ErrorResponse{Error: message, Details: err.Error()}

	var ipe *generic.InvalidParametersError
	switch {
	case errors.As(err, &ipe):
		resp.Code = "invalid_parameters"
		resp.Details = map[string]string{"field": ipe.Field, "reason": ipe.Reason}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, generic.ErrPolicyDivergence):
		resp.Code = "policy_divergence"
		writeJSON(w, http.StatusBadRequest, resp)
	case generic.IsClientError(err):
		resp.Code = "invalid_parameters"
		writeJSON(w, http.StatusBadRequest, resp)
	case generic.IsNotFound(err):
		resp.Code = "not_found"
		writeJSON(w, http.StatusNotFound, resp)
	default:
		h.logger(r).WithError(err).Error(message)
		resp.Code = "internal"
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

// logger returns the request-scoped logger.
func (h *Handler) logger(r *http.Request) *logrus.Entry {
	return h.Log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
}

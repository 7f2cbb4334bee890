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

TYPES:
  Schedules:
    GenerateRequest, ScheduleDTO, ScheduleSummaryDTO, EntryDTO, DayRowDTO

  Modes:
    ModeDTO

  Holidays:
    HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO, RunScenarioRequest

VALIDATION:
  Validation is done in handlers and the policy factory, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON type
*/
package api

import (
	"time"

	"github.com/warp/leave-planner/factory"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// SCHEDULE TYPES
// =============================================================================

// GenerateRequest is the request to generate a schedule. Omitted fields
// take the policy factory defaults.
type GenerateRequest struct {
	StartDate         string `json:"start_date"`
	Mode              string `json:"mode"`
	TotalBudget       *int   `json:"total_budget,omitempty"`
	VacationDayBudget int    `json:"vacation_day_budget,omitempty"`
	CalendarID        string `json:"calendar_id,omitempty"`
	MaxIterations     int    `json:"max_iterations,omitempty"`
	Save              bool   `json:"save,omitempty"`
}

// Policy converts the request into a policy document.
func (r GenerateRequest) Policy() factory.PolicyJSON {
	return factory.PolicyJSON{
		Mode:          r.Mode,
		TotalBudget:   r.TotalBudget,
		VacationDays:  r.VacationDayBudget,
		CalendarID:    r.CalendarID,
		MaxIterations: r.MaxIterations,
	}
}

// EntryDTO is one generated entry.
type EntryDTO struct {
	Date       string  `json:"date"`
	Category   string  `json:"category"`
	Type       string  `json:"type"`
	Duration   float64 `json:"duration"`
	Unit       string  `json:"unit"`
	Sequence   int     `json:"sequence,omitempty"`
	Chargeable bool    `json:"chargeable"`
}

// DayRowDTO is one row of the dense day table.
type DayRowDTO struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Value    int    `json:"value"`
	Sequence int    `json:"sequence,omitempty"`
	Holiday  string `json:"holiday,omitempty"`
}

// ScheduleDTO represents a generated (and possibly saved) schedule.
type ScheduleDTO struct {
	ID                string         `json:"id,omitempty"`
	StartDate         string         `json:"start_date"`
	Mode              string         `json:"mode"`
	TotalBudget       int            `json:"total_budget"`
	VacationDayBudget int            `json:"vacation_day_budget"`
	CalendarID        string         `json:"calendar_id"`
	ChargedDays       float64        `json:"charged_days"`
	Remaining         float64        `json:"remaining"`
	RemainingUnit     string         `json:"remaining_unit"`
	VacationDaysLeft  int            `json:"vacation_days_left"`
	FirstDay          string         `json:"first_day"`
	LastDay           string         `json:"last_day"`
	Entries           []EntryDTO     `json:"entries"`
	Days              []DayRowDTO    `json:"days,omitempty"`
	Tally             map[string]int `json:"tally,omitempty"`
	CreatedAt         string         `json:"created_at,omitempty"`

	// Policy is the document that reproduces this schedule via
	// POST /api/schedules together with start_date.
	Policy factory.PolicyJSON `json:"policy"`
}

// ScheduleSummaryDTO is the list view of a saved schedule.
type ScheduleSummaryDTO struct {
	ID                string `json:"id"`
	StartDate         string `json:"start_date"`
	Mode              string `json:"mode"`
	TotalBudget       int    `json:"total_budget"`
	VacationDayBudget int    `json:"vacation_day_budget"`
	CalendarID        string `json:"calendar_id"`
	Entries           int    `json:"entries"`
	CreatedAt         string `json:"created_at"`
}

// ModeDTO describes an allocation mode.
type ModeDTO struct {
	Mode        string  `json:"mode"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Block       float64 `json:"block,omitempty"`
	BlockUnit   string  `json:"block_unit,omitempty"`
}

// =============================================================================
// HOLIDAY TYPES
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID         string `json:"id"`
	CalendarID string `json:"calendar_id"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	Recurring  bool   `json:"recurring"`
}

// CreateHolidayRequest is the request to add a holiday.
type CreateHolidayRequest struct {
	CalendarID string `json:"calendar_id"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	Recurring  bool   `json:"recurring"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO represents a preset policy.
type ScenarioDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Policy      factory.PolicyJSON `json:"policy"`
}

// RunScenarioRequest binds a preset to a start date.
type RunScenarioRequest struct {
	StartDate string `json:"start_date"`
	Save      bool   `json:"save,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEntryDTO(e generic.Entry) EntryDTO {
	return EntryDTO{
		Date:       e.Date.Key(),
		Category:   string(e.Category),
		Type:       e.Category.Label(),
		Duration:   e.Duration.Float64(),
		Unit:       string(e.Duration.Unit),
		Sequence:   e.Sequence,
		Chargeable: e.Chargeable,
	}
}

func toDayRowDTOs(rows []generic.DayRow) []DayRowDTO {
	dtos := make([]DayRowDTO, len(rows))
	for i, r := range rows {
		dtos[i] = DayRowDTO{
			Date:     r.Date.Key(),
			Category: string(r.Category),
			Type:     r.Category.Label(),
			Value:    r.Category.Value(),
			Sequence: r.Sequence,
			Holiday:  r.HolidayName,
		}
	}
	return dtos
}

// toScheduleDTO converts a schedule. Rows are optional; nil omits the day table.
func toScheduleDTO(s *generic.Schedule, rows []generic.DayRow) ScheduleDTO {
	dto := ScheduleDTO{
		ID:                string(s.ID),
		StartDate:         s.Params.StartDate.Key(),
		Mode:              string(s.Params.Mode),
		TotalBudget:       s.Params.TotalBudget,
		VacationDayBudget: s.Params.VacationDays,
		CalendarID:        s.Params.CalendarID,
		ChargedDays:       s.Charged().Float64(),
		Remaining:         s.Remaining.Float64(),
		RemainingUnit:     string(s.Remaining.Unit),
		VacationDaysLeft:  s.Vacation,
		Entries:           make([]EntryDTO, len(s.Entries)),
		Policy:            factory.ToJSON(string(s.ID), "", s.Params),
	}
	for i, e := range s.Entries {
		dto.Entries[i] = toEntryDTO(e)
	}
	if span, ok := s.Span(); ok {
		dto.FirstDay = span.Start.Key()
		dto.LastDay = span.End.Key()
	}
	if !s.CreatedAt.IsZero() {
		dto.CreatedAt = s.CreatedAt.Time.Format(time.RFC3339)
	}
	if rows != nil {
		dto.Days = toDayRowDTOs(rows)
		dto.Tally = make(map[string]int, len(generic.Categories))
		for c, n := range leave.Tally(rows) {
			dto.Tally[string(c)] = n
		}
	}
	return dto
}

func toSummaryDTO(s generic.ScheduleSummary) ScheduleSummaryDTO {
	return ScheduleSummaryDTO{
		ID:                string(s.ID),
		StartDate:         s.Params.StartDate.Key(),
		Mode:              string(s.Params.Mode),
		TotalBudget:       s.Params.TotalBudget,
		VacationDayBudget: s.Params.VacationDays,
		CalendarID:        s.Params.CalendarID,
		Entries:           s.Entries,
		CreatedAt:         s.CreatedAt.Time.Format(time.RFC3339),
	}
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:         h.ID,
		CalendarID: h.CalendarID,
		Date:       h.Date.Key(),
		Name:       h.Name,
		Recurring:  h.Recurring,
	}
}

func toModeDTO(m leave.ModeInfo) ModeDTO {
	dto := ModeDTO{
		Mode:        string(m.Mode),
		Name:        m.Name,
		Description: m.Description,
	}
	if !m.Block.IsZero() {
		dto.Block = m.Block.Float64()
		dto.BlockUnit = string(m.Block.Unit)
	}
	return dto
}

/*
scenarios.go - Preset policies for demos and the planner pages

PURPOSE:

	The planner used to ship as six near-identical pages, each hard-wiring
	one allocation policy. Each page is now a scenario: a named policy
	document that can be run against any start date.

AVAILABLE SCENARIOS:

	ferie-optimizer: Weekend bridging with 10 ferie (the default page)
	ferie-generous:  Weekend bridging with 26 ferie
	leave-only:      Weekend bridging with no ferie
	blocks-days:     5-day blocks
	blocks-months:   30-day blocks
	blocks-hours:    120-hour blocks

HOW SCENARIOS WORK:
 1. The scenario's policy JSON is parsed by the handler's PolicyFactory
 2. The request supplies the start date (default: today)
 3. Generation and classification run as for POST /api/schedules

USAGE VIA API:

	POST /api/scenarios/ferie-optimizer/run
	{"start_date": "2025-01-06", "save": true}

ADDING NEW SCENARIOS:
 1. Add to the 'scenarios' slice with ID, name, description
 2. Give it a policy document (see leave/presets.go)

SEE ALSO:
  - handlers.go: Shared generate path
  - leave/presets.go: Policy JSON definitions
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	document string
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "ferie-optimizer",
			Name:        "Parental Leave Maximizer",
			Description: "Ferie on Monday and Friday bridge the weekend; 10 ferie",
		},
		document: leave.FerieOptimizerJSON("ferie-optimizer", "Parental Leave Maximizer", 10),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "ferie-generous",
			Name:        "Full Ferie Allowance",
			Description: "Weekend bridging with a full year of ferie (26 days)",
		},
		document: leave.FerieOptimizerJSON("ferie-generous", "Full Ferie Allowance", 26),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "leave-only",
			Name:        "Leave Only",
			Description: "Weekend bridging without ferie: weekdays charged, weekends free",
		},
		document: leave.FerieOptimizerJSON("leave-only", "Leave Only", 0),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "blocks-days",
			Name:        "Days",
			Description: "Leave in blocks of 5 days",
		},
		document: leave.FixedBlockJSON("blocks-days", "Days", generic.ModeFixedDays),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "blocks-months",
			Name:        "Months",
			Description: "Leave in blocks of 30 days",
		},
		document: leave.FixedBlockJSON("blocks-months", "Months", generic.ModeFixedMonths),
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "blocks-hours",
			Name:        "Hours",
			Description: "Leave in blocks of 120 hours",
		},
		document: leave.FixedBlockJSON("blocks-hours", "Hours", generic.ModeFixedHours),
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios with their policy documents.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, 0, len(scenarios))
	for _, s := range scenarios {
		dto := s.ScenarioDTO
		if err := json.Unmarshal([]byte(s.document), &dto.Policy); err != nil {
			h.writeDomainError(w, r, "Invalid scenario "+s.ID, err)
			return
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RunScenario generates a schedule from a preset.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := findScenario(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}

	var req RunScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StartDate == "" {
		req.StartDate = generic.FromTime(h.now()).Key()
	}

	// Budget and calendar come from the document; the iteration cap
	// follows the handler's factory.
	policy, err := h.PolicyFactory.ParsePolicy(s.document)
	if err != nil {
		h.writeDomainError(w, r, "Invalid scenario policy", err)
		return
	}
	h.generate(w, r, policy, req.StartDate, req.Save)
}

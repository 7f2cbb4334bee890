/*
presets.go - Policy documents for the planner variants

PURPOSE:
  The planner used to ship as separate pages, one per allocation policy.
  Each page is now a preset: a policy JSON document accepted by
  factory.PolicyFactory. Presets omit the start date; it is supplied
  per request.

AVAILABLE PRESETS:
  FerieOptimizerJSON: Weekend bridging with a ferie allowance
  FixedBlockJSON:     Days / Months / Hours block allocation

SEE ALSO:
  - factory/policy.go: Parses these documents
  - api/scenarios.go: Exposes them as runnable scenarios
*/
package leave

import (
	"encoding/json"

	"github.com/warp/leave-planner/generic"
)

// FerieOptimizerJSON returns the weekend-bridging policy.
func FerieOptimizerJSON(id, name string, ferie int) string {
	pj := map[string]interface{}{
		"id":                  id,
		"name":                name,
		"mode":                string(generic.ModeWeekendBridging),
		"total_budget":        generic.DefaultTotalBudget,
		"vacation_day_budget": ferie,
		"calendar_id":         CalendarItaly,
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

// FixedBlockJSON returns a block allocation policy.
func FixedBlockJSON(id, name string, mode generic.AllocationMode) string {
	pj := map[string]interface{}{
		"id":           id,
		"name":         name,
		"mode":         string(mode),
		"total_budget": generic.DefaultTotalBudget,
		"calendar_id":  CalendarItaly,
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

/*
Package factory provides JSON to Go policy conversion.

PURPOSE:
  Converts JSON policy documents into generic.Params. A policy is
  everything about a generation run except the start date, so the same
  document serves every request made against it.

JSON SCHEMA:
  {
    "id": "ferie-optimizer",
    "name": "Parental Leave Maximizer",
    "mode": "weekend_bridging",
    "total_budget": 180,
    "vacation_day_budget": 10,
    "calendar_id": "it",
    "max_iterations": 10000
  }

DEFAULTS:
  total_budget    180 (statutory cap) unless the factory was built with another
  calendar_id     the factory default
  max_iterations  generic.DefaultMaxIterations

MODES:
  The identifiers of generic.AllocationMode, or the labels of the old
  form selector ("Days", "Months", "Hours").

USAGE:
  f := factory.NewPolicyFactory()
  policy, err := f.ParsePolicy(leave.FerieOptimizerJSON("ferie", "Ferie", 10))
  params := policy.At(generic.NewTimePoint(2025, time.January, 6))

SEE ALSO:
  - leave/presets.go: Preset documents
  - generic/types.go: Params
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a policy.
type PolicyJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Mode          string `json:"mode"`
	TotalBudget   *int   `json:"total_budget,omitempty"`
	VacationDays  int    `json:"vacation_day_budget,omitempty"`
	CalendarID    string `json:"calendar_id,omitempty"`
	MaxIterations int    `json:"max_iterations,omitempty"`
}

// Policy is a parsed, validated policy without a start date.
type Policy struct {
	ID     string
	Name   string
	Params generic.Params
}

// At binds the policy to a start date.
func (p *Policy) At(start generic.TimePoint) generic.Params {
	params := p.Params
	params.StartDate = start
	return params
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to Go structs.
type PolicyFactory struct {
	TotalBudget   int
	CalendarID    string
	MaxIterations int
}

// NewPolicyFactory creates a policy factory with the statutory defaults.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{
		TotalBudget:   generic.DefaultTotalBudget,
		CalendarID:    leave.CalendarItaly,
		MaxIterations: generic.DefaultMaxIterations,
	}
}

// ParsePolicy parses a JSON string into a Policy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (*Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PolicyJSON into a Policy, applying defaults.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (*Policy, error) {
	mode, err := leave.ParseMode(pj.Mode)
	if err != nil {
		return nil, err
	}

	params := generic.Params{
		Mode:          mode,
		TotalBudget:   f.TotalBudget,
		VacationDays:  pj.VacationDays,
		CalendarID:    f.CalendarID,
		MaxIterations: f.MaxIterations,
	}
	if pj.TotalBudget != nil {
		params.TotalBudget = *pj.TotalBudget
	}
	if pj.CalendarID != "" {
		params.CalendarID = pj.CalendarID
	}
	if pj.MaxIterations != 0 {
		params.MaxIterations = pj.MaxIterations
	}

	if params.TotalBudget <= 0 {
		return nil, &generic.InvalidParametersError{Field: "total_budget", Reason: "must be positive"}
	}
	if params.VacationDays < 0 {
		return nil, &generic.InvalidParametersError{Field: "vacation_day_budget", Reason: "must not be negative"}
	}
	if params.MaxIterations < 0 {
		return nil, &generic.InvalidParametersError{Field: "max_iterations", Reason: "must not be negative"}
	}
	// The factory's own cap is a ceiling: documents may lower it, never raise it.
	if f.MaxIterations > 0 && params.MaxIterations > f.MaxIterations {
		return nil, &generic.InvalidParametersError{
			Field:  "max_iterations",
			Reason: fmt.Sprintf("must not exceed %d", f.MaxIterations),
		}
	}

	return &Policy{ID: pj.ID, Name: pj.Name, Params: params}, nil
}

// ToJSON converts Params back into a PolicyJSON.
func ToJSON(id, name string, p generic.Params) PolicyJSON {
	budget := p.TotalBudget
	return PolicyJSON{
		ID:            id,
		Name:          name,
		Mode:          string(p.Mode),
		TotalBudget:   &budget,
		VacationDays:  p.VacationDays,
		CalendarID:    p.CalendarID,
		MaxIterations: p.MaxIterations,
	}
}

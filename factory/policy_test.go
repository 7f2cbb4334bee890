package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-planner/factory"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

func TestParsePolicy_FerieOptimizerPreset(t *testing.T) {
	// GIVEN: The ferie optimizer preset with 10 ferie
	f := factory.NewPolicyFactory()

	// WHEN: Parsing and binding to a start date
	policy, err := f.ParsePolicy(leave.FerieOptimizerJSON("ferie", "Parental Leave Maximizer", 10))
	require.NoError(t, err)
	p := policy.At(generic.NewTimePoint(2025, time.January, 6))

	// THEN: Every field survives
	assert.Equal(t, "ferie", policy.ID)
	assert.Equal(t, "Parental Leave Maximizer", policy.Name)
	assert.Equal(t, generic.ModeWeekendBridging, p.Mode)
	assert.Equal(t, 180, p.TotalBudget)
	assert.Equal(t, 10, p.VacationDays)
	assert.Equal(t, leave.CalendarItaly, p.CalendarID)
	assert.Equal(t, "2025-01-06", p.StartDate.Key())
	assert.True(t, policy.Params.StartDate.IsZero(), "At must not mutate the policy")
}

func TestParsePolicy_Defaults(t *testing.T) {
	f := &factory.PolicyFactory{TotalBudget: 90, CalendarID: "de", MaxIterations: 42}

	policy, err := f.ParsePolicy(`{"id":"x","mode":"Days"}`)
	require.NoError(t, err)

	assert.Equal(t, generic.ModeFixedDays, policy.Params.Mode)
	assert.Equal(t, 90, policy.Params.TotalBudget)
	assert.Equal(t, "de", policy.Params.CalendarID)
	assert.Equal(t, 42, policy.Params.MaxIterations)
	assert.Equal(t, 0, policy.Params.VacationDays)
}

func TestParsePolicy_IterationCeiling(t *testing.T) {
	// GIVEN: A factory capped at 42 iterations
	f := &factory.PolicyFactory{TotalBudget: 90, CalendarID: "it", MaxIterations: 42}

	// WHEN: A document asks for a lower and a higher cap
	lower, err := f.ParsePolicy(`{"mode":"Days","max_iterations":10}`)
	require.NoError(t, err)
	_, err = f.ParsePolicy(`{"mode":"Days","max_iterations":43}`)

	// THEN: Lowering is allowed, raising is rejected
	assert.Equal(t, 10, lower.Params.MaxIterations)
	var ipe *generic.InvalidParametersError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "max_iterations", ipe.Field)
	assert.Contains(t, ipe.Reason, "42")
}

func TestParsePolicy_FormLabels(t *testing.T) {
	f := factory.NewPolicyFactory()
	for label, want := range map[string]generic.AllocationMode{
		"Days":   generic.ModeFixedDays,
		"Months": generic.ModeFixedMonths,
		"Hours":  generic.ModeFixedHours,
	} {
		policy, err := f.ParsePolicy(leave.FixedBlockJSON("p", label, generic.AllocationMode(label)))
		require.NoError(t, err, label)
		assert.Equal(t, want, policy.Params.Mode)
	}
}

func TestParsePolicy_Errors(t *testing.T) {
	f := factory.NewPolicyFactory()

	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"unknown mode", `{"mode":"Weeks"}`, "mode"},
		{"zero budget", `{"mode":"Days","total_budget":0}`, "total_budget"},
		{"negative ferie", `{"mode":"weekend_bridging","vacation_day_budget":-1}`, "vacation_day_budget"},
		{"negative cap", `{"mode":"Days","max_iterations":-1}`, "max_iterations"},
		{"cap above ceiling", `{"mode":"Days","max_iterations":10001}`, "max_iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParsePolicy(tt.json)

			var ipe *generic.InvalidParametersError
			require.ErrorAs(t, err, &ipe)
			assert.Equal(t, tt.field, ipe.Field)
		})
	}

	_, err := f.ParsePolicy(`{not json`)
	assert.Error(t, err)
	assert.False(t, generic.IsClientError(err))
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := factory.NewPolicyFactory()
	p := generic.Params{
		Mode:          generic.ModeFixedMonths,
		TotalBudget:   150,
		VacationDays:  3,
		CalendarID:    "it",
		MaxIterations: 500,
	}

	policy, err := f.FromJSON(factory.ToJSON("m", "Months", p))

	require.NoError(t, err)
	assert.Equal(t, p, policy.Params)
}

package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func days(n int) generic.Amount {
	return generic.NewAmountFromInt(n, generic.UnitDays)
}

func params(mode generic.AllocationMode, start generic.TimePoint, budget, ferie int) generic.Params {
	return generic.Params{
		StartDate:    start,
		Mode:         mode,
		TotalBudget:  budget,
		VacationDays: ferie,
		CalendarID:   leave.CalendarItaly,
	}
}

func mustGenerate(t *testing.T, p generic.Params) *generic.Schedule {
	t.Helper()
	s, err := leave.Generate(p)
	require.NoError(t, err)
	require.NotEmpty(t, s.Entries)
	return s
}

// monday is 2025-01-06, the first Monday of 2025.
var monday = date(2025, time.January, 6)

// =============================================================================
// FIXED BLOCK TESTS
// =============================================================================

func TestFixedDays_TwoBlocks(t *testing.T) {
	// GIVEN: 10 days of budget in 5-day blocks from 2025-01-06
	// WHEN: Generating
	// THEN: Two blocks, 2025-01-06 and 2025-01-11, budget spent exactly

	s := mustGenerate(t, params(generic.ModeFixedDays, monday, 10, 0))

	require.Len(t, s.Entries, 2)
	assert.Equal(t, "2025-01-06", s.Entries[0].Date.Key())
	assert.Equal(t, "2025-01-11", s.Entries[1].Date.Key())
	for i, e := range s.Entries {
		assert.Equal(t, "5", e.Duration.Value.String())
		assert.Equal(t, generic.UnitDays, e.Duration.Unit)
		assert.Equal(t, generic.CategoryLeaveDay, e.Category)
		assert.True(t, e.Chargeable)
		assert.Equal(t, i+1, e.Sequence)
	}
	assert.True(t, s.Remaining.IsZero())
}

func TestFixedDays_ShortLastBlock(t *testing.T) {
	// GIVEN: 12 days of budget
	// THEN: 5 + 5 + 2
	s := mustGenerate(t, params(generic.ModeFixedDays, monday, 12, 0))

	require.Len(t, s.Entries, 3)
	assert.Equal(t, "2", s.Entries[2].Duration.Value.String())
	assert.Equal(t, "2025-01-16", s.Entries[2].Date.Key())
	assert.True(t, s.Charged().Value.Equal(days(12).Value))
}

func TestFixedBlocks_SumEqualsBudget(t *testing.T) {
	tests := []struct {
		mode    generic.AllocationMode
		budget  int
		blocks  int
		stepDay int
	}{
		{generic.ModeFixedDays, 180, 36, 5},
		{generic.ModeFixedMonths, 180, 6, 30},
		{generic.ModeFixedHours, 180, 36, 5},
		{generic.ModeFixedMonths, 45, 2, 30},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			s := mustGenerate(t, params(tt.mode, monday, tt.budget, 0))

			assert.Len(t, s.Entries, tt.blocks)
			assert.True(t, s.Charged().Value.Equal(days(tt.budget).Value),
				"charged %s, want %d", s.Charged().Value, tt.budget)
			assert.True(t, leave.Exhausted(s.Remaining))
			assert.Equal(t, monday.AddDays(tt.stepDay).Key(), s.Entries[1].Date.Key())
		})
	}
}

func TestFixedHours_BlocksInHours(t *testing.T) {
	// GIVEN: Hours mode, 180 days = 4320 hours
	// THEN: 120-hour entries every 5 calendar days
	s := mustGenerate(t, params(generic.ModeFixedHours, monday, 180, 0))

	for i, e := range s.Entries {
		assert.Equal(t, generic.UnitHours, e.Duration.Unit)
		assert.Equal(t, "120", e.Duration.Value.String())
		assert.Equal(t, monday.AddDays(5*i).Key(), e.Date.Key())
	}
	assert.Equal(t, generic.UnitHours, s.Remaining.Unit)
}

// =============================================================================
// WEEKEND BRIDGING TESTS
// =============================================================================

func TestBridging_FirstWindowUsesFerie(t *testing.T) {
	// GIVEN: Monday start, 10 ferie, 180 budget
	// WHEN: Generating
	// THEN: First window has ferie on Monday and Friday and costs no budget

	s := mustGenerate(t, params(generic.ModeWeekendBridging, monday, 180, 10))

	first, second := s.Entries[0], s.Entries[1]
	assert.Equal(t, "2025-01-06", first.Date.Key())
	assert.Equal(t, "2025-01-10", second.Date.Key())
	assert.Equal(t, generic.CategoryVacationDay, first.Category)
	assert.Equal(t, generic.CategoryVacationDay, second.Category)
	assert.False(t, first.Chargeable)
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, 2, second.Sequence)
	assert.Equal(t, "2025-01-13", s.Entries[2].Date.Key(), "next window starts a week later")
}

func TestBridging_FullRun(t *testing.T) {
	// GIVEN: Monday start, 10 ferie, 180 budget
	// THEN: 5 bridged windows, then 36 charged weeks; the last stops on Friday

	s := mustGenerate(t, params(generic.ModeWeekendBridging, monday, 180, 10))
	counts := s.CountByCategory()

	assert.Equal(t, 10, counts[generic.CategoryVacationDay])
	assert.Equal(t, 180, counts[generic.CategoryLeaveDay])
	assert.Equal(t, 70, counts[generic.CategoryWeekend])
	assert.Equal(t, 0, s.Vacation)
	assert.True(t, s.Remaining.IsZero())
	assert.True(t, s.Charged().Value.Equal(days(180).Value))
	assert.Equal(t, "2025-10-17", s.Entries[len(s.Entries)-1].Date.Key())
}

func TestBridging_NoFerie_ChargesWeekdaysOnly(t *testing.T) {
	// GIVEN: Monday start, no ferie
	// THEN: First window is 5 charged weekdays + 2 free weekend days

	s := mustGenerate(t, params(generic.ModeWeekendBridging, monday, 180, 0))

	window := s.Entries[:7]
	charged, weekend := 0, 0
	for _, e := range window {
		if e.Chargeable {
			charged++
			assert.True(t, e.Date.IsWorkday())
		}
		if e.Category == generic.CategoryWeekend {
			weekend++
			assert.Equal(t, 0, e.Sequence)
		}
	}
	assert.Equal(t, 5, charged)
	assert.Equal(t, 2, weekend)
	assert.Equal(t, "2025-01-13", s.Entries[7].Date.Key())
}

func TestBridging_OddFerie_FallsBack(t *testing.T) {
	// GIVEN: 3 ferie
	// THEN: One bridged window, then the leftover ferie day is never used
	s := mustGenerate(t, params(generic.ModeWeekendBridging, monday, 20, 3))

	assert.Equal(t, 2, s.CountByCategory()[generic.CategoryVacationDay])
	assert.Equal(t, 1, s.Vacation)
	assert.Equal(t, 20, s.CountByCategory()[generic.CategoryLeaveDay])
}

func TestBridging_NonWeekendWindow_AdvancesFive(t *testing.T) {
	// GIVEN: Tuesday start; the window ends on a Monday, so it does not span a weekend
	// THEN: Five charged days, next window opens five days later
	tuesday := date(2025, time.January, 7)
	assert.False(t, leave.SpansWeekend(tuesday))

	s := mustGenerate(t, params(generic.ModeWeekendBridging, tuesday, 5, 10))

	require.Len(t, s.Entries, 5)
	for i, e := range s.Entries {
		assert.Equal(t, tuesday.AddDays(i).Key(), e.Date.Key())
		assert.True(t, e.Chargeable)
	}
	assert.Equal(t, 10, s.Vacation, "ferie untouched")
}

func TestBridging_NeverOverspendsBudget(t *testing.T) {
	for _, budget := range []int{1, 3, 7, 11, 179} {
		s := mustGenerate(t, params(generic.ModeWeekendBridging, monday, budget, 0))
		assert.True(t, s.Charged().Value.Equal(days(budget).Value), "budget %d", budget)
		assert.True(t, s.Remaining.IsZero(), "budget %d", budget)
	}
}

// =============================================================================
// ORDERING & SEQUENCE TESTS
// =============================================================================

func TestAllModes_StartAndOrder(t *testing.T) {
	starts := []generic.TimePoint{monday, date(2025, time.January, 8), date(2025, time.March, 1)}

	for _, m := range leave.Modes() {
		for _, start := range starts {
			s := mustGenerate(t, params(m.Mode, start, 180, 10))

			assert.Equal(t, start.Key(), s.Entries[0].Date.Key(), "%s from %s", m.Mode, start)
			for i := 1; i < len(s.Entries); i++ {
				assert.False(t, s.Entries[i].Date.Before(s.Entries[i-1].Date),
					"%s: entry %d out of order", m.Mode, i)
			}

			next := map[generic.Category]int{}
			for _, e := range s.Entries {
				if e.Category == generic.CategoryWeekend {
					continue
				}
				next[e.Category]++
				assert.Equal(t, next[e.Category], e.Sequence)
			}
		}
	}
}

func TestSequence_Restartable(t *testing.T) {
	seq, err := leave.NewSequence(params(generic.ModeWeekendBridging, monday, 30, 4))
	require.NoError(t, err)

	collect := func() []string {
		var out []string
		for e, err := range seq.All() {
			require.NoError(t, err)
			out = append(out, e.Date.Key()+"/"+string(e.Category))
		}
		return out
	}

	first := collect()
	second := collect()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestSequence_StopsEarly(t *testing.T) {
	seq, err := leave.NewSequence(params(generic.ModeFixedDays, monday, 180, 0))
	require.NoError(t, err)

	n := 0
	for range seq.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestExhausted(t *testing.T) {
	assert.True(t, leave.Exhausted(days(0)))
	assert.True(t, leave.Exhausted(days(-2)))
	assert.False(t, leave.Exhausted(days(1)))
	assert.False(t, leave.Exhausted(generic.NewAmount(0.5, generic.UnitHours)))
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestGenerate_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		p     generic.Params
		field string
	}{
		{"zero budget", params(generic.ModeFixedDays, monday, 0, 0), "total_budget"},
		{"negative budget", params(generic.ModeFixedDays, monday, -5, 0), "total_budget"},
		{"missing start", params(generic.ModeFixedDays, generic.TimePoint{}, 10, 0), "start_date"},
		{"unknown mode", params("fortnightly", monday, 10, 0), "mode"},
		{"negative ferie", params(generic.ModeWeekendBridging, monday, 10, -2), "vacation_day_budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := leave.Generate(tt.p)

			assert.Nil(t, s)
			assert.ErrorIs(t, err, generic.ErrInvalidParameters)
			var ipe *generic.InvalidParametersError
			require.ErrorAs(t, err, &ipe)
			assert.Equal(t, tt.field, ipe.Field)
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestGenerate_DivergenceGuard(t *testing.T) {
	// GIVEN: A ferie allowance so large the budget is never touched
	// WHEN: The iteration cap is small
	// THEN: ErrPolicyDivergence, no schedule

	p := params(generic.ModeWeekendBridging, monday, 180, 1_000_000)
	p.MaxIterations = 50

	s, err := leave.Generate(p)

	assert.Nil(t, s)
	assert.ErrorIs(t, err, generic.ErrPolicyDivergence)
	var pde *generic.PolicyDivergenceError
	require.ErrorAs(t, err, &pde)
	assert.Equal(t, 50, pde.Iterations)
}

func TestSequence_DivergenceYieldsError(t *testing.T) {
	p := params(generic.ModeWeekendBridging, monday, 180, 1_000_000)
	p.MaxIterations = 3

	seq, err := leave.NewSequence(p)
	require.NoError(t, err)

	var entries int
	var last error
	for _, err := range seq.All() {
		if err != nil {
			last = err
			continue
		}
		entries++
	}
	assert.Equal(t, 6, entries)
	assert.ErrorIs(t, last, generic.ErrPolicyDivergence)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]generic.AllocationMode{
		"Days":             generic.ModeFixedDays,
		"Months":           generic.ModeFixedMonths,
		"Hours":            generic.ModeFixedHours,
		"weekend_bridging": generic.ModeWeekendBridging,
	} {
		got, err := leave.ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := leave.ParseMode("Weeks")
	assert.ErrorIs(t, err, generic.ErrInvalidParameters)
}

package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/leave"
)

func italianCalendar() generic.HolidayCalendar {
	return generic.NewStaticCalendar(leave.HolidayTable(leave.ItalianHolidays2025()))
}

func rowsByDate(rows []generic.DayRow) map[string]generic.DayRow {
	out := make(map[string]generic.DayRow, len(rows))
	for _, r := range rows {
		out[r.Date.Key()] = r
	}
	return out
}

func TestClassify_FixedDays(t *testing.T) {
	// GIVEN: 10 days in 5-day blocks from Epiphany 2025
	// WHEN: Classifying against the Italian calendar
	// THEN: Dense rows 01-06..01-15, holiday and weekend override leave

	s := mustGenerate(t, params(generic.ModeFixedDays, monday, 10, 0))
	rows := leave.Classify(s, italianCalendar())

	require.Len(t, rows, 10)
	assert.Equal(t, "2025-01-06", rows[0].Date.Key())
	assert.Equal(t, "2025-01-15", rows[9].Date.Key())

	byDate := rowsByDate(rows)
	assert.Equal(t, generic.CategoryPublicHoliday, byDate["2025-01-06"].Category)
	assert.Equal(t, "Epiphany", byDate["2025-01-06"].HolidayName)
	assert.Equal(t, generic.CategoryWeekend, byDate["2025-01-11"].Category)
	assert.Equal(t, generic.CategoryWeekend, byDate["2025-01-12"].Category)

	leaveDays := []string{"2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10", "2025-01-13", "2025-01-14", "2025-01-15"}
	for i, d := range leaveDays {
		assert.Equal(t, generic.CategoryLeaveDay, byDate[d].Category, d)
		assert.Equal(t, i+1, byDate[d].Sequence, d)
	}
	assert.Equal(t, 0, byDate["2025-01-11"].Sequence)
}

func TestClassify_BridgingWindow(t *testing.T) {
	// GIVEN: Ferie on Monday and Friday of the Epiphany week
	// THEN: Monday shows the holiday, Friday the ferie, midweek is working

	s := mustGenerate(t, params(generic.ModeWeekendBridging, monday, 10, 2))
	byDate := rowsByDate(leave.Classify(s, italianCalendar()))

	assert.Equal(t, generic.CategoryPublicHoliday, byDate["2025-01-06"].Category)
	assert.Equal(t, generic.CategoryWorkingDay, byDate["2025-01-07"].Category)
	assert.Equal(t, generic.CategoryVacationDay, byDate["2025-01-10"].Category)
	assert.Equal(t, 1, byDate["2025-01-10"].Sequence, "holiday-masked ferie is not numbered")
	assert.Equal(t, generic.CategoryWeekend, byDate["2025-01-11"].Category)
	assert.Equal(t, generic.CategoryLeaveDay, byDate["2025-01-13"].Category)
}

func TestClassify_WeekendBeatsHoliday(t *testing.T) {
	// GIVEN: A holiday falling on a Saturday
	calendar := generic.NewStaticCalendar(map[string]string{"2025-01-11": "Saturday Feast"})
	s := mustGenerate(t, params(generic.ModeFixedDays, monday, 10, 0))

	byDate := rowsByDate(leave.Classify(s, calendar))

	assert.Equal(t, generic.CategoryWeekend, byDate["2025-01-11"].Category)
	assert.Equal(t, generic.CategoryLeaveDay, byDate["2025-01-06"].Category)
}

func TestClassify_HourBlocksCoverWholeDays(t *testing.T) {
	// GIVEN: One 120-hour block
	s := mustGenerate(t, params(generic.ModeFixedHours, monday, 5, 0))

	rows := leave.Classify(s, nil)

	assert.Len(t, rows, 5)
	counts := leave.Tally(rows)
	assert.Equal(t, 5, counts[generic.CategoryLeaveDay])
	assert.Equal(t, 0, counts[generic.CategoryPublicHoliday])
}

func TestClassify_EmptySchedule(t *testing.T) {
	assert.Nil(t, leave.Classify(&generic.Schedule{}, nil))
}

func TestTally_AllCategoriesPresent(t *testing.T) {
	rows := []generic.DayRow{
		{Date: date(2025, time.March, 3), Category: generic.CategoryLeaveDay},
		{Date: date(2025, time.March, 4), Category: generic.CategoryLeaveDay},
	}

	counts := leave.Tally(rows)

	assert.Len(t, counts, len(generic.Categories))
	assert.Equal(t, 2, counts[generic.CategoryLeaveDay])
	assert.Equal(t, 0, counts[generic.CategoryWeekend])
}

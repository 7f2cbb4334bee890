package leave

import (
	"time"

	"github.com/warp/leave-planner/generic"
)

// CalendarItaly is the calendar ID of the bundled Italian table.
const CalendarItaly = "it"

// ItalianHolidays2025 is the seed table for CalendarItaly. Holidays are
// data: other years and locales are loaded through the holiday API.
func ItalianHolidays2025() []generic.Holiday {
	days := []struct {
		month time.Month
		day   int
		name  string
	}{
		{time.January, 1, "New Year's Day"},
		{time.January, 6, "Epiphany"},
		{time.April, 25, "Liberation Day"},
		{time.May, 1, "Labor Day"},
		{time.June, 2, "Republic Day"},
		{time.August, 15, "Assumption of Mary"},
		{time.November, 1, "All Saints' Day"},
		{time.December, 8, "Immaculate Conception"},
		{time.December, 25, "Christmas Day"},
		{time.December, 26, "St. Stephen's Day"},
	}

	out := make([]generic.Holiday, len(days))
	for i, d := range days {
		date := generic.NewTimePoint(2025, d.month, d.day)
		out[i] = generic.Holiday{
			ID:         "holiday-" + CalendarItaly + "-" + date.Key(),
			CalendarID: CalendarItaly,
			Date:       date,
			Name:       d.name,
		}
	}
	return out
}

// HolidayTable flattens holidays into the YYYY-MM-DD -> name shape
// accepted by generic.NewStaticCalendar.
func HolidayTable(holidays []generic.Holiday) map[string]string {
	table := make(map[string]string, len(holidays))
	for _, h := range holidays {
		table[h.Date.Key()] = h.Name
	}
	return table
}

package leave

import "github.com/warp/leave-planner/generic"

// =============================================================================
// CATEGORY ASSIGNMENT PASS
// =============================================================================

// Classify expands a schedule into one row per calendar day, from the
// first covered day to the last. Each day takes the highest-priority
// category that applies:
//
//	Weekend > PublicHoliday > VacationDay > LeaveDay > WorkingDay
//
// Leave and vacation rows are numbered per category in date order.
func Classify(s *generic.Schedule, calendar generic.HolidayCalendar) []generic.DayRow {
	span, ok := s.Span()
	if !ok {
		return nil
	}

	marked := make(map[string]generic.Category)
	for _, e := range s.Entries {
		if e.Category != generic.CategoryLeaveDay && e.Category != generic.CategoryVacationDay {
			continue
		}
		for _, d := range e.Covers().Days() {
			if rank(e.Category) > rank(marked[d.Key()]) {
				marked[d.Key()] = e.Category
			}
		}
	}
	holidays := generic.HolidayNames(calendar, s.Params.CalendarID, span)

	rows := make([]generic.DayRow, 0, span.Len())
	seq := make(map[generic.Category]int)
	for _, d := range span.Days() {
		row := generic.DayRow{Date: d, Category: generic.CategoryWorkingDay}
		if c, ok := marked[d.Key()]; ok {
			row.Category = c
		}
		if name, ok := holidays[d.Key()]; ok {
			row.Category = generic.CategoryPublicHoliday
			row.HolidayName = name
		}
		if d.IsWeekend() {
			row.Category = generic.CategoryWeekend
		}
		if row.Category == generic.CategoryLeaveDay || row.Category == generic.CategoryVacationDay {
			seq[row.Category]++
			row.Sequence = seq[row.Category]
		}
		rows = append(rows, row)
	}
	return rows
}

// rank orders categories by overlay priority.
func rank(c generic.Category) int {
	switch c {
	case generic.CategoryWeekend:
		return 4
	case generic.CategoryPublicHoliday:
		return 3
	case generic.CategoryVacationDay:
		return 2
	case generic.CategoryLeaveDay:
		return 1
	default:
		return 0
	}
}

// Tally counts rows per category.
func Tally(rows []generic.DayRow) map[generic.Category]int {
	out := make(map[generic.Category]int, len(generic.Categories))
	for _, c := range generic.Categories {
		out[c] = 0
	}
	for _, r := range rows {
		out[r.Category]++
	}
	return out
}

package generic

// =============================================================================
// PERIOD - Inclusive date range covered by a schedule
// =============================================================================

// Period is the closed interval [Start, End] of calendar days.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Len is the number of days in the period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	days := make([]TimePoint, 0, p.Len())
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Extend widens the period so that it also covers t.
func (p Period) Extend(t TimePoint) Period {
	if p.Start.IsZero() || t.Before(p.Start) {
		p.Start = t
	}
	if p.End.IsZero() || t.After(p.End) {
		p.End = t
	}
	return p
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

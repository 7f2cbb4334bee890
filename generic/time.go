package generic

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction (schedules never carry a time of day)
// =============================================================================

// DateLayout is the wire format for every date in the system.
const DateLayout = "2006-01-02"

type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityHour
)

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses a YYYY-MM-DD string. time.Parse rejects impossible
// dates such as 2025-02-30, so a nil error means a real calendar day.
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, &InvalidParametersError{Field: "date", Reason: "missing"}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, &InvalidParametersError{Field: "date", Reason: fmt.Sprintf("not a calendar date: %q", s)}
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	switch tp.Granularity {
	case GranularityHour:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), tp.Time.Hour(), 0, 0, 0, time.UTC)
	default:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, 0, n), Granularity: tp.Granularity}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (tp TimePoint) IsWorkday() bool { return !tp.IsWeekend() }
func (tp TimePoint) IsZero() bool    { return tp.Time.IsZero() }

// Key is the map key used for day lookups.
func (tp TimePoint) Key() string { return tp.normalize().Format(DateLayout) }

func (tp TimePoint) String() string {
	switch tp.Granularity {
	case GranularityHour:
		return tp.Time.Format("2006-01-02 15:00")
	default:
		return tp.Time.Format(DateLayout)
	}
}

// =============================================================================
// HOLIDAY CALENDAR - Public holidays per locale
// =============================================================================

// Holiday is a public holiday. Holidays never count against a leave budget.
type Holiday struct {
	ID         string
	CalendarID string    // Empty string = applies to every calendar
	Date       TimePoint // The holiday date
	Name       string    // e.g. "Epiphany", "Liberation Day"
	Recurring  bool      // true = same month/day every year
}

// InYear returns the holiday as it falls in year. Recurring holidays keep
// their month and day; a recurring Feb 29 does not occur in common years.
func (h Holiday) InYear(year int) (Holiday, bool) {
	if !h.Recurring {
		return h, h.Date.Year() == year
	}
	d := NewTimePoint(year, h.Date.Month(), h.Date.Day())
	if d.Month() != h.Date.Month() {
		return Holiday{}, false
	}
	h.Date = d
	return h, true
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// IsHoliday checks if a date is a holiday in the given calendar.
	IsHoliday(calendarID string, date TimePoint) bool

	// GetHolidays returns all holidays of a calendar in a given year,
	// including global ones. Recurring holidays are moved into that year.
	GetHolidays(calendarID string, year int) []Holiday
}

// StaticCalendar is an injected date -> name table. It answers for any
// calendar ID, which makes it the natural fit for seed data and tests.
type StaticCalendar struct {
	names map[string]string
}

// NewStaticCalendar builds a calendar from a YYYY-MM-DD -> name table.
// Keys that are not dates are ignored.
func NewStaticCalendar(table map[string]string) *StaticCalendar {
	names := make(map[string]string, len(table))
	for k, v := range table {
		d, err := ParseDate(k)
		if err != nil {
			continue
		}
		names[d.Key()] = v
	}
	return &StaticCalendar{names: names}
}

func (c *StaticCalendar) IsHoliday(_ string, date TimePoint) bool {
	_, ok := c.names[date.Key()]
	return ok
}

func (c *StaticCalendar) GetHolidays(calendarID string, year int) []Holiday {
	var out []Holiday
	for k, name := range c.names {
		d, _ := ParseDate(k)
		if d.Year() != year {
			continue
		}
		out = append(out, Holiday{ID: "static-" + k, CalendarID: calendarID, Date: d, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// HolidayNames resolves the holidays of every year touched by p into a
// Key -> name map.
func HolidayNames(calendar HolidayCalendar, calendarID string, p Period) map[string]string {
	names := make(map[string]string)
	if calendar == nil {
		return names
	}
	for year := p.Start.Year(); year <= p.End.Year(); year++ {
		for _, h := range calendar.GetHolidays(calendarID, year) {
			if p.Contains(h.Date) {
				names[h.Date.Key()] = h.Name
			}
		}
	}
	return names
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

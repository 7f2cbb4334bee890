/*
Package generic provides the core types of the leave planning engine.

PURPOSE:
  This package contains the data model shared by the generator, the
  category pass, the exporters and the stores. It knows nothing about
  HTTP, SQL or any particular allocation policy.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 5 days, 120 hours)
  - Category: The closed set of day kinds shown on the calendar
  - Entry: One scheduled unit (a day, or a block of days)
  - Params: Inputs of one generation run
  - Schedule: The ordered, immutable result of a run
  - DayRow: One row of the dense day table handed to renderers

DESIGN PRINCIPLES:
  1. Immutability: Entries are built once and never edited
  2. Precision: Budgets use decimal.Decimal (hours mode carries fractions)
  3. Type Safety: Categories and modes are typed strings

USAGE:
  params := generic.Params{
      StartDate:    generic.NewTimePoint(2025, time.January, 6),
      Mode:         generic.ModeWeekendBridging,
      TotalBudget:  180,
      VacationDays: 10,
  }

SEE ALSO:
  - errors.go: Error taxonomy
  - store.go: Persistence interfaces
  - leave/generator.go: The generator that produces Schedules
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

// HoursPerDay converts between the two units. It is a calendar day, not a
// working day: hour-based blocks advance the calendar around the clock.
const HoursPerDay = 24

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

// ParseUnit accepts "days" or "hours".
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitDays, UnitHours:
		return u, nil
	}
	return "", fmt.Errorf("bad unit %q", s)
}

// ParseAmount parses a decimal value and its unit as written by the
// exporters and the SQLite store.
func ParseAmount(value, unit string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("bad duration %q", value)
	}
	u, err := ParseUnit(unit)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d, Unit: u}, nil
}

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }
func (a Amount) Float64() float64          { f, _ := a.Value.Float64(); return f }

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// InDays converts the amount to days.
func (a Amount) InDays() Amount {
	if a.Unit == UnitHours {
		return Amount{Value: a.Value.Div(decimal.NewFromInt(HoursPerDay)), Unit: UnitDays}
	}
	return a
}

// InHours converts the amount to hours.
func (a Amount) InHours() Amount {
	if a.Unit == UnitHours {
		return a
	}
	return Amount{Value: a.Value.Mul(decimal.NewFromInt(HoursPerDay)), Unit: UnitHours}
}

// In converts the amount to unit u.
func (a Amount) In(u Unit) Amount {
	if u == UnitHours {
		return a.InHours()
	}
	return a.InDays()
}

// CoveredDays is the number of calendar days a block of this size touches.
func (a Amount) CoveredDays() int {
	d := a.InDays().Value.Ceil().IntPart()
	if d < 1 {
		return 1
	}
	return int(d)
}

// =============================================================================
// CATEGORY - Kind of day
// =============================================================================

type Category string

const (
	CategoryWorkingDay    Category = "working_day"
	CategoryLeaveDay      Category = "leave_day"
	CategoryVacationDay   Category = "vacation_day"
	CategoryPublicHoliday Category = "public_holiday"
	CategoryWeekend       Category = "weekend"
)

// Categories lists every category in heatmap value order.
var Categories = []Category{
	CategoryWorkingDay,
	CategoryLeaveDay,
	CategoryVacationDay,
	CategoryPublicHoliday,
	CategoryWeekend,
}

// Label is the display name used in exports and legends.
func (c Category) Label() string {
	switch c {
	case CategoryLeaveDay:
		return "Leave Day"
	case CategoryVacationDay:
		return "Ferie"
	case CategoryPublicHoliday:
		return "Holiday"
	case CategoryWeekend:
		return "Weekend"
	default:
		return "Working Day"
	}
}

// Value is the heatmap intensity of the category.
func (c Category) Value() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return 0
}

// ParseCategory accepts either the identifier or the display label
// ("Ferie", "Leave", "Parental Leave Day" and friends).
func ParseCategory(s string) (Category, bool) {
	switch s {
	case string(CategoryWorkingDay), "Working Day":
		return CategoryWorkingDay, true
	case string(CategoryLeaveDay), "Leave Day", "Leave", "Parental Leave Day":
		return CategoryLeaveDay, true
	case string(CategoryVacationDay), "Ferie", "Vacation Day":
		return CategoryVacationDay, true
	case string(CategoryPublicHoliday), "Holiday", "Public Holiday":
		return CategoryPublicHoliday, true
	case string(CategoryWeekend), "Weekend":
		return CategoryWeekend, true
	}
	return "", false
}

// =============================================================================
// ALLOCATION MODE - Which policy consumes the budget
// =============================================================================

type AllocationMode string

const (
	ModeFixedDays       AllocationMode = "fixed_days"
	ModeFixedMonths     AllocationMode = "fixed_months"
	ModeFixedHours      AllocationMode = "fixed_hours"
	ModeWeekendBridging AllocationMode = "weekend_bridging"
)

// =============================================================================
// PARAMS - Inputs of a generation run
// =============================================================================

const (
	DefaultTotalBudget   = 180
	DefaultMaxIterations = 10000
)

type Params struct {
	StartDate    TimePoint
	Mode         AllocationMode
	TotalBudget  int // chargeable days
	VacationDays int // substitutable vacation days, bridging only
	CalendarID   string

	// MaxIterations bounds the generator loop; 0 means DefaultMaxIterations.
	MaxIterations int
}

func (p Params) IterationCap() int {
	if p.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return p.MaxIterations
}

// =============================================================================
// ENTRY - One scheduled unit
// =============================================================================

type Entry struct {
	Date       TimePoint
	Category   Category
	Duration   Amount // 1 day for per-day entries, the block size for blocks
	Sequence   int    // 1-based ordinal within Category, 0 = none
	Chargeable bool   // counts against Params.TotalBudget
}

// Covers returns the period of calendar days the entry occupies.
func (e Entry) Covers() Period {
	return Period{Start: e.Date, End: e.Date.AddDays(e.Duration.CoveredDays() - 1)}
}

// =============================================================================
// SCHEDULE - Immutable result of a run
// =============================================================================

type ScheduleID string

type Schedule struct {
	ID        ScheduleID
	Params    Params
	Entries   []Entry
	Remaining Amount // total budget left (≤ 0 once complete)
	Vacation  int    // vacation days left
	CreatedAt TimePoint
}

// Span returns the period from the first to the last covered day.
func (s *Schedule) Span() (Period, bool) {
	if len(s.Entries) == 0 {
		return Period{}, false
	}
	var p Period
	for _, e := range s.Entries {
		c := e.Covers()
		p = p.Extend(c.Start).Extend(c.End)
	}
	return p, true
}

// Charged sums the chargeable durations in days.
func (s *Schedule) Charged() Amount {
	total := NewAmountFromInt(0, UnitDays)
	for _, e := range s.Entries {
		if e.Chargeable {
			total = total.Add(e.Duration.InDays())
		}
	}
	return total
}

// CountByCategory counts entries per category.
func (s *Schedule) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	for _, e := range s.Entries {
		counts[e.Category]++
	}
	return counts
}

// =============================================================================
// DAY ROW - Dense day table handed to renderers
// =============================================================================

type DayRow struct {
	Date        TimePoint
	Category    Category
	Sequence    int
	HolidayName string
}

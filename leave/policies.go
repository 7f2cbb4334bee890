/*
policies.go - Allocation policies

PURPOSE:
  An Allocator decides how one iteration of the generator consumes the
  budget. The four modes of the planner are four Allocators behind one
  interface, so the loop in generator.go never branches on the mode.

AVAILABLE POLICIES:
  fixed_days:       5-day blocks
  fixed_months:     30-day blocks (approximate months, not calendar months)
  fixed_hours:      120-hour blocks, budget tracked in hours
  weekend_bridging: 7-day windows; two ferie bridge a weekend, otherwise
                    the days are charged against the budget

BLOCK POLICIES:
  Each iteration emits ONE entry for the whole block, dated at the block
  start and carrying the block duration. The last block is shortened to
  whatever budget is left.

BRIDGING POLICY:
  A window spans a weekend when it starts on a weekday and ends six days
  later on a Saturday or Sunday. In practice that is a Monday start.
    - ferie left >= 2: ferie on the first and fifth day, budget untouched
    - ferie exhausted: one entry per day; weekdays charged, weekend free
    - no weekend:      five charged days, then move on five days
  Chargeable emission stops the moment the budget hits zero, even in the
  middle of a window.

SEE ALSO:
  - generator.go: The loop driving an Allocator
  - generic/types.go: Entry, Params
*/
package leave

import (
	"sort"

	"github.com/warp/leave-planner/generic"
)

// =============================================================================
// STATE - Mutable accumulator owned by one generator run
// =============================================================================

// State is the accumulator of a single run. Allocators mutate it; nothing
// outside the run ever sees it.
type State struct {
	Start     generic.TimePoint
	Current   generic.TimePoint
	Remaining generic.Amount // in the allocator's unit
	Vacation  int

	elapsed generic.Amount // offset from Start, in the allocator's unit
	seq     map[generic.Category]int
}

func newState(p generic.Params, budget generic.Amount) *State {
	return &State{
		Start:     p.StartDate,
		Current:   p.StartDate,
		Remaining: budget,
		Vacation:  p.VacationDays,
		elapsed:   budget.Zero(),
		seq:       make(map[generic.Category]int),
	}
}

// next returns the next 1-based ordinal for a category.
func (s *State) next(c generic.Category) int {
	s.seq[c]++
	return s.seq[c]
}

// advance moves Current by d. Fractional days are carried in elapsed so
// that hour blocks never lose time to rounding.
func (s *State) advance(d generic.Amount) {
	s.elapsed = s.elapsed.Add(d)
	whole := s.elapsed.InDays().Value.Floor().IntPart()
	s.Current = s.Start.AddDays(int(whole))
}

func (s *State) advanceDays(n int) {
	s.advance(generic.NewAmountFromInt(n, generic.UnitDays).In(s.Remaining.Unit))
}

// =============================================================================
// ALLOCATOR - One iteration of a policy
// =============================================================================

type Allocator interface {
	Mode() generic.AllocationMode

	// Budget converts Params.TotalBudget into the allocator's unit.
	Budget(p generic.Params) generic.Amount

	// Next performs one iteration and returns the entries it produced.
	Next(s *State) []generic.Entry
}

// ModeInfo describes a mode for listings.
type ModeInfo struct {
	Mode        generic.AllocationMode
	Name        string
	Description string
	Block       generic.Amount // zero for bridging
}

// =============================================================================
// FIXED BLOCK POLICY
// =============================================================================

type fixedBlock struct {
	mode  generic.AllocationMode
	block generic.Amount
}

func (f fixedBlock) Mode() generic.AllocationMode { return f.mode }

func (f fixedBlock) Budget(p generic.Params) generic.Amount {
	return generic.NewAmountFromInt(p.TotalBudget, generic.UnitDays).In(f.block.Unit)
}

func (f fixedBlock) Next(s *State) []generic.Entry {
	d := f.block.Min(s.Remaining)
	e := generic.Entry{
		Date:       s.Current,
		Category:   generic.CategoryLeaveDay,
		Duration:   d,
		Sequence:   s.next(generic.CategoryLeaveDay),
		Chargeable: true,
	}
	s.Remaining = s.Remaining.Sub(d)
	s.advance(d)
	return []generic.Entry{e}
}

// =============================================================================
// WEEKEND BRIDGING POLICY
// =============================================================================

const (
	windowDays   = 7
	shortSpan    = 5
	bridgeCost   = 2
	bridgeOffset = 4 // first day + 4 = the Friday of a Monday window
)

type weekendBridging struct{}

func (weekendBridging) Mode() generic.AllocationMode { return generic.ModeWeekendBridging }

func (weekendBridging) Budget(p generic.Params) generic.Amount {
	return generic.NewAmountFromInt(p.TotalBudget, generic.UnitDays)
}

// SpansWeekend reports whether the 7-day window opening at start is a
// weekend-spanning window.
func SpansWeekend(start generic.TimePoint) bool {
	return start.IsWorkday() && start.AddDays(windowDays-1).IsWeekend()
}

func (weekendBridging) Next(s *State) []generic.Entry {
	start := s.Current

	switch {
	case SpansWeekend(start) && s.Vacation >= bridgeCost:
		s.Vacation -= bridgeCost
		entries := []generic.Entry{
			vacationEntry(s, start),
			vacationEntry(s, start.AddDays(bridgeOffset)),
		}
		s.advanceDays(windowDays)
		return entries

	case SpansWeekend(start):
		var entries []generic.Entry
		for i := 0; i < windowDays && !Exhausted(s.Remaining); i++ {
			d := start.AddDays(i)
			if d.IsWeekend() {
				entries = append(entries, generic.Entry{
					Date:     d,
					Category: generic.CategoryWeekend,
					Duration: oneDay(),
				})
				continue
			}
			entries = append(entries, chargeDay(s, d))
		}
		s.advanceDays(windowDays)
		return entries

	default:
		var entries []generic.Entry
		for i := 0; i < shortSpan && !Exhausted(s.Remaining); i++ {
			entries = append(entries, chargeDay(s, start.AddDays(i)))
		}
		s.advanceDays(shortSpan)
		return entries
	}
}

func vacationEntry(s *State, d generic.TimePoint) generic.Entry {
	return generic.Entry{
		Date:     d,
		Category: generic.CategoryVacationDay,
		Duration: oneDay(),
		Sequence: s.next(generic.CategoryVacationDay),
	}
}

func chargeDay(s *State, d generic.TimePoint) generic.Entry {
	s.Remaining = s.Remaining.Sub(oneDay())
	return generic.Entry{
		Date:       d,
		Category:   generic.CategoryLeaveDay,
		Duration:   oneDay(),
		Sequence:   s.next(generic.CategoryLeaveDay),
		Chargeable: true,
	}
}

func oneDay() generic.Amount { return generic.NewAmountFromInt(1, generic.UnitDays) }

// =============================================================================
// REGISTRY
// =============================================================================

var allocators = map[generic.AllocationMode]Allocator{
	generic.ModeFixedDays:       fixedBlock{mode: generic.ModeFixedDays, block: generic.NewAmountFromInt(5, generic.UnitDays)},
	generic.ModeFixedMonths:     fixedBlock{mode: generic.ModeFixedMonths, block: generic.NewAmountFromInt(30, generic.UnitDays)},
	generic.ModeFixedHours:      fixedBlock{mode: generic.ModeFixedHours, block: generic.NewAmountFromInt(120, generic.UnitHours)},
	generic.ModeWeekendBridging: weekendBridging{},
}

var modeInfo = map[generic.AllocationMode]ModeInfo{
	generic.ModeFixedDays:       {Name: "Days", Description: "Blocks of 5 days"},
	generic.ModeFixedMonths:     {Name: "Months", Description: "Blocks of 30 days"},
	generic.ModeFixedHours:      {Name: "Hours", Description: "Blocks of 120 hours"},
	generic.ModeWeekendBridging: {Name: "Ferie optimizer", Description: "Ferie on Monday and Friday so the weekend is not charged"},
}

// AllocatorFor returns the allocator of a mode.
func AllocatorFor(mode generic.AllocationMode) (Allocator, error) {
	a, ok := allocators[mode]
	if !ok {
		return nil, &generic.InvalidParametersError{Field: "mode", Reason: "unknown allocation mode " + string(mode)}
	}
	return a, nil
}

// ParseMode accepts the mode identifiers and the form labels of the
// planner pages ("Days", "Months", "Hours").
func ParseMode(s string) (generic.AllocationMode, error) {
	switch s {
	case "Days", "days":
		return generic.ModeFixedDays, nil
	case "Months", "months":
		return generic.ModeFixedMonths, nil
	case "Hours", "hours":
		return generic.ModeFixedHours, nil
	case "ferie", "bridging":
		return generic.ModeWeekendBridging, nil
	}
	mode := generic.AllocationMode(s)
	if _, err := AllocatorFor(mode); err != nil {
		return "", err
	}
	return mode, nil
}

// Modes lists every mode, sorted by identifier.
func Modes() []ModeInfo {
	out := make([]ModeInfo, 0, len(allocators))
	for mode, a := range allocators {
		info := modeInfo[mode]
		info.Mode = mode
		if fb, ok := a.(fixedBlock); ok {
			info.Block = fb.block
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mode < out[j].Mode })
	return out
}

/*
Package leave implements the leave schedule generator.

PURPOSE:
  Turns a start date and a policy into an ordered list of dated,
  categorized entries, classifies the covered range into a dense day
  table, and serializes schedules for export.

THE LOOP:
  One Allocator (see policies.go) is driven until the budget is
  exhausted:

    for !Exhausted(remaining) {
        entries = allocator.Next(state)
    }

  The loop is exposed as a Sequence: a lazy, finite, restartable
  iter.Seq2. Every call to All starts over from the start date with a
  fresh accumulator, so the same Sequence can be ranged over repeatedly.

TERMINATION:
  Exhausted is the only termination predicate. A policy that keeps
  iterating without spending budget (e.g. an enormous ferie allowance)
  is stopped after Params.MaxIterations with ErrPolicyDivergence.

USAGE:
  schedule, err := leave.Generate(generic.Params{
      StartDate:    generic.NewTimePoint(2025, time.January, 6),
      Mode:         generic.ModeWeekendBridging,
      TotalBudget:  180,
      VacationDays: 10,
  })

SEE ALSO:
  - policies.go: The four allocation policies
  - classify.go: Dense day table
  - export.go: CSV and iCalendar
*/
package leave

import (
	"iter"

	"github.com/warp/leave-planner/generic"
)

// Exhausted reports whether a remaining budget ends generation.
func Exhausted(remaining generic.Amount) bool {
	return !remaining.IsPositive()
}

// Validate rejects parameters no policy can run with.
func Validate(p generic.Params) error {
	if p.StartDate.IsZero() {
		return &generic.InvalidParametersError{Field: "start_date", Reason: "missing"}
	}
	if p.TotalBudget <= 0 {
		return &generic.InvalidParametersError{Field: "total_budget", Reason: "must be positive"}
	}
	if p.VacationDays < 0 {
		return &generic.InvalidParametersError{Field: "vacation_day_budget", Reason: "must not be negative"}
	}
	if p.MaxIterations < 0 {
		return &generic.InvalidParametersError{Field: "max_iterations", Reason: "must not be negative"}
	}
	_, err := AllocatorFor(p.Mode)
	return err
}

// =============================================================================
// SEQUENCE
// =============================================================================

type Sequence struct {
	params    generic.Params
	allocator Allocator
}

// NewSequence validates p and returns its entry sequence.
func NewSequence(p generic.Params) (*Sequence, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	a, _ := AllocatorFor(p.Mode)
	return &Sequence{params: p, allocator: a}, nil
}

// All yields the entries in chronological order. On divergence it yields
// one final (zero Entry, error) pair and stops.
func (s *Sequence) All() iter.Seq2[generic.Entry, error] {
	return func(yield func(generic.Entry, error) bool) {
		_, err := s.run(func(e generic.Entry) bool { return yield(e, nil) })
		if err != nil {
			yield(generic.Entry{}, err)
		}
	}
}

// run drives the allocator, handing entries to emit until it returns false.
func (s *Sequence) run(emit func(generic.Entry) bool) (*State, error) {
	st := newState(s.params, s.allocator.Budget(s.params))
	limit := s.params.IterationCap()

	for i := 0; !Exhausted(st.Remaining); i++ {
		if i >= limit {
			return st, &generic.PolicyDivergenceError{
				Mode:       s.params.Mode,
				Iterations: i,
				Remaining:  st.Remaining,
			}
		}
		for _, e := range s.allocator.Next(st) {
			if !emit(e) {
				return st, nil
			}
		}
	}
	return st, nil
}

// =============================================================================
// GENERATE
// =============================================================================

// Generate runs the sequence to completion. It is all-or-nothing: on
// error no partial schedule is returned. The caller assigns ID and
// CreatedAt when the schedule is kept.
func Generate(p generic.Params) (*generic.Schedule, error) {
	seq, err := NewSequence(p)
	if err != nil {
		return nil, err
	}

	var entries []generic.Entry
	st, err := seq.run(func(e generic.Entry) bool {
		entries = append(entries, e)
		return true
	})
	if err != nil {
		return nil, err
	}

	return &generic.Schedule{
		Params:    p,
		Entries:   entries,
		Remaining: st.Remaining,
		Vacation:  st.Vacation,
	}, nil
}

/*
store.go - Persistence interfaces for schedules and holidays

PURPOSE:
  Defines the interface between the planning logic and the database.
  Generation itself is pure; stores only keep what users chose to save
  (schedules) and the holiday tables injected into the category pass.

KEY INTERFACES:
  ScheduleStore: Saved schedules (save, load, list, delete, purge)
  HolidayStore:  Holiday tables, doubling as a HolidayCalendar

IMMUTABILITY:
  A saved schedule is never updated. Saving the same ID twice is an
  error; a new plan gets a new ID.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing and the CLI

SEE ALSO:
  - store/sqlite/sqlite.go: Concrete implementation
  - api/retention.go: Uses PurgeBefore
*/
package generic

import "context"

// =============================================================================
// SCHEDULE STORE
// =============================================================================

// ScheduleSummary is the list view of a saved schedule.
type ScheduleSummary struct {
	ID        ScheduleID
	Params    Params
	Entries   int
	CreatedAt TimePoint
}

type ScheduleStore interface {
	// SaveSchedule persists a schedule and its entries atomically.
	SaveSchedule(ctx context.Context, s Schedule) error

	// GetSchedule loads a schedule with entries in insertion order.
	// Returns ErrScheduleNotFound when missing.
	GetSchedule(ctx context.Context, id ScheduleID) (*Schedule, error)

	// ListSchedules returns summaries, newest first.
	ListSchedules(ctx context.Context) ([]ScheduleSummary, error)

	// DeleteSchedule removes a schedule. Returns ErrScheduleNotFound when missing.
	DeleteSchedule(ctx context.Context, id ScheduleID) error

	// PurgeBefore deletes schedules created before cutoff and reports how many.
	PurgeBefore(ctx context.Context, cutoff TimePoint) (int, error)
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

type HolidayStore interface {
	HolidayCalendar

	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
	GetAllHolidays(ctx context.Context, calendarID string) ([]Holiday, error)
}

// Store is everything the API needs.
type Store interface {
	ScheduleStore
	HolidayStore

	// Reset deletes every schedule and holiday.
	Reset(ctx context.Context) error
}

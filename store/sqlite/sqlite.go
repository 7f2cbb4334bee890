/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.Store (saved schedules and holiday tables) using
  SQLite. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  generic.ScheduleStore:   Saved schedules with their entries
  generic.HolidayStore:    Holiday tables per calendar
  generic.HolidayCalendar: Lookup used by the category pass

IMMUTABLE SCHEDULES:
  - No UPDATE statements on schedules or schedule_entries
  - A schedule and its entries are written in one transaction
  - Deleting a schedule cascades to its entries

KEY TABLES:
  schedules:        One row per saved generation run (params + result)
  schedule_entries: Entries in insertion order (position column)
  holidays:         Holidays per calendar; '' = every calendar

INDEXES:
  - idx_schedules_created_at: List (newest first) and retention purge
  - idx_entries_schedule: Loading a schedule (hot path)
  - idx_holidays_unique: Upsert key (calendar, date, name)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/leave-planner/generic"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Saved schedules (immutable once written)
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		start_date TEXT NOT NULL,
		mode TEXT NOT NULL,
		total_budget INTEGER NOT NULL,
		vacation_days INTEGER NOT NULL DEFAULT 0,
		calendar_id TEXT NOT NULL DEFAULT '',
		max_iterations INTEGER NOT NULL DEFAULT 0,
		remaining_value TEXT NOT NULL,
		remaining_unit TEXT NOT NULL,
		vacation_left INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_created_at
		ON schedules(created_at DESC);

	-- Schedule entries, position = insertion order
	CREATE TABLE IF NOT EXISTS schedule_entries (
		schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		date TEXT NOT NULL,
		category TEXT NOT NULL,
		duration_value TEXT NOT NULL,
		duration_unit TEXT NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 0,
		chargeable BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (schedule_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_schedule
		ON schedule_entries(schedule_id, position);

	-- Holidays (calendar-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		calendar_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_calendar_date
		ON holidays(calendar_id, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(calendar_id, date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEDULE STORE (generic.ScheduleStore interface)
// =============================================================================

// SaveSchedule writes a schedule and its entries atomically.
func (s *Store) SaveSchedule(ctx context.Context, sched generic.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p := sched.Params
	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedules
		(id, start_date, mode, total_budget, vacation_days, calendar_id, max_iterations,
		 remaining_value, remaining_unit, vacation_left, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(sched.ID),
		p.StartDate.Key(),
		string(p.Mode),
		p.TotalBudget,
		p.VacationDays,
		p.CalendarID,
		p.MaxIterations,
		sched.Remaining.Value.String(),
		string(sched.Remaining.Unit),
		sched.Vacation,
		formatTimestamp(sched.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("schedule %s already saved", sched.ID)
		}
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_entries
		(schedule_id, position, date, category, duration_value, duration_unit, sequence, chargeable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range sched.Entries {
		if _, err := stmt.ExecContext(ctx,
			string(sched.ID),
			i,
			e.Date.Key(),
			string(e.Category),
			e.Duration.Value.String(),
			string(e.Duration.Unit),
			e.Sequence,
			e.Chargeable,
		); err != nil {
			return fmt.Errorf("failed to save entry %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetSchedule loads a schedule with its entries in insertion order.
func (s *Store) GetSchedule(ctx context.Context, id generic.ScheduleID) (*generic.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, start_date, mode, total_budget, vacation_days, calendar_id, max_iterations,
		       remaining_value, remaining_unit, vacation_left, created_at
		FROM schedules WHERE id = ?
	`, string(id))

	var (
		sched                     generic.Schedule
		startDate, mode, created  string
		remainingValue, remaining string
	)
	err := row.Scan(
		&sched.ID, &startDate, &mode, &sched.Params.TotalBudget, &sched.Params.VacationDays,
		&sched.Params.CalendarID, &sched.Params.MaxIterations,
		&remainingValue, &remaining, &sched.Vacation, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	sched.Params.StartDate = parseDate(startDate)
	sched.Params.Mode = generic.AllocationMode(mode)
	sched.Remaining, err = generic.ParseAmount(remainingValue, remaining)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: remaining budget: %w", id, err)
	}
	sched.CreatedAt = parseTimestamp(created)

	entries, err := s.loadEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	sched.Entries = entries

	return &sched, nil
}

func (s *Store) loadEntries(ctx context.Context, id generic.ScheduleID) ([]generic.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, category, duration_value, duration_unit, sequence, chargeable
		FROM schedule_entries
		WHERE schedule_id = ?
		ORDER BY position ASC
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []generic.Entry
	for rows.Next() {
		var (
			e                           generic.Entry
			date, category, value, unit string
		)
		if err := rows.Scan(&date, &category, &value, &unit, &e.Sequence, &e.Chargeable); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Date = parseDate(date)
		e.Category = generic.Category(category)
		if e.Duration, err = generic.ParseAmount(value, unit); err != nil {
			return nil, fmt.Errorf("schedule %s: entry %s: %w", id, date, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ListSchedules returns summaries, newest first.
func (s *Store) ListSchedules(ctx context.Context) ([]generic.ScheduleSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.start_date, s.mode, s.total_budget, s.vacation_days, s.calendar_id,
		       s.max_iterations, s.created_at,
		       (SELECT COUNT(*) FROM schedule_entries e WHERE e.schedule_id = s.id)
		FROM schedules s
		ORDER BY s.created_at DESC, s.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	summaries := []generic.ScheduleSummary{}
	for rows.Next() {
		var (
			sum                      generic.ScheduleSummary
			startDate, mode, created string
		)
		if err := rows.Scan(
			&sum.ID, &startDate, &mode, &sum.Params.TotalBudget, &sum.Params.VacationDays,
			&sum.Params.CalendarID, &sum.Params.MaxIterations, &created, &sum.Entries,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		sum.Params.StartDate = parseDate(startDate)
		sum.Params.Mode = generic.AllocationMode(mode)
		sum.CreatedAt = parseTimestamp(created)
		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// DeleteSchedule removes a schedule and, by cascade, its entries.
func (s *Store) DeleteSchedule(ctx context.Context, id generic.ScheduleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrScheduleNotFound
	}
	return nil
}

// PurgeBefore deletes every schedule created before cutoff.
func (s *Store) PurgeBefore(ctx context.Context, cutoff generic.TimePoint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM schedules WHERE created_at < ?",
		formatTimestamp(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge schedules: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Reset deletes all data. Backs POST /api/reset.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM schedule_entries;
		DELETE FROM schedules;
		DELETE FROM holidays;
	`)
	return err
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday. An existing ID, or an existing
// (calendar, date, name) row, is updated in place.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, calendar_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			calendar_id = excluded.calendar_id,
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring
		ON CONFLICT(calendar_id, date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.CalendarID,
		h.Date.Key(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrHolidayNotFound
	}
	return nil
}

// GetHolidays returns the holidays of a calendar in a given year.
// Includes both calendar-specific and global holidays.
func (s *Store) GetHolidays(calendarID string, year int) []generic.Holiday {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, calendar_id, date, name, recurring
		FROM holidays
		WHERE (calendar_id = ? OR calendar_id = '')
		  AND (recurring = TRUE OR strftime('%Y', date) = ?)
		ORDER BY strftime('%m-%d', date) ASC
	`

	rows, err := s.db.Query(query, calendarID, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			continue
		}
		// Recurring holidays are moved into the requested year.
		if h, ok := h.InYear(year); ok {
			holidays = append(holidays, h)
		}
	}

	return holidays
}

// IsHoliday checks if a date is a holiday in the given calendar.
func (s *Store) IsHoliday(calendarID string, date generic.TimePoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (calendar_id = ? OR calendar_id = '')
		  AND (
			(recurring = FALSE AND date = ?)
			OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
		  )
	`

	var count int
	err := s.db.QueryRow(query, calendarID, date.Key(), date.Time.Format("01-02")).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// GetAllHolidays returns every holiday of a calendar (for admin UI).
func (s *Store) GetAllHolidays(ctx context.Context, calendarID string) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, calendar_id, date, name, recurring
		FROM holidays
		WHERE calendar_id = ? OR calendar_id = ''
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

func scanHoliday(rows *sql.Rows) (generic.Holiday, error) {
	var h generic.Holiday
	var dateStr string
	if err := rows.Scan(&h.ID, &h.CalendarID, &dateStr, &h.Name, &h.Recurring); err != nil {
		return h, err
	}
	h.Date = parseDate(dateStr)
	return h, nil
}

// Helper functions

func parseDate(s string) generic.TimePoint {
	tp, _ := generic.ParseDate(s)
	return tp
}

// Timestamps are stored as UTC RFC 3339 so that string order is time order.
func formatTimestamp(tp generic.TimePoint) string {
	return tp.Time.UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) generic.TimePoint {
	t, _ := time.Parse(time.RFC3339, s)
	return generic.TimePoint{Time: t.UTC(), Granularity: generic.GranularityHour}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY") ||
		strings.Contains(err.Error(), "duplicate key"))
}

// Package store provides in-memory Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/leave-planner/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev and the CLI)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	schedules map[generic.ScheduleID]generic.Schedule
	holidays  map[string]generic.Holiday
}

var _ generic.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		schedules: make(map[generic.ScheduleID]generic.Schedule),
		holidays:  make(map[string]generic.Holiday),
	}
}

// SaveSchedule stores a copy of s. Saving an existing ID is rejected.
func (m *Memory) SaveSchedule(_ context.Context, s generic.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schedules[s.ID]; ok {
		return fmt.Errorf("schedule %s already saved", s.ID)
	}
	s.Entries = append([]generic.Entry(nil), s.Entries...)
	m.schedules[s.ID] = s
	return nil
}

func (m *Memory) GetSchedule(_ context.Context, id generic.ScheduleID) (*generic.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.schedules[id]
	if !ok {
		return nil, generic.ErrScheduleNotFound
	}
	s.Entries = append([]generic.Entry(nil), s.Entries...)
	return &s, nil
}

func (m *Memory) ListSchedules(_ context.Context) ([]generic.ScheduleSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.ScheduleSummary, 0, len(m.schedules))
	for _, s := range m.schedules {
		result = append(result, generic.ScheduleSummary{
			ID:        s.ID,
			Params:    s.Params,
			Entries:   len(s.Entries),
			CreatedAt: s.CreatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) DeleteSchedule(_ context.Context, id generic.ScheduleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schedules[id]; !ok {
		return generic.ErrScheduleNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *Memory) PurgeBefore(_ context.Context, cutoff generic.TimePoint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.schedules {
		if s.CreatedAt.Before(cutoff) {
			delete(m.schedules, id)
			n++
		}
	}
	return n, nil
}

// Reset deletes every schedule and holiday.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.schedules = make(map[generic.ScheduleID]generic.Schedule)
	m.holidays = make(map[string]generic.Holiday)
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Same (calendar, date, name) replaces, matching the SQLite upsert.
	for id, existing := range m.holidays {
		if existing.CalendarID == h.CalendarID && existing.Date.Equal(h.Date) && existing.Name == h.Name {
			delete(m.holidays, id)
		}
	}
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.holidays[id]; !ok {
		return generic.ErrHolidayNotFound
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) GetAllHolidays(_ context.Context, calendarID string) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []generic.Holiday
	for _, h := range m.holidays {
		if h.CalendarID == calendarID || h.CalendarID == "" {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) IsHoliday(calendarID string, date generic.TimePoint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.holidays {
		if h.CalendarID != calendarID && h.CalendarID != "" {
			continue
		}
		if h.Date.Equal(date) || (h.Recurring && h.Date.Month() == date.Month() && h.Date.Day() == date.Day()) {
			return true
		}
	}
	return false
}

func (m *Memory) GetHolidays(calendarID string, year int) []generic.Holiday {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []generic.Holiday
	for _, h := range m.holidays {
		if h.CalendarID != calendarID && h.CalendarID != "" {
			continue
		}
		if h, ok := h.InYear(year); ok {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

// Seed loads a fixed table into calendarID. Used by the CLI and tests.
func (m *Memory) Seed(calendarID string, holidays []generic.Holiday) {
	for _, h := range holidays {
		h.CalendarID = calendarID
		if h.ID == "" {
			h.ID = fmt.Sprintf("holiday-%s-%s", calendarID, h.Date.Time.Format(time.DateOnly))
		}
		_ = m.SaveHoliday(context.Background(), h)
	}
}

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/generic/store"
)

func schedule(id string, created time.Time, dates ...string) generic.Schedule {
	s := generic.Schedule{
		ID:        generic.ScheduleID(id),
		Params:    generic.Params{Mode: generic.ModeFixedDays, TotalBudget: 5},
		CreatedAt: generic.TimePoint{Time: created, Granularity: generic.GranularityHour},
	}
	for _, d := range dates {
		tp, _ := generic.ParseDate(d)
		s.Entries = append(s.Entries, generic.Entry{Date: tp, Category: generic.CategoryLeaveDay})
	}
	return s
}

func TestMemory_ScheduleLifecycle(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	now := time.Now().UTC()

	require.NoError(t, m.SaveSchedule(ctx, schedule("a", now.Add(-2*time.Hour), "2025-01-06")))
	require.NoError(t, m.SaveSchedule(ctx, schedule("b", now, "2025-01-06", "2025-01-11")))
	assert.Error(t, m.SaveSchedule(ctx, schedule("b", now)))

	list, err := m.ListSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, generic.ScheduleID("b"), list[0].ID)
	assert.Equal(t, 2, list[0].Entries)

	got, err := m.GetSchedule(ctx, "b")
	require.NoError(t, err)
	got.Entries[0].Category = generic.CategoryWeekend
	again, _ := m.GetSchedule(ctx, "b")
	assert.Equal(t, generic.CategoryLeaveDay, again.Entries[0].Category, "callers get copies")

	require.NoError(t, m.DeleteSchedule(ctx, "a"))
	assert.ErrorIs(t, m.DeleteSchedule(ctx, "a"), generic.ErrScheduleNotFound)
	_, err = m.GetSchedule(ctx, "a")
	assert.ErrorIs(t, err, generic.ErrScheduleNotFound)
}

func TestMemory_PurgeBefore(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	now := time.Now().UTC()

	require.NoError(t, m.SaveSchedule(ctx, schedule("old", now.AddDate(0, 0, -40))))
	require.NoError(t, m.SaveSchedule(ctx, schedule("new", now)))

	n, err := m.PurgeBefore(ctx, generic.TimePoint{Time: now.AddDate(0, 0, -30), Granularity: generic.GranularityHour})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = m.GetSchedule(ctx, "new")
	assert.NoError(t, err)
}

func TestMemory_Holidays(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.Seed("it", []generic.Holiday{
		{Date: generic.NewTimePoint(2025, time.January, 6), Name: "Epiphany"},
		{Date: generic.NewTimePoint(2025, time.April, 25), Name: "Liberation Day"},
	})
	require.NoError(t, m.SaveHoliday(ctx, generic.Holiday{
		ID: "xmas", Date: generic.NewTimePoint(2000, time.December, 25), Name: "Christmas", Recurring: true,
	}))

	assert.True(t, m.IsHoliday("it", generic.NewTimePoint(2025, time.January, 6)))
	assert.False(t, m.IsHoliday("fr", generic.NewTimePoint(2025, time.January, 6)))
	assert.True(t, m.IsHoliday("fr", generic.NewTimePoint(2031, time.December, 25)))

	holidays := m.GetHolidays("it", 2025)
	require.Len(t, holidays, 3)
	assert.Equal(t, "Epiphany", holidays[0].Name)
	assert.Equal(t, "2025-12-25", holidays[2].Date.Key())

	all, err := m.GetAllHolidays(ctx, "it")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, m.DeleteHoliday(ctx, "holiday-it-2025-01-06"))
	assert.ErrorIs(t, m.DeleteHoliday(ctx, "holiday-it-2025-01-06"), generic.ErrHolidayNotFound)
	assert.False(t, m.IsHoliday("it", generic.NewTimePoint(2025, time.January, 6)))
}

func TestMemory_RecurringLeapDay(t *testing.T) {
	m := store.NewMemory()
	require.NoError(t, m.SaveHoliday(context.Background(), generic.Holiday{
		ID: "leap", Date: generic.NewTimePoint(2024, time.February, 29), Name: "Leap Day", Recurring: true,
	}))

	assert.Empty(t, m.GetHolidays("it", 2025))
	assert.False(t, m.IsHoliday("it", generic.NewTimePoint(2025, time.March, 1)))
	require.Len(t, m.GetHolidays("it", 2028), 1)
	assert.Equal(t, "2028-02-29", m.GetHolidays("it", 2028)[0].Date.Key())
}

func TestMemory_Reset(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveSchedule(ctx, schedule("a", time.Now(), "2025-01-06")))
	m.Seed("it", []generic.Holiday{{Date: generic.NewTimePoint(2025, time.January, 6), Name: "Epiphany"}})

	require.NoError(t, m.Reset(ctx))

	list, err := m.ListSchedules(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.False(t, m.IsHoliday("it", generic.NewTimePoint(2025, time.January, 6)))
}

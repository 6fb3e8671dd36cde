package calendar_test

import (
	"testing"
	"time"

	"github.com/verudex/Momentum-sub000/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyOf_AfterBoundary(t *testing.T) {
	cal := calendar.New(time.UTC)

	// 2024-03-12 is a Tuesday
	assert.Equal(t, "2024-03-12", cal.DayKeyOf(time.Date(2024, 3, 12, 5, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-12", cal.DayKeyOf(time.Date(2024, 3, 12, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-12", cal.DayKeyOf(time.Date(2024, 3, 12, 23, 59, 59, 0, time.UTC)))
}

func TestDayKeyOf_BeforeBoundary(t *testing.T) {
	cal := calendar.New(time.UTC)

	// anything before 05:00 belongs to the previous calendar day
	assert.Equal(t, "2024-03-11", cal.DayKeyOf(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-11", cal.DayKeyOf(time.Date(2024, 3, 12, 2, 15, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-11", cal.DayKeyOf(time.Date(2024, 3, 12, 4, 59, 59, 0, time.UTC)))
}

func TestDayKeyOf_BoundaryShiftConsistency(t *testing.T) {
	cal := calendar.New(time.UTC)

	// for all instants with local hour in [0, 5), the day key equals the
	// calendar date of the same instant shifted back one day
	for hour := 0; hour < 5; hour++ {
		instant := time.Date(2024, 7, 1, hour, 13, 0, 0, time.UTC)
		assert.Equal(t,
			instant.AddDate(0, 0, -1).Format(calendar.DayKeyLayout),
			cal.DayKeyOf(instant),
		)
	}
}

func TestDayKeyOf_MonthAndYearRollover(t *testing.T) {
	cal := calendar.New(time.UTC)

	assert.Equal(t, "2024-02-29", cal.DayKeyOf(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12-31", cal.DayKeyOf(time.Date(2024, 1, 1, 4, 30, 0, 0, time.UTC)))
}

func TestPreviousDayKey(t *testing.T) {
	cal := calendar.New(time.UTC)

	assert.Equal(t, "2024-03-11", cal.PreviousDayKey(time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)))
	// 01:00 belongs to the 11th, so the previous logical day is the 10th
	assert.Equal(t, "2024-03-10", cal.PreviousDayKey(time.Date(2024, 3, 12, 1, 0, 0, 0, time.UTC)))
}

func TestWeekStartOf(t *testing.T) {
	cal := calendar.New(time.UTC)

	// 2024-03-13 is a Wednesday, the most recent Monday is the 11th
	weekStart := cal.WeekStartOf(time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 11, 5, 0, 0, 0, time.UTC), weekStart)
	assert.Equal(t, time.Monday, weekStart.Weekday())

	// Sunday maps to the Monday six days earlier
	weekStart = cal.WeekStartOf(time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 11, 5, 0, 0, 0, time.UTC), weekStart)

	// on a Monday, the week starts that same day at 05:00
	weekStart = cal.WeekStartOf(time.Date(2024, 3, 11, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 11, 5, 0, 0, 0, time.UTC), weekStart)
}

func TestWeekStartOf_Idempotent(t *testing.T) {
	cal := calendar.New(time.UTC)

	for day := 10; day < 18; day++ {
		instant := time.Date(2024, 3, day, 9, 45, 0, 0, time.UTC)
		weekStart := cal.WeekStartOf(instant)
		assert.Equal(t, time.Monday, weekStart.Weekday())
		assert.Equal(t, weekStart, cal.WeekStartOf(weekStart))
	}
}

func TestDayWindowOf(t *testing.T) {
	cal := calendar.New(time.UTC)

	start, end, err := cal.DayWindowOf("2024-03-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 5, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 13, 5, 0, 0, 0, time.UTC), end)

	// every instant within the window maps back to the same day key
	assert.Equal(t, "2024-03-12", cal.DayKeyOf(start))
	assert.Equal(t, "2024-03-12", cal.DayKeyOf(end.Add(-time.Second)))
	assert.Equal(t, "2024-03-13", cal.DayKeyOf(end))

	_, _, err = cal.DayWindowOf("not-a-day")
	require.Error(t, err)
}

func TestDayKeyOf_RespectsLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	cal := calendar.New(berlin)

	// 03:00 UTC in winter is 04:00 in Berlin, still the previous logical day
	assert.Equal(t, "2024-01-14", cal.DayKeyOf(time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)))
	// 05:00 UTC is 06:00 in Berlin, already the new day
	assert.Equal(t, "2024-01-15", cal.DayKeyOf(time.Date(2024, 1, 15, 5, 0, 0, 0, time.UTC)))
}

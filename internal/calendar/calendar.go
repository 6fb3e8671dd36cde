package calendar

import (
	"fmt"
	"time"
)

// DayKeyLayout is the calendar-date format used as the logical day key.
const DayKeyLayout = "2006-01-02"

// dayStartHour is the local hour at which a logical day begins. An instant
// with a local hour before it still belongs to the previous calendar day.
const dayStartHour = 5

// Calendar converts instants to logical day keys and week windows for a
// fixed location. The logical day runs from 05:00 to 04:59:59 the next
// calendar day, so late-night workouts and meals count towards the day they
// effectively belong to. Every component must go through this type instead
// of re-deriving the boundary rule.
type Calendar struct {
	loc *time.Location
}

func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc}
}

// Location returns the location all calculations are anchored to.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DayKeyOf returns the logical day key for the given instant.
func (c *Calendar) DayKeyOf(t time.Time) string {
	localTime := t.In(c.loc)
	if localTime.Hour() < dayStartHour {
		localTime = localTime.AddDate(0, 0, -1)
	}
	return localTime.Format(DayKeyLayout)
}

// PreviousDayKey returns the key of the logical day before the one the
// given instant belongs to.
func (c *Calendar) PreviousDayKey(t time.Time) string {
	localTime := t.In(c.loc)
	if localTime.Hour() < dayStartHour {
		localTime = localTime.AddDate(0, 0, -1)
	}
	return localTime.AddDate(0, 0, -1).Format(DayKeyLayout)
}

// WeekStartOf returns the most recent Monday at 05:00 local time, giving a
// consistent 7-day rolling window for "this week" regardless of which day
// the given instant falls on.
func (c *Calendar) WeekStartOf(t time.Time) time.Time {
	localTime := t.In(c.loc)
	// Monday -> 0, Tuesday -> 1, ... Sunday -> 6
	offsetDays := (int(localTime.Weekday()) + 6) % 7
	monday := localTime.AddDate(0, 0, -offsetDays)
	return time.Date(
		monday.Year(), monday.Month(), monday.Day(),
		dayStartHour, 0, 0, 0,
		c.loc,
	)
}

// DayWindowOf returns the half-open interval [start, end) of instants that
// belong to the given logical day key.
func (c *Calendar) DayWindowOf(dayKey string) (start, end time.Time, err error) {
	day, err := time.ParseInLocation(DayKeyLayout, dayKey, c.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse day key %q: %w", dayKey, err)
	}
	start = time.Date(day.Year(), day.Month(), day.Day(), dayStartHour, 0, 0, 0, c.loc)
	return start, start.AddDate(0, 0, 1), nil
}

package entries_test

import (
	"testing"

	"github.com/verudex/Momentum-sub000/internal/entries"

	"github.com/stretchr/testify/assert"
)

func TestDuration_TotalMinutes(t *testing.T) {
	testCases := []struct {
		name     string
		duration entries.Duration
		expected int
	}{
		{
			name:     "simple",
			duration: entries.Duration{Hours: "1", Minutes: "30", Seconds: "0"},
			expected: 90,
		},
		{
			name:     "seconds ignored",
			duration: entries.Duration{Hours: "0", Minutes: "45", Seconds: "59"},
			expected: 45,
		},
		{
			name:     "non numeric treated as zero",
			duration: entries.Duration{Hours: "abc", Minutes: "20", Seconds: ""},
			expected: 20,
		},
		{
			name:     "all empty",
			duration: entries.Duration{},
			expected: 0,
		},
		{
			name:     "negative clamped to zero",
			duration: entries.Duration{Hours: "-1", Minutes: "30"},
			expected: 30,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.duration.TotalMinutes())
		})
	}
}

func TestDuration_TotalSeconds(t *testing.T) {
	d := entries.Duration{Hours: "1", Minutes: "2", Seconds: "3"}
	assert.Equal(t, 3723, d.TotalSeconds())

	assert.Equal(t, 0, entries.Duration{}.TotalSeconds())
}

func TestDuration_Format(t *testing.T) {
	testCases := []struct {
		name     string
		duration entries.Duration
		expected string
	}{
		{
			name:     "full",
			duration: entries.Duration{Hours: "1", Minutes: "30", Seconds: "5"},
			expected: "1h30m5s",
		},
		{
			name:     "minutes only",
			duration: entries.Duration{Minutes: "45"},
			expected: "45m",
		},
		{
			name:     "zero",
			duration: entries.Duration{},
			expected: "0s",
		},
		{
			name:     "hours and seconds",
			duration: entries.Duration{Hours: "2", Seconds: "10"},
			expected: "2h10s",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.duration.Format())
		})
	}
}

func TestParseFormattedDuration(t *testing.T) {
	assert.Equal(t, 5405, entries.ParseFormattedDuration("1h30m5s"))
	assert.Equal(t, 2700, entries.ParseFormattedDuration("45m"))
	assert.Zero(t, entries.ParseFormattedDuration("gibberish"))
}

func TestWorkout_WeightValue(t *testing.T) {
	w := entries.Workout{Weight: "52.5"}
	assert.InDelta(t, 52.5, w.WeightValue(), 0.001)

	w = entries.Workout{Weight: "not-a-number"}
	assert.Zero(t, w.WeightValue())

	w = entries.Workout{Weight: "-10"}
	assert.Zero(t, w.WeightValue())
}

func TestDietRecord_CalorieValue(t *testing.T) {
	r := entries.DietRecord{Calories: "640"}
	assert.InDelta(t, 640, r.CalorieValue(), 0.001)

	r = entries.DietRecord{Calories: ""}
	assert.Zero(t, r.CalorieValue())
}

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, entries.CategoryWorkout.IsValid())
	assert.True(t, entries.CategoryDiet.IsValid())
	assert.False(t, entries.Category("sleep").IsValid())
}

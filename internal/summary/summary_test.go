package summary_test

import (
	"context"
	"testing"
	"time"

	"github.com/verudex/Momentum-sub000/internal/calendar"
	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, now time.Time) (*summary.Service, *entries.RepoMock) {
	t.Helper()
	repo := entries.NewRepoMock()
	service := summary.NewService(repo, calendar.New(time.UTC))
	service.NowFunc = func() time.Time { return now }
	return service, repo
}

func TestService_WorkoutWeekly(t *testing.T) {
	ctx := context.Background()
	// Thursday 2025-06-12 14:00, logical week started Monday 2025-06-09 05:00
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	service, repo := newTestService(t, now)

	weekStart := time.Date(2025, 6, 9, 5, 0, 0, 0, time.UTC)

	// two workouts this week
	_, err := repo.AddWorkout(ctx, entries.Workout{
		OwnerUID:  "user-1",
		Name:      "Bench Press",
		Duration:  entries.Duration{Hours: "1", Minutes: "15"},
		CreatedAt: weekStart.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.AddWorkout(ctx, entries.Workout{
		OwnerUID:  "user-1",
		Name:      "Squat",
		Duration:  entries.Duration{Minutes: "45"},
		CreatedAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	// last week's workout stays out
	_, err = repo.AddWorkout(ctx, entries.Workout{
		OwnerUID:  "user-1",
		Name:      "Deadlift",
		Duration:  entries.Duration{Hours: "2"},
		CreatedAt: weekStart.Add(-time.Hour),
	})
	require.NoError(t, err)

	// other users stay out too
	_, err = repo.AddWorkout(ctx, entries.Workout{
		OwnerUID:  "user-2",
		Name:      "Row",
		Duration:  entries.Duration{Minutes: "30"},
		CreatedAt: now,
	})
	require.NoError(t, err)

	weekly, err := service.WorkoutWeekly(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, weekStart, weekly.WeekStart)
	assert.Equal(t, 2, weekly.TotalWorkouts)
	assert.Equal(t, 120, weekly.TotalMinutes)
}

func TestService_WorkoutWeekly_Empty(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC))

	weekly, err := service.WorkoutWeekly(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, weekly.TotalWorkouts)
	assert.Zero(t, weekly.TotalMinutes)
}

func TestService_DietWeekly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	service, repo := newTestService(t, now)

	// two days logged: 1800 on Monday, 2200 on Wednesday,
	// average runs over the two logged days only
	monday := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	wednesday := time.Date(2025, 6, 11, 19, 0, 0, 0, time.UTC)

	_, err := repo.AddDietRecord(ctx, entries.DietRecord{
		OwnerUID: "user-1", Name: "breakfast", Calories: "800", CreatedAt: monday,
	})
	require.NoError(t, err)
	_, err = repo.AddDietRecord(ctx, entries.DietRecord{
		OwnerUID: "user-1", Name: "dinner", Calories: "1000", CreatedAt: monday.Add(7 * time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.AddDietRecord(ctx, entries.DietRecord{
		OwnerUID: "user-1", Name: "feast", Calories: "2200", CreatedAt: wednesday,
	})
	require.NoError(t, err)

	weekly, err := service.DietWeekly(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 4000, weekly.TotalCalories, 0.001)
	assert.Equal(t, 2, weekly.DaysLogged)
	assert.InDelta(t, 2000, weekly.AverageCalories, 0.001)
	require.NotNil(t, weekly.HighestDay)
	assert.Equal(t, "2025-06-11", weekly.HighestDay.DayKey)
	assert.InDelta(t, 2200, weekly.HighestDay.Calories, 0.001)
}

func TestService_DietWeekly_DayBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	service, repo := newTestService(t, now)

	// a 02:00 snack belongs to the previous logical day
	lateSnack := time.Date(2025, 6, 11, 2, 0, 0, 0, time.UTC)
	_, err := repo.AddDietRecord(ctx, entries.DietRecord{
		OwnerUID: "user-1", Name: "midnight snack", Calories: "300", CreatedAt: lateSnack,
	})
	require.NoError(t, err)

	weekly, err := service.DietWeekly(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, weekly.HighestDay)
	assert.Equal(t, "2025-06-10", weekly.HighestDay.DayKey)
}

func TestService_DietWeekly_Empty(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC))

	weekly, err := service.DietWeekly(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, weekly.TotalCalories)
	assert.Zero(t, weekly.DaysLogged)
	assert.Zero(t, weekly.AverageCalories)
	assert.Nil(t, weekly.HighestDay)
}

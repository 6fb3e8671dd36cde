package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/verudex/Momentum-sub000/internal/calendar"
	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
)

type entriesLister interface {
	ListAllWorkouts(ctx context.Context, params entries.QueryParams) ([]entries.Workout, error)
	ListAllDietRecords(ctx context.Context, params entries.QueryParams) ([]entries.DietRecord, error)
}

// WorkoutWeekly is the roll-up of all workouts logged since the start of
// the current logical week.
type WorkoutWeekly struct {
	WeekStart     time.Time `json:"weekStart"`
	TotalWorkouts int       `json:"totalWorkouts"`
	TotalMinutes  int       `json:"totalMinutes"`
}

// DayTotal is one logical day's summed calories.
type DayTotal struct {
	DayKey   string  `json:"dayKey"`
	Calories float64 `json:"calories"`
}

// DietWeekly is the calorie roll-up for the current logical week. Averages
// run over days that actually have records, not over all seven days.
// HighestDay is nil when nothing was logged this week.
type DietWeekly struct {
	WeekStart       time.Time `json:"weekStart"`
	TotalCalories   float64   `json:"totalCalories"`
	DaysLogged      int       `json:"daysLogged"`
	AverageCalories float64   `json:"averageCalories"`
	HighestDay      *DayTotal `json:"highestDay,omitempty"`
}

type Service struct {
	entries entriesLister
	cal     *calendar.Calendar
	NowFunc func() time.Time
}

func NewService(lister entriesLister, cal *calendar.Calendar) *Service {
	return &Service{
		entries: lister,
		cal:     cal,
		NowFunc: time.Now,
	}
}

func (s *Service) WorkoutWeekly(ctx context.Context, ownerUID string) (_ *WorkoutWeekly, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "summary.workoutWeekly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	weekStart := s.cal.WeekStartOf(s.NowFunc())
	workouts, err := s.entries.ListAllWorkouts(ctx, entries.QueryParams{
		OwnerUID: ownerUID,
		Since:    &weekStart,
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	weekly := &WorkoutWeekly{
		WeekStart:     weekStart,
		TotalWorkouts: len(workouts),
	}
	for _, w := range workouts {
		weekly.TotalMinutes += w.Duration.TotalMinutes()
	}
	return weekly, nil
}

func (s *Service) DietWeekly(ctx context.Context, ownerUID string) (_ *DietWeekly, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "summary.dietWeekly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	weekStart := s.cal.WeekStartOf(s.NowFunc())
	records, err := s.entries.ListAllDietRecords(ctx, entries.QueryParams{
		OwnerUID: ownerUID,
		Since:    &weekStart,
	})
	if err != nil {
		return nil, fmt.Errorf("list diet records: %w", err)
	}

	perDay := make(map[string]float64)
	var total float64
	for _, rec := range records {
		dayKey := s.cal.DayKeyOf(rec.CreatedAt)
		calories := rec.CalorieValue()
		perDay[dayKey] += calories
		total += calories
	}

	weekly := &DietWeekly{
		WeekStart:     weekStart,
		TotalCalories: total,
		DaysLogged:    len(perDay),
	}
	if len(perDay) == 0 {
		return weekly, nil
	}

	weekly.AverageCalories = total / float64(len(perDay))
	for dayKey, calories := range perDay {
		if weekly.HighestDay == nil ||
			calories > weekly.HighestDay.Calories ||
			(calories == weekly.HighestDay.Calories && dayKey < weekly.HighestDay.DayKey) {
			weekly.HighestDay = &DayTotal{DayKey: dayKey, Calories: calories}
		}
	}
	return weekly, nil
}

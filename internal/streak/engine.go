package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verudex/Momentum-sub000/internal/calendar"
	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/target"
	"github.com/verudex/Momentum-sub000/internal/telemetry/metrics"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
)

type stateRepo interface {
	Get(ctx context.Context, ownerUID string, category entries.Category) (*State, error)
	Save(ctx context.Context, state State) error
}

type dietRecordsLister interface {
	ListAllDietRecords(ctx context.Context, params entries.QueryParams) ([]entries.DietRecord, error)
}

// Engine maintains the per-user streak counters.
//
// The diet streak is derived: each evaluation cycle checks whether the
// previous logical day met the calorie goal. The workout streak is not
// derived from entries at all, it only moves when the caller explicitly
// advances it, and evaluation merely reads the stored counter back.
type Engine struct {
	states         stateRepo
	entries        dietRecordsLister
	cal            *calendar.Calendar
	metricsManager *metrics.Manager
	NowFunc        func() time.Time
}

func NewEngine(
	states stateRepo,
	lister dietRecordsLister,
	cal *calendar.Calendar,
	metricsManager *metrics.Manager,
) *Engine {
	return &Engine{
		states:         states,
		entries:        lister,
		cal:            cal,
		metricsManager: metricsManager,
		NowFunc:        time.Now,
	}
}

// EvaluateDiet runs one evaluation cycle for the diet streak. Re-entry
// within the same logical day is a no-op on the counter. A change of goal
// type or target value resets the counter without judging yesterday. On
// the first cycle of a new day, yesterday's calorie total decides: a
// deficit goal succeeds at or below the target, a surplus goal at or
// above. The state is persisted at the end of every cycle, changed or
// not, to keep the day marker current.
func (e *Engine) EvaluateDiet(
	ctx context.Context,
	ownerUID string,
	goalType target.GoalType,
	targetValue float64,
) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streak.evaluateDiet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := e.NowFunc()
	todayKey := e.cal.DayKeyOf(now)

	state, err := e.states.Get(ctx, ownerUID, entries.CategoryDiet)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			return nil, fmt.Errorf("get streak state: %w", err)
		}
		state = newState(ownerUID, entries.CategoryDiet)
	}

	goalChanged := state.LastCheckedDayKey != "" &&
		(state.LastGoalType != goalType || state.LastTargetValue != targetValue)

	switch {
	case goalChanged:
		state.Count = 0
		state.LastCheckedDayKey = todayKey
		e.metricsManager.CounterStreakResets.WithLabelValues(entries.CategoryDiet.String()).Inc()
	case state.LastCheckedDayKey == todayKey:
		// already evaluated today
	default:
		yesterdayKey := e.cal.PreviousDayKey(now)
		total, err := e.dayCalories(ctx, ownerUID, yesterdayKey)
		if err != nil {
			return nil, err
		}
		if dietGoalMet(goalType, targetValue, total) {
			state.Count++
		} else {
			state.Count = 0
			e.metricsManager.CounterStreakResets.WithLabelValues(entries.CategoryDiet.String()).Inc()
		}
		state.LastCheckedDayKey = todayKey
	}

	state.LastGoalType = goalType
	state.LastTargetValue = targetValue

	if err := e.states.Save(ctx, *state); err != nil {
		return nil, fmt.Errorf("save streak state: %w", err)
	}

	e.metricsManager.CounterStreakEvaluations.WithLabelValues(entries.CategoryDiet.String()).Inc()
	return state, nil
}

// EvaluateWorkout reads the stored workout streak back without touching
// it. A user who never advanced gets a zero state.
func (e *Engine) EvaluateWorkout(ctx context.Context, ownerUID string) (*State, error) {
	state, err := e.states.Get(ctx, ownerUID, entries.CategoryWorkout)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return newState(ownerUID, entries.CategoryWorkout), nil
		}
		return nil, fmt.Errorf("get streak state: %w", err)
	}
	e.metricsManager.CounterStreakEvaluations.WithLabelValues(entries.CategoryWorkout.String()).Inc()
	return state, nil
}

// AdvanceWorkout bumps the workout streak for today. A second advance on
// the same logical day is a no-op. An advance after a skipped day starts
// the streak over at one.
func (e *Engine) AdvanceWorkout(ctx context.Context, ownerUID string) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streak.advanceWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := e.NowFunc()
	todayKey := e.cal.DayKeyOf(now)
	yesterdayKey := e.cal.PreviousDayKey(now)

	state, err := e.states.Get(ctx, ownerUID, entries.CategoryWorkout)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			return nil, fmt.Errorf("get streak state: %w", err)
		}
		state = newState(ownerUID, entries.CategoryWorkout)
	}

	switch state.LastCheckedDayKey {
	case todayKey:
		// already advanced today
		return state, nil
	case yesterdayKey:
		state.Count++
	default:
		state.Count = 1
	}
	state.LastCheckedDayKey = todayKey

	if err := e.states.Save(ctx, *state); err != nil {
		return nil, fmt.Errorf("save streak state: %w", err)
	}

	e.metricsManager.CounterStreakEvaluations.WithLabelValues(entries.CategoryWorkout.String()).Inc()
	return state, nil
}

func (e *Engine) dayCalories(ctx context.Context, ownerUID, dayKey string) (float64, error) {
	dayStart, _, err := e.cal.DayWindowOf(dayKey)
	if err != nil {
		return 0, fmt.Errorf("day window of %s: %w", dayKey, err)
	}

	records, err := e.entries.ListAllDietRecords(ctx, entries.QueryParams{
		OwnerUID: ownerUID,
		Since:    &dayStart,
	})
	if err != nil {
		return 0, fmt.Errorf("list diet records: %w", err)
	}

	var total float64
	for _, rec := range records {
		if e.cal.DayKeyOf(rec.CreatedAt) != dayKey {
			continue
		}
		total += rec.CalorieValue()
	}
	return total, nil
}

func dietGoalMet(goalType target.GoalType, targetValue, total float64) bool {
	if goalType == target.GoalSurplus {
		return total >= targetValue
	}
	return total <= targetValue
}

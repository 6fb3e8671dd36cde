package target

import (
	"context"
	"fmt"
	"time"

	"github.com/verudex/Momentum-sub000/internal/calendar"
	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
)

type targetStore interface {
	Get(ctx context.Context, ownerUID string) (*CalorieTarget, error)
	Save(ctx context.Context, t CalorieTarget) error
}

type dietRecordsLister interface {
	ListAllDietRecords(ctx context.Context, params entries.QueryParams) ([]entries.DietRecord, error)
}

// Evaluator measures today's logged calories against the stored target.
type Evaluator struct {
	targets targetStore
	entries dietRecordsLister
	cal     *calendar.Calendar
	NowFunc func() time.Time
}

func NewEvaluator(targets targetStore, lister dietRecordsLister, cal *calendar.Calendar) *Evaluator {
	return &Evaluator{
		targets: targets,
		entries: lister,
		cal:     cal,
		NowFunc: time.Now,
	}
}

func (e *Evaluator) Target(ctx context.Context, ownerUID string) (*CalorieTarget, error) {
	return e.targets.Get(ctx, ownerUID)
}

func (e *Evaluator) SetTarget(ctx context.Context, t CalorieTarget) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = e.NowFunc()
	return e.targets.Save(ctx, t)
}

// EvaluateToday sums today's logical-day calories and reports the progress
// against the stored target.
func (e *Evaluator) EvaluateToday(ctx context.Context, ownerUID string) (_ *Progress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "target.evaluateToday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t, err := e.targets.Get(ctx, ownerUID)
	if err != nil {
		return nil, err
	}

	now := e.NowFunc()
	todayKey := e.cal.DayKeyOf(now)
	dayStart, _, err := e.cal.DayWindowOf(todayKey)
	if err != nil {
		return nil, fmt.Errorf("day window of %s: %w", todayKey, err)
	}

	records, err := e.entries.ListAllDietRecords(ctx, entries.QueryParams{
		OwnerUID: ownerUID,
		Since:    &dayStart,
	})
	if err != nil {
		return nil, fmt.Errorf("list diet records: %w", err)
	}

	var total float64
	for _, rec := range records {
		if e.cal.DayKeyOf(rec.CreatedAt) != todayKey {
			continue
		}
		total += rec.CalorieValue()
	}

	percentage := total / t.TargetCalories * 100
	if percentage > 100 {
		percentage = 100
	}

	return &Progress{
		TargetCalories:      t.TargetCalories,
		GoalType:            t.GoalType,
		TotalCalories:       total,
		Percentage:          percentage,
		RemainingOrExceeded: t.TargetCalories - total,
	}, nil
}

package target

import (
	"context"
	"errors"

	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, ownerUID string) (_ *CalorieTarget, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.target.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var t CalorieTarget
	err = r.db.QueryRow(
		ctx,
		`SELECT owner_uid, target_calories, goal_type, updated_at
			FROM calorie_target
			WHERE owner_uid = $1;`,
		ownerUID,
	).Scan(&t.OwnerUID, &t.TargetCalories, &t.GoalType, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}

	return &t, nil
}

// Save upserts the target. Only the named fields are written, a concurrent
// writer of other per-user settings is never clobbered.
func (r *Repo) Save(ctx context.Context, t CalorieTarget) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.target.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO calorie_target (owner_uid, target_calories, goal_type, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (owner_uid) DO UPDATE SET
				target_calories = EXCLUDED.target_calories,
				goal_type = EXCLUDED.goal_type,
				updated_at = EXCLUDED.updated_at;`,
		t.OwnerUID, t.TargetCalories, t.GoalType.String(), t.UpdatedAt,
	)
	return err
}

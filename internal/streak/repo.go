package streak

import (
	"context"
	"errors"

	"github.com/verudex/Momentum-sub000/internal/entries"
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

func (r *Repo) Get(ctx context.Context, ownerUID string, category entries.Category) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.streak.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var state State
	err = r.db.QueryRow(
		ctx,
		`SELECT owner_uid, category, streak_count, last_checked_day_key, last_goal_type, last_target_value
			FROM streak_state
			WHERE owner_uid = $1 AND category = $2;`,
		ownerUID, category.String(),
	).Scan(
		&state.OwnerUID, &state.Category, &state.Count,
		&state.LastCheckedDayKey, &state.LastGoalType, &state.LastTargetValue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}

	return &state, nil
}

// Save upserts the state keyed on (owner, category), touching only its own
// columns.
func (r *Repo) Save(ctx context.Context, state State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.streak.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO streak_state
				(owner_uid, category, streak_count, last_checked_day_key, last_goal_type, last_target_value)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (owner_uid, category) DO UPDATE SET
				streak_count = EXCLUDED.streak_count,
				last_checked_day_key = EXCLUDED.last_checked_day_key,
				last_goal_type = EXCLUDED.last_goal_type,
				last_target_value = EXCLUDED.last_target_value;`,
		state.OwnerUID, state.Category.String(), state.Count,
		state.LastCheckedDayKey, state.LastGoalType.String(), state.LastTargetValue,
	)
	return err
}

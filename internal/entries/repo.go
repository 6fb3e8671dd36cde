package entries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrWorkoutNotFound    = errors.New("workout entry not found")
	ErrDietRecordNotFound = errors.New("diet record not found")
)

// DefaultPageSize is the page size used for cursor pagination.
const DefaultPageSize = 10

// QueryParams narrows an entry listing. Entries always belong to exactly one
// owner and come back ordered by timestamp, newest first. StartAfter is an
// opaque cursor (the id of the last entry of the previous page): the next
// page contains strictly older entries, no overlap and no gap.
type QueryParams struct {
	OwnerUID   string
	Name       string
	Since      *time.Time
	Limit      int
	StartAfter *int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddWorkout(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.addWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_entry
				(owner_uid, name, hours, minutes, seconds, sets, reps, weight, unit, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id;`,
		workout.OwnerUID, workout.Name,
		workout.Duration.Hours, workout.Duration.Minutes, workout.Duration.Seconds,
		workout.Sets, workout.Reps, workout.Weight, workout.Unit, workout.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", id))

	workout.ID = id
	return &workout, nil
}

// ListWorkouts returns the owner's workout entries, newest first.
func (r *Repo) ListWorkouts(ctx context.Context, params QueryParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.listWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("owner_uid", params.OwnerUID))
	span.SetAttributes(attribute.String("name", params.Name))
	if params.Since != nil {
		span.SetAttributes(attribute.String("since", params.Since.String()))
	}

	limit, err := resolveLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, owner_uid, name, hours, minutes, seconds, sets, reps, weight, unit, created_at
			FROM workout_entry
				WHERE owner_uid = $1
				AND ($2::text = '' OR name = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
				AND ($4::int IS NULL OR (created_at, id) <
					(SELECT created_at, id FROM workout_entry WHERE id = $4))
			ORDER BY created_at DESC, id DESC
			LIMIT $5;`,
		params.OwnerUID, params.Name, params.Since, params.StartAfter, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2workouts(rows)
}

// ListAllWorkouts is like ListWorkouts but without pagination: it returns
// every matching entry. Used by the aggregators, which need a full window.
func (r *Repo) ListAllWorkouts(ctx context.Context, params QueryParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.listAllWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("owner_uid", params.OwnerUID))
	span.SetAttributes(attribute.String("name", params.Name))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, owner_uid, name, hours, minutes, seconds, sets, reps, weight, unit, created_at
			FROM workout_entry
				WHERE owner_uid = $1
				AND ($2::text = '' OR name = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
			ORDER BY created_at DESC, id DESC;`,
		params.OwnerUID, params.Name, params.Since,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2workouts(rows)
}

func (r *Repo) GetWorkout(ctx context.Context, ownerUID string, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.getWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, owner_uid, name, hours, minutes, seconds, sets, reps, weight, unit, created_at
			FROM workout_entry
			WHERE id = $1 AND owner_uid = $2;`,
		id, ownerUID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// DeleteWorkout removes the entry, but only when it belongs to the owner.
func (r *Repo) DeleteWorkout(ctx context.Context, ownerUID string, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.deleteWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_entry WHERE id = $1 AND owner_uid = $2`,
		id, ownerUID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) AddDietRecord(ctx context.Context, record DietRecord) (_ *DietRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.addDietRecord")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO diet_entry
				(owner_uid, name, amount, calories, created_at)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		record.OwnerUID, record.Name, record.Amount, record.Calories, record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("diet_record.id", id))

	record.ID = id
	return &record, nil
}

// ListDietRecords returns the owner's diet records, newest first.
func (r *Repo) ListDietRecords(ctx context.Context, params QueryParams) (_ []DietRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.listDietRecords")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("owner_uid", params.OwnerUID))
	if params.Since != nil {
		span.SetAttributes(attribute.String("since", params.Since.String()))
	}

	limit, err := resolveLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, owner_uid, name, amount, calories, created_at
			FROM diet_entry
				WHERE owner_uid = $1
				AND ($2::text = '' OR name = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
				AND ($4::int IS NULL OR (created_at, id) <
					(SELECT created_at, id FROM diet_entry WHERE id = $4))
			ORDER BY created_at DESC, id DESC
			LIMIT $5;`,
		params.OwnerUID, params.Name, params.Since, params.StartAfter, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2dietRecords(rows)
}

// ListAllDietRecords is like ListDietRecords but without pagination.
func (r *Repo) ListAllDietRecords(ctx context.Context, params QueryParams) (_ []DietRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.listAllDietRecords")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("owner_uid", params.OwnerUID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, owner_uid, name, amount, calories, created_at
			FROM diet_entry
				WHERE owner_uid = $1
				AND ($2::text = '' OR name = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
			ORDER BY created_at DESC, id DESC;`,
		params.OwnerUID, params.Name, params.Since,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2dietRecords(rows)
}

// DeleteDietRecord removes the record, but only when it belongs to the owner.
func (r *Repo) DeleteDietRecord(ctx context.Context, ownerUID string, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.deleteDietRecord")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM diet_entry WHERE id = $1 AND owner_uid = $2`,
		id, ownerUID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDietRecordNotFound
	}
	return nil
}

// resolveLimit keeps an unset limit at the default page size. A NULL limit
// would make pagination pages unbounded, which no caller wants.
func resolveLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, errors.New("limit must not be negative")
	}
	if limit == 0 {
		return DefaultPageSize, nil
	}
	return limit, nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.OwnerUID, &w.Name,
			&w.Duration.Hours, &w.Duration.Minutes, &w.Duration.Seconds,
			&w.Sets, &w.Reps, &w.Weight, &w.Unit, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}

	if workouts == nil {
		workouts = make([]Workout, 0)
	}

	return workouts, nil
}

func rows2dietRecords(rows pgx.Rows) ([]DietRecord, error) {
	var records []DietRecord
	for rows.Next() {
		var d DietRecord
		if err := rows.Scan(
			&d.ID, &d.OwnerUID, &d.Name, &d.Amount, &d.Calories, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, d)
	}

	if records == nil {
		records = make([]DietRecord, 0)
	}

	return records, nil
}

package friends

import (
	"context"
	"errors"
	"fmt"

	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddUser(ctx context.Context, user User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.addUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO momentum_user (uid, username, password_hash, display_name, created_at)
			VALUES ($1, $2, $3, $4, $5);`,
		user.UID, user.Username, user.PasswordHash, user.DisplayName, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *Repo) GetUser(ctx context.Context, uid string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.getUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.scanUser(r.db.QueryRow(
		ctx,
		`SELECT uid, username, password_hash, display_name, created_at
			FROM momentum_user WHERE uid = $1;`,
		uid,
	))
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.getUserByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.scanUser(r.db.QueryRow(
		ctx,
		`SELECT uid, username, password_hash, display_name, created_at
			FROM momentum_user WHERE username = $1;`,
		username,
	))
}

func (r *Repo) scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.UID, &user.Username, &user.PasswordHash, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetCredentials fetches what the login flow needs and nothing else.
func (r *Repo) GetCredentials(ctx context.Context, username string) (uid, passwordHash string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.getCredentials")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`SELECT uid, password_hash FROM momentum_user WHERE username = $1;`,
		username,
	).Scan(&uid, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrUserNotFound
		}
		return "", "", err
	}
	return uid, passwordHash, nil
}

func (r *Repo) FriendUIDs(ctx context.Context, uid string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.friendUIDs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT friend_uid FROM friendship WHERE user_uid = $1 ORDER BY friend_uid;`,
		uid,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uids := make([]string, 0)
	for rows.Next() {
		var friendUID string
		if err := rows.Scan(&friendUID); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		uids = append(uids, friendUID)
	}
	return uids, rows.Err()
}

func (r *Repo) AddFriendRequest(ctx context.Context, request FriendRequest) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.addFriendRequest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO friend_request (from_uid, to_uid, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (from_uid, to_uid) DO NOTHING;`,
		request.FromUID, request.ToUID, request.CreatedAt,
	)
	return err
}

func (r *Repo) DeleteFriendRequest(ctx context.Context, fromUID, toUID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.deleteFriendRequest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM friend_request WHERE from_uid = $1 AND to_uid = $2;`,
		fromUID, toUID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFriendRequestNotFound
	}
	return nil
}

func (r *Repo) ReceivedRequests(ctx context.Context, uid string) (_ []FriendRequest, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.receivedRequests")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.listRequests(ctx, `SELECT from_uid, to_uid, created_at
		FROM friend_request WHERE to_uid = $1 ORDER BY created_at DESC;`, uid)
}

func (r *Repo) SentRequests(ctx context.Context, uid string) (_ []FriendRequest, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.sentRequests")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.listRequests(ctx, `SELECT from_uid, to_uid, created_at
		FROM friend_request WHERE from_uid = $1 ORDER BY created_at DESC;`, uid)
}

func (r *Repo) listRequests(ctx context.Context, query, uid string) ([]FriendRequest, error) {
	rows, err := r.db.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]FriendRequest, 0)
	for rows.Next() {
		var request FriendRequest
		if err := rows.Scan(&request.FromUID, &request.ToUID, &request.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// AddFriendship stores the confirmed friendship in both directions.
func (r *Repo) AddFriendship(ctx context.Context, uidA, uidB string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.addFriendship")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, pair := range [][2]string{{uidA, uidB}, {uidB, uidA}} {
		if _, err = tx.Exec(
			ctx,
			`INSERT INTO friendship (user_uid, friend_uid)
				VALUES ($1, $2)
				ON CONFLICT (user_uid, friend_uid) DO NOTHING;`,
			pair[0], pair[1],
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// RemoveFriendship removes both directions, no error when they were not
// friends in the first place.
func (r *Repo) RemoveFriendship(ctx context.Context, uidA, uidB string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.friends.removeFriendship")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`DELETE FROM friendship
			WHERE (user_uid = $1 AND friend_uid = $2)
				OR (user_uid = $2 AND friend_uid = $1);`,
		uidA, uidB,
	)
	return err
}

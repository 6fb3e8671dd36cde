package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/telemetry/metrics"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
)

// MaxEntries caps how many ranked users a board shows.
const MaxEntries = 10

// Metric picks what a leaderboard compares.
type Metric string

const (
	// MetricMaxWeight ranks by the heaviest single lift of the exercise.
	MetricMaxWeight Metric = "Max Weight"
	// MetricTimeSpent ranks by the longest single session of the exercise,
	// not the summed time across sessions.
	MetricTimeSpent Metric = "Time Spent"
)

func (m Metric) IsValid() bool {
	switch m {
	case MetricMaxWeight, MetricTimeSpent:
		return true
	default:
		return false
	}
}

// Entry is one ranked user. Display is the value formatted for the board:
// a weight with the unit suffix, or a duration like "1h30m5s".
type Entry struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Display     string `json:"display"`
}

type workoutsLister interface {
	ListAllWorkouts(ctx context.Context, params entries.QueryParams) ([]entries.Workout, error)
}

type friendsDirectory interface {
	FriendUIDs(ctx context.Context, uid string) ([]string, error)
	DisplayName(ctx context.Context, uid string) (string, error)
}

// Ranker builds the board for one user and their friends. Users without a
// single matching entry are left off the board entirely rather than shown
// with a zero score.
type Ranker struct {
	entries        workoutsLister
	friends        friendsDirectory
	metricsManager *metrics.Manager
}

func NewRanker(lister workoutsLister, friends friendsDirectory, metricsManager *metrics.Manager) *Ranker {
	return &Ranker{
		entries:        lister,
		friends:        friends,
		metricsManager: metricsManager,
	}
}

// Rank fetches every participant's entries for the named exercise and
// returns at most MaxEntries ranked results, best first. Ties keep the
// participant order: self first, then friends as the directory lists them.
func (r *Ranker) Rank(ctx context.Context, selfUID, workoutName string, metric Metric) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "leaderboard.rank")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workoutName == "" {
		return nil, errors.New("workout name required")
	}
	if !metric.IsValid() {
		return nil, fmt.Errorf("invalid metric: %s", metric)
	}

	friendUIDs, err := r.friends.FriendUIDs(ctx, selfUID)
	if err != nil {
		return nil, fmt.Errorf("friend uids: %w", err)
	}

	type scored struct {
		entry Entry
		value float64
		order int
	}

	participants := append([]string{selfUID}, friendUIDs...)
	board := make([]scored, 0, len(participants))
	for i, uid := range participants {
		workouts, err := r.entries.ListAllWorkouts(ctx, entries.QueryParams{
			OwnerUID: uid,
			Name:     workoutName,
		})
		if err != nil {
			return nil, fmt.Errorf("list workouts of %s: %w", uid, err)
		}
		if len(workouts) == 0 {
			continue
		}

		displayName, err := r.friends.DisplayName(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("display name of %s: %w", uid, err)
		}

		value, display := score(workouts, metric)
		board = append(board, scored{
			entry: Entry{
				UID:         uid,
				DisplayName: displayName,
				Display:     display,
			},
			value: value,
			order: i,
		})
	}

	sort.SliceStable(board, func(i, j int) bool {
		if board[i].value == board[j].value {
			return board[i].order < board[j].order
		}
		return board[i].value > board[j].value
	})
	if len(board) > MaxEntries {
		board = board[:MaxEntries]
	}

	ranked := make([]Entry, 0, len(board))
	for _, s := range board {
		ranked = append(ranked, s.entry)
	}

	r.metricsManager.CounterLeaderboardRankings.Inc()
	return ranked, nil
}

func score(workouts []entries.Workout, metric Metric) (value float64, display string) {
	switch metric {
	case MetricTimeSpent:
		best := workouts[0]
		for _, w := range workouts[1:] {
			if w.Duration.TotalSeconds() > best.Duration.TotalSeconds() {
				best = w
			}
		}
		display = best.Duration.Format()
		// ranked by the formatted value, to round-trip exactly what is shown
		value = float64(entries.ParseFormattedDuration(display))
	default: // MetricMaxWeight
		var maxWeight float64
		for _, w := range workouts {
			if weight := w.WeightValue(); weight > maxWeight {
				maxWeight = weight
			}
		}
		value = maxWeight
		display = fmt.Sprintf("%.1f kg", maxWeight)
	}
	return value, display
}

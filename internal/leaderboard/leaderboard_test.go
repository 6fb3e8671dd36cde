package leaderboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/friends"
	"github.com/verudex/Momentum-sub000/internal/leaderboard"
	"github.com/verudex/Momentum-sub000/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rankerFixture struct {
	ranker    *leaderboard.Ranker
	entries   *entries.RepoMock
	directory *friends.RepoMock
	service   *friends.Service
}

func newRankerFixture(t *testing.T) *rankerFixture {
	t.Helper()
	f := &rankerFixture{
		entries:   entries.NewRepoMock(),
		directory: friends.NewRepoMock(),
	}
	f.service = friends.NewService(f.directory)
	f.ranker = leaderboard.NewRanker(f.entries, f.service, metrics.NewTestManager())
	return f
}

func (f *rankerFixture) addUser(t *testing.T, uid, displayName string, friendOf string) {
	t.Helper()
	require.NoError(t, f.directory.AddUser(context.Background(), friends.User{
		UID: uid, Username: uid, DisplayName: displayName, CreatedAt: time.Now(),
	}))
	if friendOf != "" {
		require.NoError(t, f.directory.AddFriendship(context.Background(), friendOf, uid))
	}
}

func (f *rankerFixture) addWorkout(t *testing.T, uid, name, weight string, duration entries.Duration) {
	t.Helper()
	_, err := f.entries.AddWorkout(context.Background(), entries.Workout{
		OwnerUID: uid, Name: name, Weight: weight, Duration: duration,
		Unit: "metric", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestRanker_MaxWeight(t *testing.T) {
	ctx := context.Background()
	f := newRankerFixture(t)

	f.addUser(t, "uid-a", "A", "")
	f.addUser(t, "uid-b", "B", "uid-a")
	f.addUser(t, "uid-c", "C", "uid-a")

	// A tops out at 80, B at 100, C never benched
	f.addWorkout(t, "uid-a", "Bench Press", "80", entries.Duration{})
	f.addWorkout(t, "uid-a", "Bench Press", "60", entries.Duration{})
	f.addWorkout(t, "uid-b", "Bench Press", "100", entries.Duration{})
	f.addWorkout(t, "uid-c", "Squat", "170", entries.Duration{})

	ranked, err := f.ranker.Rank(ctx, "uid-a", "Bench Press", leaderboard.MetricMaxWeight)
	require.NoError(t, err)

	// C has no matching entries and is left off entirely
	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].DisplayName)
	assert.Equal(t, "100.0 kg", ranked[0].Display)
	assert.Equal(t, "A", ranked[1].DisplayName)
	assert.Equal(t, "80.0 kg", ranked[1].Display)
}

func TestRanker_MaxWeight_NonNumericCountsAsZero(t *testing.T) {
	ctx := context.Background()
	f := newRankerFixture(t)

	f.addUser(t, "uid-a", "A", "")
	f.addWorkout(t, "uid-a", "Bench Press", "heavy", entries.Duration{})

	ranked, err := f.ranker.Rank(ctx, "uid-a", "Bench Press", leaderboard.MetricMaxWeight)
	require.NoError(t, err)

	// a matching entry with garbage weight still puts the user on the board
	require.Len(t, ranked, 1)
	assert.Equal(t, "0.0 kg", ranked[0].Display)
}

func TestRanker_TimeSpent(t *testing.T) {
	ctx := context.Background()
	f := newRankerFixture(t)

	f.addUser(t, "uid-a", "A", "")
	f.addUser(t, "uid-b", "B", "uid-a")

	// best single session wins, not the sum: A's two 40m sessions
	// lose to B's single 1h session
	f.addWorkout(t, "uid-a", "Running", "", entries.Duration{Minutes: "40"})
	f.addWorkout(t, "uid-a", "Running", "", entries.Duration{Minutes: "40", Seconds: "30"})
	f.addWorkout(t, "uid-b", "Running", "", entries.Duration{Hours: "1"})

	ranked, err := f.ranker.Rank(ctx, "uid-a", "Running", leaderboard.MetricTimeSpent)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].DisplayName)
	assert.Equal(t, "1h", ranked[0].Display)
	assert.Equal(t, "A", ranked[1].DisplayName)
	assert.Equal(t, "40m30s", ranked[1].Display)
}

func TestRanker_TieKeepsParticipantOrder(t *testing.T) {
	ctx := context.Background()
	f := newRankerFixture(t)

	f.addUser(t, "uid-a", "A", "")
	f.addUser(t, "uid-b", "B", "uid-a")

	f.addWorkout(t, "uid-a", "Bench Press", "90", entries.Duration{})
	f.addWorkout(t, "uid-b", "Bench Press", "90", entries.Duration{})

	ranked, err := f.ranker.Rank(ctx, "uid-a", "Bench Press", leaderboard.MetricMaxWeight)
	require.NoError(t, err)

	// self comes before friends on equal scores
	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].DisplayName)
	assert.Equal(t, "B", ranked[1].DisplayName)
}

func TestRanker_TopTenCap(t *testing.T) {
	ctx := context.Background()
	f := newRankerFixture(t)

	f.addUser(t, "uid-self", "Self", "")
	f.addWorkout(t, "uid-self", "Deadlift", "50", entries.Duration{})
	for i := 0; i < 14; i++ {
		uid := string(rune('a'+i)) + "-uid"
		f.addUser(t, uid, uid, "uid-self")
		f.addWorkout(t, uid, "Deadlift", "100", entries.Duration{})
	}

	ranked, err := f.ranker.Rank(ctx, "uid-self", "Deadlift", leaderboard.MetricMaxWeight)
	require.NoError(t, err)

	assert.Len(t, ranked, leaderboard.MaxEntries)
	// self's 50 falls off the ten-deep board
	for _, entry := range ranked {
		assert.NotEqual(t, "uid-self", entry.UID)
	}
}

func TestRanker_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newRankerFixture(t)
	f.addUser(t, "uid-a", "A", "")

	_, err := f.ranker.Rank(ctx, "uid-a", "", leaderboard.MetricMaxWeight)
	require.Error(t, err)

	_, err = f.ranker.Rank(ctx, "uid-a", "Bench Press", "Total Volume")
	require.Error(t, err)
}

package streak_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/calendar"
	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/streak"
	"github.com/verudex/Momentum-sub000/internal/target"
	"github.com/verudex/Momentum-sub000/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_HandleEvaluate_Diet(t *testing.T) {
	ctx := context.Background()
	states := streak.NewRepoMock()
	entriesRepo := entries.NewRepoMock()
	targets := target.NewRepoMock()

	engine := streak.NewEngine(states, entriesRepo, calendar.New(time.UTC), metrics.NewTestManager())
	engine.NowFunc = func() time.Time { return time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC) }
	handler := streak.NewHandler(engine, targets)

	require.NoError(t, targets.Save(ctx, target.CalorieTarget{
		OwnerUID: "user-1", TargetCalories: 2000, GoalType: target.GoalDeficit,
	}))
	_, err := entriesRepo.AddDietRecord(ctx, entries.DietRecord{
		OwnerUID: "user-1", Name: "meal", Calories: "1700",
		CreatedAt: time.Date(2025, 6, 11, 19, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/streak/diet/evaluate", nil)
	req = req.WithContext(auth.ContextWithUserUID(req.Context(), "user-1"))
	req = mux.SetURLVars(req, map[string]string{"category": "diet"})
	rr := httptest.NewRecorder()

	handler.HandleEvaluate(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var state streak.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, "2025-06-12", state.LastCheckedDayKey)
}

func TestHandler_HandleEvaluate_DietWithoutTarget(t *testing.T) {
	engine := streak.NewEngine(
		streak.NewRepoMock(), entries.NewRepoMock(),
		calendar.New(time.UTC), metrics.NewTestManager(),
	)
	handler := streak.NewHandler(engine, target.NewRepoMock())

	req := httptest.NewRequest("POST", "/streak/diet/evaluate", nil)
	req = req.WithContext(auth.ContextWithUserUID(req.Context(), "user-1"))
	req = mux.SetURLVars(req, map[string]string{"category": "diet"})
	rr := httptest.NewRecorder()

	handler.HandleEvaluate(rr, req)
	assert.Equal(t, http.StatusPreconditionFailed, rr.Code)
}

func TestHandler_HandleEvaluate_InvalidCategory(t *testing.T) {
	engine := streak.NewEngine(
		streak.NewRepoMock(), entries.NewRepoMock(),
		calendar.New(time.UTC), metrics.NewTestManager(),
	)
	handler := streak.NewHandler(engine, target.NewRepoMock())

	req := httptest.NewRequest("POST", "/streak/sleep/evaluate", nil)
	req = req.WithContext(auth.ContextWithUserUID(req.Context(), "user-1"))
	req = mux.SetURLVars(req, map[string]string{"category": "sleep"})
	rr := httptest.NewRecorder()

	handler.HandleEvaluate(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleAdvanceWorkout(t *testing.T) {
	engine := streak.NewEngine(
		streak.NewRepoMock(), entries.NewRepoMock(),
		calendar.New(time.UTC), metrics.NewTestManager(),
	)
	handler := streak.NewHandler(engine, target.NewRepoMock())

	req := httptest.NewRequest("POST", "/streak/workout/advance", nil)
	req = req.WithContext(auth.ContextWithUserUID(req.Context(), "user-1"))
	rr := httptest.NewRecorder()

	handler.HandleAdvanceWorkout(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var state streak.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, 1, state.Count)
}

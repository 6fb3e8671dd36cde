package streak

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/target"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type streakEngine interface {
	EvaluateDiet(ctx context.Context, ownerUID string, goalType target.GoalType, targetValue float64) (*State, error)
	EvaluateWorkout(ctx context.Context, ownerUID string) (*State, error)
	AdvanceWorkout(ctx context.Context, ownerUID string) (*State, error)
}

type calorieTargetStore interface {
	Get(ctx context.Context, ownerUID string) (*target.CalorieTarget, error)
}

type Handler struct {
	engine  streakEngine
	targets calorieTargetStore
}

func NewHandler(engine streakEngine, targets calorieTargetStore) *Handler {
	return &Handler{
		engine:  engine,
		targets: targets,
	}
}

// HandleEvaluate runs one evaluation cycle for the category in the path
// and returns the resulting state.
func (handler *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.streak.evaluate")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	category := entries.Category(mux.Vars(r)["category"])
	if !category.IsValid() {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}

	var state *State
	var err error
	switch category {
	case entries.CategoryDiet:
		t, targetErr := handler.targets.Get(ctx, ownerUID)
		if targetErr != nil {
			if errors.Is(targetErr, target.ErrTargetNotFound) {
				http.Error(w, "no calorie target set", http.StatusPreconditionFailed)
				return
			}
			log.Errorf("streak evaluate, get calorie target for [%s]: %s", ownerUID, targetErr)
			http.Error(w, "failed to evaluate streak", http.StatusInternalServerError)
			return
		}
		state, err = handler.engine.EvaluateDiet(ctx, ownerUID, t.GoalType, t.TargetCalories)
	case entries.CategoryWorkout:
		state, err = handler.engine.EvaluateWorkout(ctx, ownerUID)
	}
	if err != nil {
		log.Errorf("evaluate %s streak for [%s]: %s", category, ownerUID, err)
		http.Error(w, "failed to evaluate streak", http.StatusInternalServerError)
		return
	}

	writeState(w, state)
}

// HandleAdvanceWorkout bumps the workout streak for today.
func (handler *Handler) HandleAdvanceWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.streak.advanceWorkout")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	state, err := handler.engine.AdvanceWorkout(ctx, ownerUID)
	if err != nil {
		log.Errorf("advance workout streak for [%s]: %s", ownerUID, err)
		http.Error(w, "failed to advance streak", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout streak for [%s] advanced to %d", ownerUID, state.Count)
	writeState(w, state)
}

func writeState(w http.ResponseWriter, state *State) {
	stateJson, err := json.Marshal(state)
	if err != nil {
		log.Errorf("marshal streak state: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, stateJson, http.StatusOK)
}

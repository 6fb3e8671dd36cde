package target

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/pkg"

	log "github.com/sirupsen/logrus"
)

type progressEvaluator interface {
	Target(ctx context.Context, ownerUID string) (*CalorieTarget, error)
	SetTarget(ctx context.Context, t CalorieTarget) error
	EvaluateToday(ctx context.Context, ownerUID string) (*Progress, error)
}

type SetTargetRequest struct {
	TargetCalories float64  `json:"targetCalories"`
	GoalType       GoalType `json:"goalType"`
}

type Handler struct {
	evaluator progressEvaluator
}

func NewHandler(evaluator progressEvaluator) *Handler {
	return &Handler{evaluator: evaluator}
}

func (handler *Handler) HandleGetTarget(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.target.get")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	t, err := handler.evaluator.Target(ctx, ownerUID)
	if err != nil {
		if errors.Is(err, ErrTargetNotFound) {
			http.Error(w, "no calorie target set", http.StatusNotFound)
			return
		}
		log.Errorf("get calorie target for [%s]: %s", ownerUID, err)
		http.Error(w, "failed to get calorie target", http.StatusInternalServerError)
		return
	}

	targetJson, err := json.Marshal(t)
	if err != nil {
		log.Errorf("marshal calorie target: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, targetJson, http.StatusOK)
}

func (handler *Handler) HandleSetTarget(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.target.set")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req SetTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set calorie target, unmarshal json params: %s", err)
		http.Error(w, "set calorie target failed", http.StatusBadRequest)
		return
	}

	t := CalorieTarget{
		OwnerUID:       ownerUID,
		TargetCalories: req.TargetCalories,
		GoalType:       req.GoalType,
	}
	if err := t.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.evaluator.SetTarget(ctx, t); err != nil {
		log.Errorf("set calorie target for [%s]: %s", ownerUID, err)
		http.Error(w, "failed to set calorie target", http.StatusInternalServerError)
		return
	}

	log.Debugf("calorie target for [%s] set: %.0f %s", ownerUID, t.TargetCalories, t.GoalType)
	pkg.WriteTextResponseOK(w, "target saved")
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.target.progress")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	progress, err := handler.evaluator.EvaluateToday(ctx, ownerUID)
	if err != nil {
		if errors.Is(err, ErrTargetNotFound) {
			http.Error(w, "no calorie target set", http.StatusNotFound)
			return
		}
		log.Errorf("evaluate progress for [%s]: %s", ownerUID, err)
		http.Error(w, "failed to evaluate progress", http.StatusInternalServerError)
		return
	}

	progressJson, err := json.Marshal(progress)
	if err != nil {
		log.Errorf("marshal progress: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, progressJson, http.StatusOK)
}

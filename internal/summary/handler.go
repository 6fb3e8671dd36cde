package summary

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/pkg"

	log "github.com/sirupsen/logrus"
)

type weeklyAggregator interface {
	WorkoutWeekly(ctx context.Context, ownerUID string) (*WorkoutWeekly, error)
	DietWeekly(ctx context.Context, ownerUID string) (*DietWeekly, error)
}

type Handler struct {
	service weeklyAggregator
}

func NewHandler(service weeklyAggregator) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) HandleWorkoutWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.summary.workoutWeekly")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	weekly, err := handler.service.WorkoutWeekly(ctx, ownerUID)
	if err != nil {
		log.Errorf("weekly workout summary for [%s]: %s", ownerUID, err)
		http.Error(w, "failed to get weekly summary", http.StatusInternalServerError)
		return
	}

	weeklyJson, err := json.Marshal(weekly)
	if err != nil {
		log.Errorf("marshal weekly workout summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, weeklyJson, http.StatusOK)
}

func (handler *Handler) HandleDietWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.summary.dietWeekly")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	weekly, err := handler.service.DietWeekly(ctx, ownerUID)
	if err != nil {
		log.Errorf("weekly diet summary for [%s]: %s", ownerUID, err)
		http.Error(w, "failed to get weekly summary", http.StatusInternalServerError)
		return
	}

	weeklyJson, err := json.Marshal(weekly)
	if err != nil {
		log.Errorf("marshal weekly diet summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, weeklyJson, http.StatusOK)
}

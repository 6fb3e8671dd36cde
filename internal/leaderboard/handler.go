package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/pkg"

	log "github.com/sirupsen/logrus"
)

type ranker interface {
	Rank(ctx context.Context, selfUID, workoutName string, metric Metric) ([]Entry, error)
}

type RankResponse struct {
	Exercise string  `json:"exercise"`
	Metric   Metric  `json:"metric"`
	Entries  []Entry `json:"entries"`
}

type Handler struct {
	ranker ranker
}

func NewHandler(ranker ranker) *Handler {
	return &Handler{ranker: ranker}
}

// HandleRank builds the board for the exercise and metric in the query.
// The metric defaults to max weight.
func (handler *Handler) HandleRank(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.leaderboard.rank")
	defer span.End()

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	metric := Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = MetricMaxWeight
	}
	if !metric.IsValid() {
		http.Error(w, "invalid metric", http.StatusBadRequest)
		return
	}

	ranked, err := handler.ranker.Rank(ctx, uid, exercise, metric)
	if err != nil {
		log.Errorf("rank [%s] for [%s]: %s", exercise, uid, err)
		http.Error(w, "failed to build leaderboard", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(RankResponse{
		Exercise: exercise,
		Metric:   metric,
		Entries:  ranked,
	})
	if err != nil {
		log.Errorf("marshal leaderboard: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

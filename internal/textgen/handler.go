package textgen

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

type generator interface {
	EstimateCalories(ctx context.Context, mealDescription string) (string, error)
	GeneratePlan(ctx context.Context, goals string) (string, error)
}

type AssistRequest struct {
	Prompt string `json:"prompt"`
}

type AssistResponse struct {
	Text string `json:"text"`
}

type Handler struct {
	generator generator
}

func NewHandler(generator generator) *Handler {
	return &Handler{generator: generator}
}

func (handler *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	handler.handleAssist(w, r, "handler.textgen.estimate", handler.generator.EstimateCalories)
}

func (handler *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	handler.handleAssist(w, r, "handler.textgen.plan", handler.generator.GeneratePlan)
}

func (handler *Handler) handleAssist(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	generate func(ctx context.Context, prompt string) (string, error),
) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), spanName)
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req AssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("assist, unmarshal json params: %s", err)
		http.Error(w, "assist failed", http.StatusBadRequest)
		return
	}

	text, err := generate(ctx, req.Prompt)
	if err != nil {
		if errors.Is(err, ErrEmptyPrompt) {
			http.Error(w, "error, prompt empty", http.StatusBadRequest)
			return
		}
		log.Errorf("assist for [%s]: %s", uid, err)
		http.Error(w, "text generation failed", http.StatusBadGateway)
		return
	}

	respJson, err := json.Marshal(AssistResponse{Text: text})
	if err != nil {
		log.Errorf("marshal assist response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

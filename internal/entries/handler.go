package entries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/telemetry/metrics"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type entriesRepo interface {
	AddWorkout(ctx context.Context, workout Workout) (*Workout, error)
	ListWorkouts(ctx context.Context, params QueryParams) ([]Workout, error)
	GetWorkout(ctx context.Context, ownerUID string, id int) (*Workout, error)
	DeleteWorkout(ctx context.Context, ownerUID string, id int) error
	AddDietRecord(ctx context.Context, record DietRecord) (*DietRecord, error)
	ListDietRecords(ctx context.Context, params QueryParams) ([]DietRecord, error)
	DeleteDietRecord(ctx context.Context, ownerUID string, id int) error
}

type DeleteEntryResponse struct {
	DeletedID int `json:"deletedId"`
}

type WorkoutsListResponse struct {
	Workouts []Workout `json:"workouts"`
}

type DietRecordsListResponse struct {
	DietRecords []DietRecord `json:"dietRecords"`
}

type Handler struct {
	repo           entriesRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo entriesRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.addWorkout")
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

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if workout.Name == "" {
		http.Error(w, "error, workout name empty", http.StatusBadRequest)
		return
	}

	// timestamp is server-assigned
	workout.OwnerUID = ownerUID
	workout.CreatedAt = time.Now()

	addedWorkout, err := handler.repo.AddWorkout(ctx, workout)
	if err != nil {
		log.Errorf("failed to add new workout [%s] for [%s]: %s", workout.Name, ownerUID, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterWorkoutEntries.Inc()

	addedWorkoutJson, err := json.Marshal(addedWorkout)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: [%s] for [%s]: %d", addedWorkout.Name, ownerUID, addedWorkout.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedWorkoutJson, http.StatusCreated)
}

func (handler *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.listWorkouts")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := listParamsFromRequest(r, ownerUID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workouts, err := handler.repo.ListWorkouts(ctx, params)
	if err != nil {
		log.Errorf("list workouts error: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(WorkoutsListResponse{
		Workouts: workouts,
	})
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.getWorkout")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := idFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.GetWorkout(ctx, ownerUID, id)
	if err != nil {
		log.Errorf("failed to get workout %d: %s", id, err)
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.deleteWorkout")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := idFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteWorkout(ctx, ownerUID, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			log.Debugf("workout %d not found", id)
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d: %s", id, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteEntryResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleAddDietRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.addDietRecord")
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

	var record DietRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Tracef("new diet record, unmarshal json params: %s", err)
		http.Error(w, "add diet record failed", http.StatusBadRequest)
		return
	}

	if record.Name == "" {
		http.Error(w, "error, diet record name empty", http.StatusBadRequest)
		return
	}

	record.OwnerUID = ownerUID
	record.CreatedAt = time.Now()

	addedRecord, err := handler.repo.AddDietRecord(ctx, record)
	if err != nil {
		log.Errorf("failed to add new diet record [%s] for [%s]: %s", record.Name, ownerUID, err)
		http.Error(w, "error, failed to add new diet record", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterDietEntries.Inc()

	addedRecordJson, err := json.Marshal(addedRecord)
	if err != nil {
		log.Errorf("failed to marshal new diet record: %s", err)
		http.Error(w, "error, failed to add new diet record", http.StatusInternalServerError)
		return
	}

	log.Debugf("new diet record added: [%s] for [%s]: %d", addedRecord.Name, ownerUID, addedRecord.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedRecordJson, http.StatusCreated)
}

func (handler *Handler) HandleListDietRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.listDietRecords")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := listParamsFromRequest(r, ownerUID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := handler.repo.ListDietRecords(ctx, params)
	if err != nil {
		log.Errorf("list diet records error: %s", err)
		http.Error(w, "failed to get diet records", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(DietRecordsListResponse{
		DietRecords: records,
	})
	if err != nil {
		log.Errorf("marshal diet records error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteDietRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.deleteDietRecord")
	defer span.End()

	ownerUID, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := idFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteDietRecord(ctx, ownerUID, id); err != nil {
		if errors.Is(err, ErrDietRecordNotFound) {
			log.Debugf("diet record %d not found", id)
			http.Error(w, "diet record not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete diet record %d: %s", id, err)
		http.Error(w, "diet record not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteEntryResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func idFromRequest(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}

func listParamsFromRequest(r *http.Request, ownerUID string) (QueryParams, error) {
	params := QueryParams{
		OwnerUID: ownerUID,
		Name:     r.URL.Query().Get("name"),
	}

	if startAfterStr := r.URL.Query().Get("start_after"); startAfterStr != "" {
		startAfter, err := strconv.Atoi(startAfterStr)
		if err != nil {
			return QueryParams{}, errors.New("parse form error, parameter <start_after>")
		}
		params.StartAfter = &startAfter
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return QueryParams{}, errors.New("invalid limit (has to be non-zero value)")
		}
		params.Limit = limit
	}

	return params, nil
}

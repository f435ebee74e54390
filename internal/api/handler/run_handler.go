package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"covid-warehouse/internal/config"
	"covid-warehouse/internal/fetch"
	"covid-warehouse/internal/model"
	"covid-warehouse/internal/pipeline"
	"covid-warehouse/internal/storage"
	"covid-warehouse/internal/store"

	"github.com/google/uuid"
)

var cfg config.Config

// Setup installs the loaded configuration for run creation.
func Setup(c config.Config) {
	cfg = c
}

// CreateRun triggers a pipeline run against the configured backend and
// returns immediately; progress is tracked in the run store.
func CreateRun(w http.ResponseWriter, r *http.Request) {
	runID := uuid.New().String()

	if err := store.SaveRun(runID, cfg.Storage.Backend); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	go executeRun(runID)

	resp := map[string]interface{}{
		"message":   "Run started",
		"runID":     runID,
		"status":    model.RunStatusPending,
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func executeRun(runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	warehouse, err := storage.Open(cfg.Storage)
	if err != nil {
		store.UpdateRunStatus(runID, model.RunStatusFailed)
		store.SaveRunError(runID, "", string(pipeline.ErrorKindStorage), err)
		return
	}
	defer warehouse.Close()

	store.UpdateRunStatus(runID, model.RunStatusRunning)

	fetcher := fetch.NewClient(cfg.Fetch, cfg.FetchTimeout(), cfg.FetchInitialDelay())
	runner := pipeline.NewRunner(fetcher, warehouse, store.NewRecorder()).
		WithURLOverrides(cfg.Datasets)

	if err := runner.Run(ctx, runID); err != nil {
		store.UpdateRunStatus(runID, model.RunStatusFailed)
		return
	}
	store.UpdateRunStatus(runID, model.RunStatusCompleted)
}

// ListRuns returns all recorded runs, newest first.
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun returns one run's summary.
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunTasks returns per-task progress of a run in wave order.
func GetRunTasks(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/tasks")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	tasks, err := store.GetRunTasks(runID)
	if err != nil {
		http.Error(w, "Failed to fetch tasks", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// GetRunErrors returns the recorded errors of a run.
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/errors")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to fetch errors", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(errs)
}

func runIDFromPath(path, suffix string) (string, bool) {
	const prefix = "/api/v1/runs/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	runID := strings.TrimSuffix(path[len(prefix):], suffix)
	return runID, runID != ""
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vizor-ai/vizor/internal/orchestrator"
)

// JobsHandler handles job lifecycle requests.
type JobsHandler struct {
	jobs JobService
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(jobs JobService) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// HandleSubmit handles POST /jobs requests.
func (h *JobsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_job"
	var spec orchestrator.JobSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	job, err := h.jobs.SubmitJob(r.Context(), spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

// HandleList handles GET /jobs requests.
func (h *JobsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.jobs.Jobs(r.Context()))
}

// HandleGet handles GET /jobs/{id} requests.
func (h *JobsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	job, err := h.jobs.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// HandleCancel handles DELETE /jobs/{id} requests. Cancelling an
// unknown or already-completed job returns 409.
func (h *JobsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	const op = "api.cancel_job"
	id := r.PathValue("id")
	if !h.jobs.CancelJob(r.Context(), id) {
		writeError(w, http.StatusConflict, "not_cancellable", NewKind(op, errors.New("job missing or already completed")))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled", "id": id})
}

// completeRequest mirrors the request schema for POST /jobs/{id}/complete.
// An empty error marks success.
type completeRequest struct {
	Error string `json:"error,omitempty"`
}

// HandleComplete handles POST /jobs/{id}/complete requests from
// external workers reporting an outcome.
func (h *JobsHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	const op = "api.complete_job"
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	var execErr error
	if req.Error != "" {
		execErr = errors.New(req.Error)
	}
	switch err := h.jobs.CompleteJob(r.Context(), r.PathValue("id"), execErr); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
	case errors.Is(err, orchestrator.ErrMaxRetriesExceeded):
		// The outcome is recorded; the job just has no attempts left.
		writeJSON(w, http.StatusOK, map[string]string{"status": "recorded", "result": "failed"})
	default:
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
	}
}

// HandleMetrics handles GET /orchestrator/metrics requests.
func (h *JobsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.jobs.Metrics(r.Context()))
}

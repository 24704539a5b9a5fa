// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/vizor-ai/vizor/internal/orchestrator"
)

// WorkersHandler handles worker registry requests.
type WorkersHandler struct {
	jobs JobService
}

// NewWorkersHandler creates a new workers handler.
func NewWorkersHandler(jobs JobService) *WorkersHandler {
	return &WorkersHandler{jobs: jobs}
}

// HandleRegister handles POST /workers requests.
func (h *WorkersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_worker"
	var spec orchestrator.WorkerSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	worker, err := h.jobs.RegisterWorker(r.Context(), spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusCreated, worker)
}

// HandleList handles GET /workers requests.
func (h *WorkersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.jobs.Workers(r.Context()))
}

// HandleGet handles GET /workers/{id} requests.
func (h *WorkersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_worker"
	worker, err := h.jobs.GetWorker(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

// HandleHeartbeat handles POST /workers/{id}/heartbeat requests.
func (h *WorkersHandler) HandleHeartbeat(w http.ResponseWriter, r *http.Request) {
	const op = "api.heartbeat"
	if err := h.jobs.Heartbeat(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

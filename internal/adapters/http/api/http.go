// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/internal/orchestrator"
)

// ScoreService exposes the aggregation pipeline to HTTP handlers. Using
// an interface bundle keeps the handler layer loosely coupled to
// implementations in other packages.
type ScoreService interface {
	ComputeScore(ctx context.Context, subject string) (model.ScoreRecord, error)
	Recompute(ctx context.Context, subject string) (model.ScoreRecord, error)
}

// JobService exposes job and worker orchestration to HTTP handlers.
type JobService interface {
	SubmitJob(ctx context.Context, spec orchestrator.JobSpec) (model.Job, error)
	GetJob(ctx context.Context, jobID string) (model.Job, error)
	Jobs(ctx context.Context) []model.Job
	CancelJob(ctx context.Context, jobID string) bool
	CompleteJob(ctx context.Context, jobID string, execErr error) error
	RegisterWorker(ctx context.Context, spec orchestrator.WorkerSpec) (model.Worker, error)
	GetWorker(ctx context.Context, workerID string) (model.Worker, error)
	Workers(ctx context.Context) []model.Worker
	Heartbeat(ctx context.Context, workerID string) error
	Metrics(ctx context.Context) orchestrator.Metrics
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	analyzeHandler *AnalyzeHandler
	jobsHandler    *JobsHandler
	workersHandler *WorkersHandler
	statsHandler   *StatsHandler
	healthHandler  *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(scores ScoreService, jobs JobService, statsProvider StatsProvider) *Server {
	return &Server{
		analyzeHandler: NewAnalyzeHandler(scores),
		jobsHandler:    NewJobsHandler(jobs),
		workersHandler: NewWorkersHandler(jobs),
		statsHandler:   NewStatsHandler(statsProvider),
		healthHandler:  NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("POST /jobs", MetricsMiddleware(s.jobsHandler.HandleSubmit, "jobs"))
	mux.HandleFunc("GET /jobs", MetricsMiddleware(s.jobsHandler.HandleList, "jobs"))
	mux.HandleFunc("GET /jobs/{id}", MetricsMiddleware(s.jobsHandler.HandleGet, "jobs"))
	mux.HandleFunc("DELETE /jobs/{id}", MetricsMiddleware(s.jobsHandler.HandleCancel, "jobs"))
	mux.HandleFunc("POST /jobs/{id}/complete", MetricsMiddleware(s.jobsHandler.HandleComplete, "jobs"))
	mux.HandleFunc("GET /orchestrator/metrics", MetricsMiddleware(s.jobsHandler.HandleMetrics, "orchestrator_metrics"))
	mux.HandleFunc("POST /workers", MetricsMiddleware(s.workersHandler.HandleRegister, "workers"))
	mux.HandleFunc("GET /workers", MetricsMiddleware(s.workersHandler.HandleList, "workers"))
	mux.HandleFunc("GET /workers/{id}", MetricsMiddleware(s.workersHandler.HandleGet, "workers"))
	mux.HandleFunc("POST /workers/{id}/heartbeat", MetricsMiddleware(s.workersHandler.HandleHeartbeat, "workers"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

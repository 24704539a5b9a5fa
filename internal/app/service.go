// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/vizor-ai/vizor/internal/adapters/cache"
	"github.com/vizor-ai/vizor/internal/domain/aggregate"
	"github.com/vizor-ai/vizor/internal/domain/budget"
	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/internal/domain/scoring"
	"github.com/vizor-ai/vizor/internal/orchestrator"
	"github.com/vizor-ai/vizor/pkg/logger"
	"github.com/vizor-ai/vizor/pkg/metrics"
)

// Service wires the scoring pipeline and the job orchestrator behind
// the API surfaces.
type Service struct {
	mu sync.RWMutex

	// Core components
	cheap      []scoring.Scorer
	ai         scoring.Scorer
	governor   *budget.DailyGovernor
	records    cache.Store[model.ScoreRecord]
	pool       cache.Store[model.ScoreComponent]
	aggregator *aggregate.Aggregator
	orch       *orchestrator.Orchestrator

	// Configuration
	weights          scoring.Weights
	coefficients     aggregate.Coefficients
	budgetCeiling    int
	resultTTL        time.Duration
	poolTTL          time.Duration
	cacheCapacity    int
	scheduleInterval time.Duration
	monitorInterval  time.Duration
	heartbeatTimeout time.Duration
	maxRetries       int
	workerCount      int

	// State
	started    bool
	lastReport *orchestrator.Metrics
	reportedAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weights:          scoring.DefaultWeights(),
		coefficients:     aggregate.DefaultCoefficients(),
		budgetCeiling:    50,
		resultTTL:        24 * time.Hour,
		poolTTL:          7 * 24 * time.Hour,
		cacheCapacity:    10_000,
		scheduleInterval: 10 * time.Second,
		monitorInterval:  30 * time.Second,
		heartbeatTimeout: 5 * time.Minute,
		maxRetries:       3,
		workerCount:      4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting visibility service...")

	s.cheap = []scoring.Scorer{
		scoring.NewStructuredData(),
		scoring.NewZeroClick(),
		scoring.NewUGC(),
		scoring.NewGeoTrust(),
	}
	s.ai = scoring.NewAIMention()
	s.governor = budget.NewDailyGovernor(
		budget.WithCeiling(s.budgetCeiling),
	)
	s.records = cache.NewLRUStore[model.ScoreRecord](
		cache.WithName("results"),
		cache.WithCapacity(s.cacheCapacity),
		cache.WithTTL(s.resultTTL),
	)
	s.pool = cache.NewLRUStore[model.ScoreComponent](
		cache.WithName("pool"),
		cache.WithCapacity(s.cacheCapacity),
		cache.WithTTL(s.poolTTL),
	)

	agg, err := aggregate.New(s.cheap, s.ai, s.governor, s.records, s.pool,
		aggregate.WithWeights(s.weights),
		aggregate.WithCoefficients(s.coefficients),
	)
	if err != nil {
		return err
	}
	s.aggregator = agg

	s.orch = orchestrator.New(
		orchestrator.WithScheduleInterval(s.scheduleInterval),
		orchestrator.WithMonitorInterval(s.monitorInterval),
		orchestrator.WithHeartbeatTimeout(s.heartbeatTimeout),
		orchestrator.WithMaxRetries(s.maxRetries),
		orchestrator.WithHandler(model.JobTypeAnalysis, s.handleAnalysis),
		orchestrator.WithHandler(model.JobTypeDataCollection, s.handleDataCollection),
		orchestrator.WithHandler(model.JobTypeOptimization, s.handleOptimization),
		orchestrator.WithHandler(model.JobTypeReporting, s.handleReporting),
		orchestrator.WithHandler(model.JobTypeMaintenance, s.handleMaintenance),
	)
	s.orch.Start(ctx)

	if err := s.registerDefaultWorkers(ctx); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "visibility service started",
		logger.Int("workers", s.workerCount),
		logger.Int("budget_ceiling", s.budgetCeiling),
		logger.Duration("result_ttl", s.resultTTL),
	)
	return nil
}

// registerDefaultWorkers seeds the registry with in-process workers
// covering every job type. Caller holds the lock.
func (s *Service) registerDefaultWorkers(ctx context.Context) error {
	specs := []orchestrator.WorkerSpec{
		{Name: "analyzer", Type: model.CapAIAnalyzer, Capabilities: []string{model.CapDataProcessor}},
		{Name: "collector", Type: model.CapDataProcessor, Capabilities: []string{model.CapReporter}},
		{Name: "optimizer", Type: model.CapOptimizer},
		{Name: "janitor", Type: model.CapMaintenance},
	}
	for i := 0; i < s.workerCount; i++ {
		spec := specs[i%len(specs)]
		if _, err := s.orch.RegisterWorker(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping visibility service...")
	s.orch.Stop(ctx)
	s.started = false
	s.logger.Info(ctx, "visibility service stopped")
}

// ComputeScore returns the visibility record for subject, served from
// cache when fresh.
func (s *Service) ComputeScore(ctx context.Context, subject string) (model.ScoreRecord, error) {
	return s.aggregator.ComputeScore(ctx, subject)
}

// Recompute forces a fresh aggregation for subject.
func (s *Service) Recompute(ctx context.Context, subject string) (model.ScoreRecord, error) {
	return s.aggregator.Recompute(ctx, subject)
}

// SubmitJob enqueues a job for scheduling.
func (s *Service) SubmitJob(ctx context.Context, spec orchestrator.JobSpec) (model.Job, error) {
	return s.orch.SubmitJob(ctx, spec)
}

// GetJob returns a job by id.
func (s *Service) GetJob(ctx context.Context, jobID string) (model.Job, error) {
	return s.orch.GetJob(ctx, jobID)
}

// Jobs lists all jobs in submission order.
func (s *Service) Jobs(ctx context.Context) []model.Job {
	return s.orch.Jobs(ctx)
}

// CancelJob cancels a job if it has not completed.
func (s *Service) CancelJob(ctx context.Context, jobID string) bool {
	return s.orch.CancelJob(ctx, jobID)
}

// CompleteJob records an externally executed job outcome.
func (s *Service) CompleteJob(ctx context.Context, jobID string, execErr error) error {
	return s.orch.CompleteJob(ctx, jobID, execErr)
}

// RegisterWorker adds a worker to the registry.
func (s *Service) RegisterWorker(ctx context.Context, spec orchestrator.WorkerSpec) (model.Worker, error) {
	return s.orch.RegisterWorker(ctx, spec)
}

// GetWorker returns a worker by id.
func (s *Service) GetWorker(ctx context.Context, workerID string) (model.Worker, error) {
	return s.orch.GetWorker(ctx, workerID)
}

// Workers lists all workers in registration order.
func (s *Service) Workers(ctx context.Context) []model.Worker {
	return s.orch.Workers(ctx)
}

// Heartbeat records worker liveness.
func (s *Service) Heartbeat(ctx context.Context, workerID string) error {
	return s.orch.Heartbeat(ctx, workerID)
}

// Metrics returns the orchestrator health snapshot.
func (s *Service) Metrics(ctx context.Context) orchestrator.Metrics {
	return s.orch.Metrics(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":        s.started,
		"worker_count":   s.workerCount,
		"budget_ceiling": s.budgetCeiling,
	}
	if s.started {
		used := s.governor.UsedToday(ctx)
		stats["budget_used_today"] = used
		stats["cached_results"] = s.records.Len(ctx)
		stats["pooled_components"] = s.pool.Len(ctx)
		stats["orchestrator"] = s.orch.Metrics(ctx)
		metrics.UpdateBudgetUsed(used)
	}
	if s.lastReport != nil {
		stats["last_report"] = *s.lastReport
		stats["last_report_at"] = s.reportedAt
	}
	return stats
}

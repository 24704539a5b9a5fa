package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vizor-ai/vizor/internal/domain/aggregate"
	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/pkg/logger"
)

// errMissingSubject rejects score jobs submitted without a subject.
var errMissingSubject = errors.New("payload missing subject")

// handleAnalysis computes the visibility score for the payload subject,
// served from cache when a fresh record exists.
func (s *Service) handleAnalysis(ctx context.Context, job model.Job) error {
	subject, ok := job.Payload["subject"]
	if !ok || aggregate.Normalize(subject) == "" {
		return errMissingSubject
	}
	rec, err := s.aggregator.ComputeScore(ctx, subject)
	if err != nil {
		return fmt.Errorf("analysis of %s: %w", subject, err)
	}
	s.logger.Info(ctx, "analysis complete",
		logger.String("subject", rec.Subject),
		logger.Int("overall", rec.Overall),
		logger.String("provenance", string(rec.Provenance)),
	)
	return nil
}

// handleDataCollection warms the cheap signal sources for the payload
// subject so a later analysis run starts from a primed state. Failures
// of individual sources are tolerated; the job fails only when every
// source does.
func (s *Service) handleDataCollection(ctx context.Context, job model.Job) error {
	subject, ok := job.Payload["subject"]
	if !ok || aggregate.Normalize(subject) == "" {
		return errMissingSubject
	}
	normalized := aggregate.Normalize(subject)
	succeeded := 0
	for _, sc := range s.cheap {
		if _, err := sc.Score(ctx, normalized); err == nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		return fmt.Errorf("data collection for %s: no source reachable", normalized)
	}
	return nil
}

// handleOptimization recomputes the subject's score bypassing the
// result cache, so downstream consumers see post-change numbers.
func (s *Service) handleOptimization(ctx context.Context, job model.Job) error {
	subject, ok := job.Payload["subject"]
	if !ok || aggregate.Normalize(subject) == "" {
		return errMissingSubject
	}
	rec, err := s.aggregator.Recompute(ctx, subject)
	if err != nil {
		return fmt.Errorf("optimization of %s: %w", subject, err)
	}
	s.logger.Info(ctx, "optimization recompute complete",
		logger.String("subject", rec.Subject),
		logger.Int("overall", rec.Overall),
	)
	return nil
}

// handleReporting snapshots orchestrator health. The latest snapshot is
// retained and surfaced through GetStats.
func (s *Service) handleReporting(ctx context.Context, _ model.Job) error {
	m := s.orch.Metrics(ctx)

	s.mu.Lock()
	s.lastReport = &m
	s.reportedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info(ctx, "orchestrator report",
		logger.Int("total_jobs", m.TotalJobs),
		logger.Int("completed", m.CompletedJobs),
		logger.Int("failed", m.FailedJobs),
		logger.Float64("throughput", m.Throughput),
		logger.Float64("error_rate", m.ErrorRate),
	)
	return nil
}

// handleMaintenance drops stale budget windows and reports cache
// occupancy.
func (s *Service) handleMaintenance(ctx context.Context, _ model.Job) error {
	s.governor.Prune(ctx)
	s.logger.Info(ctx, "maintenance complete",
		logger.Int("budget_used_today", s.governor.UsedToday(ctx)),
		logger.Int("cached_results", s.records.Len(ctx)),
		logger.Int("pooled_components", s.pool.Len(ctx)),
	)
	return nil
}

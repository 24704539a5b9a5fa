package orchestrator

import (
	"context"
	"time"

	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/pkg/logger"
	"github.com/vizor-ai/vizor/pkg/metrics"
)

// RunMonitorPass marks workers without a recent heartbeat offline and
// requeues their running jobs. A reassignment is not an execution
// failure: the retry count is left untouched. Returns the number of
// workers taken offline.
func (o *Orchestrator) RunMonitorPass(ctx context.Context) int {
	o.mu.Lock()
	now := o.now()
	offlined := 0
	for _, w := range o.workers {
		if w.Status == model.WorkerOffline {
			continue
		}
		if now.Sub(w.LastHeartbeat) <= o.heartbeatTimeout {
			continue
		}

		w.Status = model.WorkerOffline
		offlined++
		if w.CurrentJob != "" {
			if job := o.jobs[w.CurrentJob]; job != nil && job.Status == model.JobRunning {
				job.Status = model.JobPending
				job.AssignedWorker = ""
				job.StartedAt = time.Time{}
				metrics.RecordJobReassigned()
				o.logger.Warn(ctx, "job requeued after worker timeout",
					logger.String("job_id", job.ID),
					logger.String("worker_id", w.ID),
				)
			}
			w.CurrentJob = ""
		}
		o.logger.Warn(ctx, "worker offline",
			logger.String("worker_id", w.ID),
			logger.String("name", w.Name),
		)
	}
	o.mu.Unlock()

	if offlined > 0 {
		o.updateGauges()
	}
	return offlined
}

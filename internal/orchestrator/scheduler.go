package orchestrator

import (
	"context"
	"sort"
	"time"

	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/pkg/logger"
)

// requiredCapabilities maps each job type to the capabilities that
// qualify a worker for it. A worker matching any one entry qualifies.
var requiredCapabilities = map[model.JobType][]string{
	model.JobTypeDataCollection: {model.CapDataProcessor},
	model.JobTypeAnalysis:       {model.CapAIAnalyzer, model.CapDataProcessor},
	model.JobTypeOptimization:   {model.CapOptimizer, model.CapAIAnalyzer},
	model.JobTypeReporting:      {model.CapReporter, model.CapDataProcessor},
	model.JobTypeMaintenance:    {model.CapMaintenance},
}

func workerMatches(w *model.Worker, jobType model.JobType) bool {
	for _, c := range requiredCapabilities[jobType] {
		if w.Can(c) {
			return true
		}
	}
	return false
}

// compositeScore ranks candidate workers. Reliability dominates, with
// speed and experience splitting the remainder.
func compositeScore(s model.WorkerStats) float64 {
	return 0.4*s.SuccessRate + 0.3*(100-s.AverageDuration) + 0.3*float64(s.JobsCompleted)
}

// RunSchedulePass assigns pending jobs to idle workers and returns the
// number of assignments made. Jobs are visited by priority rank, then
// submission order; each is given to the best-scoring idle worker whose
// capabilities match. Jobs with unmet dependencies are skipped and
// revisited on later passes. The pass runs under the registry lock;
// dispatch goroutines launch after it is released.
func (o *Orchestrator) RunSchedulePass(ctx context.Context) int {
	type dispatchItem struct {
		job      model.Job
		workerID string
		handler  HandlerFunc
	}
	var dispatches []dispatchItem

	o.mu.Lock()
	pending := make([]*model.Job, 0)
	for _, j := range o.jobs {
		if j.Status == model.JobPending {
			pending = append(pending, j)
		}
	}
	sort.Slice(pending, func(i, k int) bool {
		ri, rk := pending[i].Priority.Rank(), pending[k].Priority.Rank()
		if ri != rk {
			return ri > rk
		}
		return pending[i].Seq < pending[k].Seq
	})

	idle := make([]*model.Worker, 0)
	for _, w := range o.workers {
		if w.Status == model.WorkerIdle {
			idle = append(idle, w)
		}
	}
	sort.Slice(idle, func(i, k int) bool {
		if idle[i].CreatedAt.Equal(idle[k].CreatedAt) {
			return idle[i].ID < idle[k].ID
		}
		return idle[i].CreatedAt.Before(idle[k].CreatedAt)
	})

	assigned := 0
	now := o.now()
	for _, job := range pending {
		if len(idle) == 0 {
			break
		}
		if !o.dependenciesMetLocked(job) {
			continue
		}

		best := -1
		bestScore := 0.0
		for i, w := range idle {
			if !workerMatches(w, job.Type) {
				continue
			}
			if score := compositeScore(w.Stats); best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			continue
		}

		worker := idle[best]
		idle = append(idle[:best], idle[best+1:]...)

		job.Status = model.JobRunning
		job.AssignedWorker = worker.ID
		job.StartedAt = now
		worker.Status = model.WorkerBusy
		worker.CurrentJob = job.ID
		worker.LastHeartbeat = now
		assigned++

		if h, ok := o.handlers[job.Type]; ok {
			dispatches = append(dispatches, dispatchItem{job: *job, workerID: worker.ID, handler: h})
		}

		o.logger.Debug(ctx, "job assigned",
			logger.String("job_id", job.ID),
			logger.String("worker_id", worker.ID),
			logger.String("type", string(job.Type)),
		)
	}
	o.mu.Unlock()

	for _, d := range dispatches {
		go o.dispatch(ctx, d.job, d.workerID, d.handler)
	}
	if assigned > 0 {
		o.updateGauges()
	}
	return assigned
}

// dependenciesMetLocked reports whether every dependency of job has
// completed. Unknown dependency ids block the job rather than unblocking
// it. Caller holds the registry lock.
func (o *Orchestrator) dependenciesMetLocked(job *model.Job) bool {
	for _, dep := range job.Dependencies {
		d, ok := o.jobs[dep]
		if !ok || d.Status != model.JobCompleted {
			return false
		}
	}
	return true
}

// dispatch runs an in-process handler for an assigned job and reports
// the outcome. The worker is heartbeaten while the handler runs so long
// jobs are not mistaken for a dead worker.
func (o *Orchestrator) dispatch(ctx context.Context, job model.Job, workerID string, handler HandlerFunc) {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(o.heartbeatTimeout / 3)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = o.Heartbeat(ctx, workerID)
			}
		}
	}()

	err := handler(ctx, job)
	close(stop)
	_ = o.CompleteJob(ctx, job.ID, err)
}

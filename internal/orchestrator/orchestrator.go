// Package orchestrator owns the job and worker registries and runs the
// scheduling and heartbeat-monitoring passes. Both registries live in a
// single mutex-guarded container; every public operation and both
// periodic passes serialize through it, while job execution itself runs
// on independent dispatch goroutines.
package orchestrator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/pkg/logger"
	"github.com/vizor-ai/vizor/pkg/metrics"
)

// HandlerFunc executes one job in-process. A nil return completes the
// job; an error triggers the retry policy.
type HandlerFunc func(ctx context.Context, job model.Job) error

// JobSpec describes a job to submit.
type JobSpec struct {
	Type         model.JobType     `json:"type"`
	Priority     model.JobPriority `json:"priority"`
	Payload      map[string]string `json:"payload,omitempty"`
	MaxRetries   int               `json:"max_retries,omitempty"`
	Dependencies []string          `json:"dependencies,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
}

// WorkerSpec describes a worker to register.
type WorkerSpec struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// Orchestrator assigns pending jobs to idle capability-matching workers,
// monitors worker liveness, and applies the retry policy.
type Orchestrator struct {
	mu      sync.Mutex
	jobs    map[string]*model.Job
	workers map[string]*model.Worker
	seq     uint64

	handlers          map[model.JobType]HandlerFunc
	scheduleInterval  time.Duration
	monitorInterval   time.Duration
	heartbeatTimeout  time.Duration
	defaultMaxRetries int
	now               func() time.Time
	logger            logger.Logger

	startedAt time.Time
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates an orchestrator with empty registries.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		jobs:              make(map[string]*model.Job),
		workers:           make(map[string]*model.Worker),
		handlers:          make(map[model.JobType]HandlerFunc),
		scheduleInterval:  defaultScheduleInterval,
		monitorInterval:   defaultMonitorInterval,
		heartbeatTimeout:  defaultHeartbeatTimeout,
		defaultMaxRetries: defaultMaxRetries,
		now:               time.Now,
		logger:            logger.Get().Named("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RegisterHandler installs the in-process executor for a job type.
// Job types without a handler are left for external workers to complete
// via CompleteJob.
func (o *Orchestrator) RegisterHandler(jobType model.JobType, h HandlerFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handlers[jobType] = h
}

// Start launches the periodic scheduling and heartbeat passes. The two
// loops are independent and never block job submission.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.startedAt = o.now()
	o.stopCh = make(chan struct{})
	o.doneCh = make(chan struct{})
	o.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.loop(ctx, o.scheduleInterval, func() { o.RunSchedulePass(ctx) })
	}()
	go func() {
		defer wg.Done()
		o.loop(ctx, o.monitorInterval, func() { o.RunMonitorPass(ctx) })
	}()
	go func() {
		wg.Wait()
		close(o.doneCh)
	}()
	o.logger.Info(ctx, "orchestrator started",
		logger.Duration("schedule_interval", o.scheduleInterval),
		logger.Duration("monitor_interval", o.monitorInterval),
	)
}

func (o *Orchestrator) loop(ctx context.Context, interval time.Duration, pass func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stopCh:
			return
		case <-ticker.C:
			pass()
		}
	}
}

// Stop halts the periodic passes. In-flight dispatches finish on their
// own and report through CompleteJob.
func (o *Orchestrator) Stop(ctx context.Context) {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return
	}
	o.started = false
	close(o.stopCh)
	done := o.doneCh
	o.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		o.logger.Warn(ctx, "orchestrator stop timed out")
	}
}

// SubmitJob validates spec, assigns an id, and stores the job pending.
func (o *Orchestrator) SubmitJob(ctx context.Context, spec JobSpec) (model.Job, error) {
	if !spec.Type.Valid() {
		return model.Job{}, ErrInvalidJobSpec
	}
	priority := spec.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.Job{}, ErrInvalidJobSpec
	}
	maxRetries := spec.MaxRetries
	if maxRetries <= 0 {
		maxRetries = o.defaultMaxRetries
	}

	o.mu.Lock()
	o.seq++
	job := &model.Job{
		ID:           uuid.NewString(),
		Type:         spec.Type,
		Priority:     priority,
		Status:       model.JobPending,
		Payload:      spec.Payload,
		CreatedAt:    o.now(),
		MaxRetries:   maxRetries,
		Dependencies: spec.Dependencies,
		Tags:         spec.Tags,
		Seq:          o.seq,
	}
	o.jobs[job.ID] = job
	snapshot := *job
	o.mu.Unlock()

	metrics.RecordJobSubmitted()
	o.updateGauges()
	o.logger.Debug(ctx, "job submitted",
		logger.String("job_id", snapshot.ID),
		logger.String("type", string(snapshot.Type)),
		logger.String("priority", string(snapshot.Priority)),
	)
	return snapshot, nil
}

// RegisterWorker validates spec, assigns an id, and stores the worker
// idle. Fresh workers start with an optimistic success rate so they are
// not starved against seasoned ones.
func (o *Orchestrator) RegisterWorker(ctx context.Context, spec WorkerSpec) (model.Worker, error) {
	if spec.Name == "" || spec.Type == "" {
		return model.Worker{}, ErrInvalidWorkerSpec
	}

	o.mu.Lock()
	worker := &model.Worker{
		ID:            uuid.NewString(),
		Name:          spec.Name,
		Type:          spec.Type,
		Status:        model.WorkerIdle,
		Capabilities:  spec.Capabilities,
		LastHeartbeat: o.now(),
		Stats:         model.WorkerStats{SuccessRate: 100},
		CreatedAt:     o.now(),
	}
	o.workers[worker.ID] = worker
	snapshot := *worker
	o.mu.Unlock()

	o.updateGauges()
	o.logger.Info(ctx, "worker registered",
		logger.String("worker_id", snapshot.ID),
		logger.String("name", snapshot.Name),
		logger.String("type", snapshot.Type),
	)
	return snapshot, nil
}

// Heartbeat records worker liveness. An offline worker that heartbeats
// again returns to the idle pool.
func (o *Orchestrator) Heartbeat(ctx context.Context, workerID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	w, ok := o.workers[workerID]
	if !ok {
		return ErrWorkerNotFound
	}
	w.LastHeartbeat = o.now()
	if w.Status == model.WorkerOffline {
		w.Status = model.WorkerIdle
		o.logger.Info(ctx, "worker back online", logger.String("worker_id", workerID))
	}
	return nil
}

// CompleteJob records the outcome of a running job. A nil execErr marks
// success; otherwise the retry policy applies, and a failure that
// exhausts the retry ceiling returns ErrMaxRetriesExceeded. Late
// completions for jobs no longer running (cancelled or reassigned) are
// a no-op.
func (o *Orchestrator) CompleteJob(ctx context.Context, jobID string, execErr error) error {
	o.mu.Lock()
	job, ok := o.jobs[jobID]
	if !ok {
		o.mu.Unlock()
		return ErrJobNotFound
	}
	if job.Status != model.JobRunning {
		o.mu.Unlock()
		return nil
	}

	now := o.now()
	worker := o.workers[job.AssignedWorker]
	var terminalErr error

	if execErr == nil {
		job.Status = model.JobCompleted
		job.CompletedAt = now
		job.ActualDuration = now.Sub(job.StartedAt)
		if worker != nil {
			recordAttempt(&worker.Stats, true, job.ActualDuration)
		}
		metrics.RecordJobCompleted()
		metrics.RecordJobDuration(job.ActualDuration.Seconds())
	} else {
		job.RetryCount++
		if worker != nil {
			recordAttempt(&worker.Stats, false, 0)
		}
		if job.RetryCount < job.MaxRetries {
			job.Status = model.JobPending
			job.AssignedWorker = ""
			job.StartedAt = time.Time{}
			metrics.RecordJobRetried()
			o.logger.Warn(ctx, "job failed, requeued",
				logger.String("job_id", jobID),
				logger.Int("retry_count", job.RetryCount),
				logger.Int("max_retries", job.MaxRetries),
				logger.Error(execErr),
			)
		} else {
			job.Status = model.JobFailed
			job.CompletedAt = now
			job.Error = execErr.Error()
			terminalErr = ErrMaxRetriesExceeded
			metrics.RecordJobFailed()
			o.logger.Error(ctx, "job failed permanently",
				logger.String("job_id", jobID),
				logger.Int("retry_count", job.RetryCount),
				logger.Error(execErr),
			)
		}
	}

	if worker != nil {
		worker.Status = model.WorkerIdle
		worker.CurrentJob = ""
		worker.LastHeartbeat = now
	}
	o.mu.Unlock()

	o.updateGauges()
	return terminalErr
}

// CancelJob marks a job cancelled and frees any assigned worker. It
// returns false if the job is unknown or already completed. The cancel
// is cooperative: a dispatch already executing is not interrupted, and
// its late completion becomes a no-op.
func (o *Orchestrator) CancelJob(ctx context.Context, jobID string) bool {
	o.mu.Lock()
	job, ok := o.jobs[jobID]
	if !ok || job.Status == model.JobCompleted {
		o.mu.Unlock()
		return false
	}

	job.Status = model.JobCancelled
	job.CompletedAt = o.now()
	if job.AssignedWorker != "" {
		if w := o.workers[job.AssignedWorker]; w != nil && w.CurrentJob == jobID {
			w.Status = model.WorkerIdle
			w.CurrentJob = ""
		}
		job.AssignedWorker = ""
	}
	o.mu.Unlock()

	metrics.RecordJobCancelled()
	o.updateGauges()
	o.logger.Info(ctx, "job cancelled", logger.String("job_id", jobID))
	return true
}

// GetJob returns a copy of the job.
func (o *Orchestrator) GetJob(_ context.Context, jobID string) (model.Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	job, ok := o.jobs[jobID]
	if !ok {
		return model.Job{}, ErrJobNotFound
	}
	return *job, nil
}

// GetWorker returns a copy of the worker.
func (o *Orchestrator) GetWorker(_ context.Context, workerID string) (model.Worker, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	w, ok := o.workers[workerID]
	if !ok {
		return model.Worker{}, ErrWorkerNotFound
	}
	return *w, nil
}

// Jobs returns copies of every job in submission order.
func (o *Orchestrator) Jobs(_ context.Context) []model.Job {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Seq < out[k].Seq })
	return out
}

// Workers returns copies of every worker in registration order.
func (o *Orchestrator) Workers(_ context.Context) []model.Worker {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.Worker, 0, len(o.workers))
	for _, w := range o.workers {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID < out[k].ID
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out
}

// recordAttempt folds one execution attempt into the rolling stats.
// Success rate averages over all attempts; mean duration averages over
// successes only, weighted by completed-job count.
func recordAttempt(s *model.WorkerStats, success bool, duration time.Duration) {
	s.Attempts++
	outcome := 0.0
	if success {
		outcome = 100
	}
	s.SuccessRate = (s.SuccessRate*float64(s.Attempts-1) + outcome) / float64(s.Attempts)
	if success {
		s.JobsCompleted++
		s.AverageDuration = (s.AverageDuration*float64(s.JobsCompleted-1) + duration.Seconds()) / float64(s.JobsCompleted)
	}
}

func (o *Orchestrator) updateGauges() {
	o.mu.Lock()
	pending, running, busy := 0, 0, 0
	for _, j := range o.jobs {
		switch j.Status {
		case model.JobPending:
			pending++
		case model.JobRunning:
			running++
		}
	}
	for _, w := range o.workers {
		if w.Status == model.WorkerBusy {
			busy++
		}
	}
	total := len(o.workers)
	o.mu.Unlock()

	metrics.UpdateJobsPending(pending)
	metrics.UpdateJobsRunning(running)
	metrics.UpdateWorkersBusy(busy)
	metrics.UpdateWorkersTotal(total)
}

package orchestrator

import (
	"context"

	"github.com/vizor-ai/vizor/internal/domain/model"
)

// Metrics is a point-in-time snapshot of orchestrator health.
type Metrics struct {
	TotalJobs     int `json:"total_jobs"`
	PendingJobs   int `json:"pending_jobs"`
	RunningJobs   int `json:"running_jobs"`
	CompletedJobs int `json:"completed_jobs"`
	FailedJobs    int `json:"failed_jobs"`
	CancelledJobs int `json:"cancelled_jobs"`

	// AverageJobDuration is the mean wall time of completed jobs, in
	// seconds.
	AverageJobDuration float64 `json:"average_job_duration"`
	// Throughput is completed jobs per minute of orchestrator uptime.
	Throughput float64 `json:"throughput"`
	// WorkerUtilization is busy workers over non-offline workers, as a
	// percentage.
	WorkerUtilization float64 `json:"worker_utilization"`
	// ErrorRate is permanently failed jobs over finished jobs, as a
	// percentage.
	ErrorRate float64 `json:"error_rate"`
	// QueueDepth is the pending-job count per priority class.
	QueueDepth map[model.JobPriority]int `json:"queue_depth"`
}

// Metrics computes the snapshot from the live registries.
func (o *Orchestrator) Metrics(_ context.Context) Metrics {
	o.mu.Lock()
	defer o.mu.Unlock()

	m := Metrics{
		QueueDepth: map[model.JobPriority]int{
			model.PriorityLow:      0,
			model.PriorityMedium:   0,
			model.PriorityHigh:     0,
			model.PriorityCritical: 0,
		},
	}
	totalDuration := 0.0
	for _, j := range o.jobs {
		m.TotalJobs++
		switch j.Status {
		case model.JobPending:
			m.PendingJobs++
			m.QueueDepth[j.Priority]++
		case model.JobRunning:
			m.RunningJobs++
		case model.JobCompleted:
			m.CompletedJobs++
			totalDuration += j.ActualDuration.Seconds()
		case model.JobFailed:
			m.FailedJobs++
		case model.JobCancelled:
			m.CancelledJobs++
		}
	}

	if m.CompletedJobs > 0 {
		m.AverageJobDuration = totalDuration / float64(m.CompletedJobs)
	}
	if o.started {
		if uptime := o.now().Sub(o.startedAt).Minutes(); uptime > 0 {
			m.Throughput = float64(m.CompletedJobs) / uptime
		}
	}

	busy, available := 0, 0
	for _, w := range o.workers {
		switch w.Status {
		case model.WorkerBusy:
			busy++
			available++
		case model.WorkerIdle, model.WorkerError:
			available++
		}
	}
	if available > 0 {
		m.WorkerUtilization = float64(busy) / float64(available) * 100
	}
	if finished := m.CompletedJobs + m.FailedJobs; finished > 0 {
		m.ErrorRate = float64(m.FailedJobs) / float64(finished) * 100
	}
	return m
}

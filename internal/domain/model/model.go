// Package model contains domain records passed between layers.
package model

import "time"

// Provenance tags how a ScoreRecord's AI-mention component was obtained.
type Provenance string

// Provenance values.
const (
	// ProvenanceComputed means the AI-mention scorer was actually invoked.
	ProvenanceComputed Provenance = "computed"
	// ProvenanceEstimated means the AI component was derived from the
	// cheap scorers via the configured correlation coefficients.
	ProvenanceEstimated Provenance = "estimated"
	// ProvenancePooled means a recent shared result for the same subject
	// was reused instead of spending budget.
	ProvenancePooled Provenance = "pooled"
)

// ScoreComponent is one named 0-100 sub-score produced by a single
// source scorer. Immutable once produced.
type ScoreComponent struct {
	Source     string  `json:"source"`
	Value      float64 `json:"value"`
	Detail     string  `json:"detail,omitempty"`
	Confidence float64 `json:"confidence"` // 0-1
	Failed     bool    `json:"failed,omitempty"`
}

// ScoreRecord is the aggregate visibility result for one subject at one
// point in time. A new computation always produces a new record.
type ScoreRecord struct {
	Subject    string           `json:"subject"`
	Components []ScoreComponent `json:"components"`
	Overall    int              `json:"overall"`
	Confidence float64          `json:"confidence"`
	Provenance Provenance       `json:"provenance"`
	ComputedAt time.Time        `json:"computed_at"`
}

// Component returns the named component and whether it exists.
func (r ScoreRecord) Component(source string) (ScoreComponent, bool) {
	for _, c := range r.Components {
		if c.Source == source {
			return c, true
		}
	}
	return ScoreComponent{}, false
}

// JobType enumerates the kinds of orchestrated work.
type JobType string

// Job types.
const (
	JobTypeDataCollection JobType = "data_collection"
	JobTypeAnalysis       JobType = "analysis"
	JobTypeOptimization   JobType = "optimization"
	JobTypeReporting      JobType = "reporting"
	JobTypeMaintenance    JobType = "maintenance"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeDataCollection, JobTypeAnalysis, JobTypeOptimization, JobTypeReporting, JobTypeMaintenance:
		return true
	}
	return false
}

// JobPriority orders pending jobs within a scheduling pass.
type JobPriority string

// Job priorities.
const (
	PriorityLow      JobPriority = "low"
	PriorityMedium   JobPriority = "medium"
	PriorityHigh     JobPriority = "high"
	PriorityCritical JobPriority = "critical"
)

// Rank maps a priority to a sortable weight; higher runs first.
func (p JobPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Valid reports whether p is a known priority.
func (p JobPriority) Valid() bool { return p.Rank() > 0 }

// JobStatus tracks the strictly forward job lifecycle:
// pending -> running -> {completed, failed, cancelled}, with
// failed -> pending allowed only while retries remain.
type JobStatus string

// Job statuses.
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Job is one unit of orchestrated work.
type Job struct {
	ID             string            `json:"id"`
	Type           JobType           `json:"type"`
	Priority       JobPriority       `json:"priority"`
	Status         JobStatus         `json:"status"`
	Payload        map[string]string `json:"payload,omitempty"`
	AssignedWorker string            `json:"assigned_worker,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	StartedAt      time.Time         `json:"started_at,omitzero"`
	CompletedAt    time.Time         `json:"completed_at,omitzero"`
	Error          string            `json:"error,omitempty"`
	RetryCount     int               `json:"retry_count"`
	MaxRetries     int               `json:"max_retries"`
	ActualDuration time.Duration     `json:"actual_duration,omitempty"`
	Dependencies   []string          `json:"dependencies,omitempty"`
	Tags           []string          `json:"tags,omitempty"`

	// Seq is the submission order, used as the FIFO tiebreak between
	// equal-priority jobs.
	Seq uint64 `json:"-"`
}

// WorkerStatus tracks worker availability.
type WorkerStatus string

// Worker statuses.
const (
	WorkerIdle    WorkerStatus = "idle"
	WorkerBusy    WorkerStatus = "busy"
	WorkerOffline WorkerStatus = "offline"
	WorkerError   WorkerStatus = "error"
)

// Worker capability tags. A worker's type is its primary capability;
// Capabilities may add more.
const (
	CapDataProcessor = "data_processor"
	CapAIAnalyzer    = "ai_analyzer"
	CapOptimizer     = "optimizer"
	CapReporter      = "reporter"
	CapMaintenance   = "maintenance"
)

// WorkerStats holds running performance statistics, mutated only by the
// orchestrator on job completion.
type WorkerStats struct {
	JobsCompleted   int     `json:"jobs_completed"`
	Attempts        int     `json:"attempts"`
	AverageDuration float64 `json:"average_duration"` // seconds, over successes
	SuccessRate     float64 `json:"success_rate"`     // 0-100, over attempts
}

// Worker is a named capability-tagged executor owned by the orchestrator.
type Worker struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Status        WorkerStatus `json:"status"`
	Capabilities  []string     `json:"capabilities,omitempty"`
	CurrentJob    string       `json:"current_job,omitempty"`
	LastHeartbeat time.Time    `json:"last_heartbeat"`
	Stats         WorkerStats  `json:"stats"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Can reports whether the worker declares the given capability either as
// its type or in its capability list.
func (w Worker) Can(capability string) bool {
	if w.Type == capability {
		return true
	}
	for _, c := range w.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

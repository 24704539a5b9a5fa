// Package metrics provides Prometheus metrics for the Vizor scoring and
// orchestration service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service emits.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring pipeline
	scoreComputations *prometheus.CounterVec // by provenance
	scoreFailures     prometheus.Counter
	scorerLatency     *prometheus.HistogramVec // by source
	scorerErrors      *prometheus.CounterVec   // by source, reason

	// Cache and budget
	cacheHits          *prometheus.CounterVec // by store
	cacheMisses        *prometheus.CounterVec // by store
	budgetReservations prometheus.Counter
	budgetDenials      prometheus.Counter
	budgetUsed         prometheus.Gauge

	// Orchestrator
	jobsSubmitted  prometheus.Counter
	jobsCompleted  prometheus.Counter
	jobsFailed     prometheus.Counter
	jobsRetried    prometheus.Counter
	jobsCancelled  prometheus.Counter
	jobsReassigned prometheus.Counter
	jobDuration    prometheus.Histogram
	jobsPending    prometheus.Gauge
	jobsRunning    prometheus.Gauge
	workersBusy    prometheus.Gauge
	workersTotal   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors by component
	componentErrors *prometheus.CounterVec
}

// Global manager on a custom registry so default Go metrics stay out of
// the exposition.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vizor",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoreComputations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "computations_total",
		Help:      "Score computations by provenance of the AI-mention component",
	}, []string{"provenance"})

	m.scoreFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "failures_total",
		Help:      "Score computations that failed because every source failed",
	})

	m.scorerLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "source_latency_milliseconds",
		Help:      "Latency of individual source scorer calls",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.scorerErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "source_errors_total",
		Help:      "Source scorer failures by source and reason",
	}, []string{"source", "reason"})

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Cache hits by store",
	}, []string{"store"})

	m.cacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Cache misses by store",
	}, []string{"store"})

	m.budgetReservations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "budget",
		Name:      "reservations_total",
		Help:      "Granted expensive-query reservations",
	})

	m.budgetDenials = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "budget",
		Name:      "denials_total",
		Help:      "Denied expensive-query reservations",
	})

	m.budgetUsed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "budget",
		Name:      "used_today",
		Help:      "Expensive queries spent against today's ceiling",
	})

	m.jobsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_submitted_total",
		Help:      "Jobs accepted into the registry",
	})

	m.jobsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_completed_total",
		Help:      "Jobs that finished successfully",
	})

	m.jobsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_failed_total",
		Help:      "Jobs that exhausted their retry budget",
	})

	m.jobsRetried = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_retried_total",
		Help:      "Failed executions returned to the pending queue",
	})

	m.jobsCancelled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_cancelled_total",
		Help:      "Jobs cancelled by callers",
	})

	m.jobsReassigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_reassigned_total",
		Help:      "Jobs requeued from unresponsive workers",
	})

	m.jobDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "job_duration_seconds",
		Help:      "Actual duration of completed jobs",
		Buckets:   m.histogramBuckets,
	})

	m.jobsPending = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_pending",
		Help:      "Jobs currently waiting for assignment",
	})

	m.jobsRunning = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "jobs_running",
		Help:      "Jobs currently executing",
	})

	m.workersBusy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "workers_busy",
		Help:      "Workers currently executing a job",
	})

	m.workersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "orchestrator",
		Name:      "workers_total",
		Help:      "Registered workers",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.componentErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "errors",
		Name:      "by_component_total",
		Help:      "Errors by component and kind",
	}, []string{"component", "kind"})
}

// GetRegistry returns the registry backing the global manager, for
// exposition via promhttp.
func GetRegistry() *prometheus.Registry { return customRegistry }

// Package-level helpers delegating to the global manager.

func RecordScoreComputation(provenance string) {
	globalManager.scoreComputations.WithLabelValues(provenance).Inc()
}
func RecordScoreFailure() { globalManager.scoreFailures.Inc() }
func RecordScorerLatency(source string, ms float64) {
	globalManager.scorerLatency.WithLabelValues(source).Observe(ms)
}
func RecordScorerError(source, reason string) {
	globalManager.scorerErrors.WithLabelValues(source, reason).Inc()
}

func RecordCacheHit(store string)  { globalManager.cacheHits.WithLabelValues(store).Inc() }
func RecordCacheMiss(store string) { globalManager.cacheMisses.WithLabelValues(store).Inc() }

func RecordBudgetReservation() { globalManager.budgetReservations.Inc() }
func RecordBudgetDenial()      { globalManager.budgetDenials.Inc() }
func UpdateBudgetUsed(n int)   { globalManager.budgetUsed.Set(float64(n)) }

func RecordJobSubmitted()           { globalManager.jobsSubmitted.Inc() }
func RecordJobCompleted()           { globalManager.jobsCompleted.Inc() }
func RecordJobFailed()              { globalManager.jobsFailed.Inc() }
func RecordJobRetried()             { globalManager.jobsRetried.Inc() }
func RecordJobCancelled()           { globalManager.jobsCancelled.Inc() }
func RecordJobReassigned()          { globalManager.jobsReassigned.Inc() }
func RecordJobDuration(sec float64) { globalManager.jobDuration.Observe(sec) }
func UpdateJobsPending(n int)       { globalManager.jobsPending.Set(float64(n)) }
func UpdateJobsRunning(n int)       { globalManager.jobsRunning.Set(float64(n)) }
func UpdateWorkersBusy(n int)       { globalManager.workersBusy.Set(float64(n)) }
func UpdateWorkersTotal(n int)      { globalManager.workersTotal.Set(float64(n)) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

func RecordErrorByComponent(component, kind string) {
	globalManager.componentErrors.WithLabelValues(component, kind).Inc()
}
